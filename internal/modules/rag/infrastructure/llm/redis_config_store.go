package llm

import (
	"context"
	"encoding/json"

	"WebMind/internal/modules/rag/domain/rag"
	"WebMind/internal/modules/rag/domain/repository"
	"WebMind/pkg/redis"
)

// providerConfigKey 所有进程实例共享同一个配置键，last-writer-wins
const providerConfigKey = "rag:current_provider"

// RedisProviderConfigStore 基于 Redis 的共享生成后端配置存储
type RedisProviderConfigStore struct{}

var _ repository.ProviderConfigStore = (*RedisProviderConfigStore)(nil)

func NewRedisProviderConfigStore() *RedisProviderConfigStore {
	return &RedisProviderConfigStore{}
}

func (s *RedisProviderConfigStore) Get(ctx context.Context) (*rag.ProviderConfig, error) {
	raw, err := redis.Get(ctx, providerConfigKey)
	if err != nil {
		if redis.IsNil(err) {
			return nil, nil
		}
		return nil, err
	}

	var cfg rag.ProviderConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return nil, rag.WrapError(rag.ErrKindConfiguration, "decode provider config failed", err)
	}
	return &cfg, nil
}

func (s *RedisProviderConfigStore) Set(ctx context.Context, cfg *rag.ProviderConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	// 配置不设过期：切换是显式操作，只被下一次切换覆盖
	return redis.Set(ctx, providerConfigKey, string(data), 0)
}
