package llm

import (
	"context"
	"sync"

	"WebMind/internal/modules/rag/domain/rag"
	"WebMind/internal/modules/rag/domain/repository"
)

// MemoryProviderConfigStore 进程内的配置存储，Redis 未配置时的单机兜底。
// 切换只对当前进程生效，多实例部署必须用 Redis 实现。
type MemoryProviderConfigStore struct {
	mu  sync.RWMutex
	cfg *rag.ProviderConfig
}

var _ repository.ProviderConfigStore = (*MemoryProviderConfigStore)(nil)

func NewMemoryProviderConfigStore() *MemoryProviderConfigStore {
	return &MemoryProviderConfigStore{}
}

func (s *MemoryProviderConfigStore) Get(_ context.Context) (*rag.ProviderConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cfg == nil {
		return nil, nil
	}
	c := *s.cfg
	return &c, nil
}

func (s *MemoryProviderConfigStore) Set(_ context.Context, cfg *rag.ProviderConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *cfg
	s.cfg = &c
	return nil
}
