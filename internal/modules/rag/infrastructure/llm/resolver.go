package llm

import (
	"context"
	"sync"

	"WebMind/internal/modules/rag/domain/rag"
	"WebMind/internal/modules/rag/domain/repository"
	"WebMind/pkg/zlog"

	"go.uber.org/zap"
)

// Resolver 把共享配置解析成可用的生成后端实例
//
// 每次 Resolve 都重新读取共享配置（其他进程实例可能已切换），
// 仅当配置指纹与上次一致时才复用缓存的实例，避免每个请求都重建 HTTP 客户端。
type Resolver struct {
	store    repository.ProviderConfigStore
	defaults rag.ProviderConfig

	mu          sync.Mutex
	cached      Provider
	fingerprint string

	// newProvider 可注入以便测试
	newProvider Constructor
}

func NewResolver(store repository.ProviderConfigStore, defaults rag.ProviderConfig) *Resolver {
	return &Resolver{store: store, defaults: defaults, newProvider: NewProvider}
}

// Current 返回当前生效的配置：共享存储里有就用它，否则回落到静态默认值
func (r *Resolver) Current(ctx context.Context) (*rag.ProviderConfig, error) {
	cfg, err := r.store.Get(ctx)
	if err != nil {
		return nil, rag.WrapError(rag.ErrKindUnavailable, "read provider config failed", err)
	}
	if cfg == nil {
		c := r.defaults
		return &c, nil
	}
	return cfg, nil
}

// Resolve 返回当前配置对应的 Provider 实例，配置未变时复用缓存
func (r *Resolver) Resolve(ctx context.Context) (Provider, error) {
	cfg, err := r.Current(ctx)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	fp := cfg.Fingerprint()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cached != nil && r.fingerprint == fp {
		return r.cached, nil
	}

	p, err := r.newProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	zlog.Info("llm provider rebuilt", zap.String("kind", string(cfg.Kind)), zap.String("model", cfg.Model))
	r.cached = p
	r.fingerprint = fp
	return p, nil
}

// SwitchTo 校验并持久化新配置；写入成功后，所有进程实例的下一次 Resolve 都会生效。
// 校验失败不落盘，当前配置保持不变。
func (r *Resolver) SwitchTo(ctx context.Context, cfg *rag.ProviderConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	// 先确认能构建实例，再写共享存储，避免把无法使用的配置广播出去
	if _, err := r.newProvider(ctx, cfg); err != nil {
		return err
	}
	if err := r.store.Set(ctx, cfg); err != nil {
		return rag.WrapError(rag.ErrKindUnavailable, "persist provider config failed", err)
	}
	zlog.Info("llm provider switched", zap.String("kind", string(cfg.Kind)), zap.String("model", cfg.Model))
	return nil
}
