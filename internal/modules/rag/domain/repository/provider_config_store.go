package repository

import (
	"context"

	"WebMind/internal/modules/rag/domain/rag"
)

// ProviderConfigStore 进程间共享的生成后端配置存储（Redis 实现）
//
// 写入为 last-writer-wins；读取方每次解析 provider 前都必须重新 Get。
type ProviderConfigStore interface {
	// Get 读取当前配置；未设置时返回 (nil, nil)
	Get(ctx context.Context) (*rag.ProviderConfig, error)

	// Set 覆盖写入配置
	Set(ctx context.Context, cfg *rag.ProviderConfig) error
}
