package repository

import (
	"context"

	"WebMind/internal/modules/rag/domain/rag"
)

// DocumentRepository 负责 Document 生命周期状态的持久化，是状态与去重的唯一事实来源
type DocumentRepository interface {
	// Submit 按 URL 去重创建：不存在则新建 pending 文档并返回 isNew=true；
	// 已存在则原样返回。对同一 URL 的并发提交必须保证只产生一条记录
	//（依赖存储层 URL 唯一约束，竞争失败方重读胜出方的行）。
	Submit(ctx context.Context, url string) (doc *rag.Document, isNew bool, err error)

	// TryMarkProcessing 以 CAS 方式执行 pending → processing；
	// 返回 false 表示文档已不在 pending（重复投递或他人抢先），调用方应跳过。
	TryMarkProcessing(ctx context.Context, id string) (bool, error)

	// MarkCompleted 记录标题与写入的 chunk 数并置为 completed
	MarkCompleted(ctx context.Context, id string, title string, chunkCount int) error

	// MarkFailed 记录失败原因并置为 failed
	MarkFailed(ctx context.Context, id string, errMsg string) error

	// TryMarkRetrying 以 CAS 方式执行 failed → pending 并清空 error_message；
	// 返回 false 表示文档已不在 failed 状态。
	TryMarkRetrying(ctx context.Context, id string) (bool, error)

	// GetByID 查询单个文档；不存在返回 (nil, nil)
	GetByID(ctx context.Context, id string) (*rag.Document, error)

	// GetByURL 查询单个文档；不存在返回 (nil, nil)
	GetByURL(ctx context.Context, url string) (*rag.Document, error)

	// List 分页列出文档，statusFilter 为空表示不过滤；返回总数用于分页
	List(ctx context.Context, statusFilter string, limit, offset int) ([]rag.Document, int64, error)
}
