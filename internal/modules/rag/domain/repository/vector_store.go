package repository

import "context"

// VectorUpsertItem 写入向量库的一条记录：向量 + 原文 + 元数据
type VectorUpsertItem struct {
	ID         string
	Vector     []float32
	DocumentID string
	Url        string
	Title      string
	ChunkIndex int
	Content    string
}

// VectorSearchHit 相似度检索命中
type VectorSearchHit struct {
	ID         string
	Score      float32
	DocumentID string
	Url        string
	Title      string
	ChunkIndex int
	Content    string
}

// VectorStore 向量索引的窄接口，底层可替换（Milvus / 内存实现）
type VectorStore interface {
	// EnsureCollection 幂等创建指定维度的集合（cosine 度量）
	EnsureCollection(ctx context.Context, dim int) error

	// Upsert 写入全部记录并返回写入条数。调用方将任何错误视为整批失败，
	// 不得据此更新 chunk 计数。
	Upsert(ctx context.Context, items []VectorUpsertItem) (int, error)

	// Search 返回至多 topK 条最近邻，按相似度降序
	Search(ctx context.Context, vector []float32, topK int) ([]VectorSearchHit, error)

	// DeleteByDocumentID 删除某文档名下的全部向量点（重试前清理陈旧向量）
	DeleteByDocumentID(ctx context.Context, documentID string) error
}
