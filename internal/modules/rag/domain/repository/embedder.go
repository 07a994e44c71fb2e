package repository

import "context"

// Embedder 文本向量化的窄接口，由外部模型实现
type Embedder interface {
	// Embed 将单条文本映射为固定维度向量
	Embed(ctx context.Context, text string) ([]float64, error)

	// EmbedBatch 批量向量化，必须保持输入顺序且与输入一一对应
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)

	// Dimension 向量维度，对同一部署模型恒定
	Dimension() int
}
