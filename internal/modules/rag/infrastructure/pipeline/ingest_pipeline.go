package pipeline

import (
	"context"
	"errors"
	"fmt"

	"WebMind/internal/modules/rag/domain/repository"
	"WebMind/internal/modules/rag/infrastructure/extractor"
	"WebMind/pkg/zlog"

	"go.uber.org/zap"
)

// Chunker 文本切分策略
type Chunker interface {
	Chunk(text string) ([]string, error)
}

// IngestPipeline 摄取管线：抓取 → 抽取 → 切分 → 向量化 → 入索引
//
// 失败即中止：任何一步出错都不落后续步骤，错误原样返回给调用方记账。
// 重新索引前先删掉该文档名下的旧向量点，保证 chunk 变少时不留孤儿。
type IngestPipeline struct {
	extractor *extractor.HTMLExtractor
	chunker   Chunker
	embedder  repository.Embedder
	store     repository.VectorStore
	docRepo   repository.DocumentRepository
}

func NewIngestPipeline(ex *extractor.HTMLExtractor, chunker Chunker, embedder repository.Embedder, store repository.VectorStore, docRepo repository.DocumentRepository) (*IngestPipeline, error) {
	if ex == nil || chunker == nil || embedder == nil || store == nil || docRepo == nil {
		return nil, errors.New("ingest pipeline missing dependency")
	}
	return &IngestPipeline{extractor: ex, chunker: chunker, embedder: embedder, store: store, docRepo: docRepo}, nil
}

// Ingest 处理单个文档：成功时置 completed 并记录标题与 chunk 数
func (p *IngestPipeline) Ingest(ctx context.Context, docID, url string) error {
	page, err := p.extractor.Extract(ctx, url)
	if err != nil {
		return err
	}

	chunks, err := p.chunker.Chunk(page.Text)
	if err != nil {
		return err
	}

	// 同一文档重复处理（重试/重复投递）是幂等的：先清旧点再写新点
	if err := p.store.DeleteByDocumentID(ctx, docID); err != nil {
		return err
	}

	vectors, err := p.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return err
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedding count mismatch, got=%d want=%d", len(vectors), len(chunks))
	}

	items := make([]repository.VectorUpsertItem, 0, len(chunks))
	for i, chunk := range chunks {
		items = append(items, repository.VectorUpsertItem{
			// 点 ID 由文档 ID + 序号确定，重复写入覆盖而不是累积
			ID:         fmt.Sprintf("%s-%d", docID, i),
			Vector:     toFloat32(vectors[i]),
			DocumentID: docID,
			Url:        url,
			Title:      page.Title,
			ChunkIndex: i,
			Content:    chunk,
		})
	}

	written, err := p.store.Upsert(ctx, items)
	if err != nil {
		return err
	}

	if err := p.docRepo.MarkCompleted(ctx, docID, page.Title, written); err != nil {
		return err
	}

	zlog.Info("document ingested",
		zap.String("doc_id", docID),
		zap.String("url", url),
		zap.Int("chunks", written))
	return nil
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}
