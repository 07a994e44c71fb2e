package vectordb

import (
	"context"
	"fmt"

	"WebMind/internal/modules/rag/domain/rag"
	"WebMind/internal/modules/rag/domain/repository"
)

// MilvusVectorStore 是 domain 层 repository.VectorStore 的 Milvus 实现（通过适配 MilvusStore）。
//
// 分层关系：
// - milvus_store.go：Milvus SDK 底层封装（UpsertItem/SearchHit），不依赖 domain。
// - milvus_vector_store.go：实现 domain 接口 repository.VectorStore，把 domain 类型映射到 milvus_store.go。
//
// 这样 application/pipeline 只依赖 repository.VectorStore，底层可替换（Milvus/内存实现）。

type MilvusVectorStore struct {
	store *MilvusStore
}

var _ repository.VectorStore = (*MilvusVectorStore)(nil)

func NewMilvusVectorStore(store *MilvusStore) (*MilvusVectorStore, error) {
	if store == nil {
		return nil, fmt.Errorf("milvus store is nil")
	}
	return &MilvusVectorStore{store: store}, nil
}

func (s *MilvusVectorStore) EnsureCollection(ctx context.Context, dim int) error {
	if dim != s.store.vectorDim {
		return rag.NewErrorf(rag.ErrKindConfiguration, "collection dim mismatch, got=%d want=%d", dim, s.store.vectorDim)
	}
	if err := s.store.EnsureCollection(ctx); err != nil {
		return rag.WrapError(rag.ErrKindIndex, "ensure collection failed", err)
	}
	return nil
}

func (s *MilvusVectorStore) Upsert(ctx context.Context, items []repository.VectorUpsertItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	upserts := make([]UpsertItem, 0, len(items))
	for _, it := range items {
		upserts = append(upserts, UpsertItem{
			ID:         it.ID,
			Vector:     it.Vector,
			DocumentID: it.DocumentID,
			Url:        it.Url,
			Title:      it.Title,
			ChunkIndex: int64(it.ChunkIndex),
			Content:    it.Content,
		})
	}
	n, err := s.store.Upsert(ctx, upserts)
	if err != nil {
		return 0, rag.WrapError(rag.ErrKindIndex, "vector upsert failed", err)
	}
	return n, nil
}

func (s *MilvusVectorStore) Search(ctx context.Context, vector []float32, topK int) ([]repository.VectorSearchHit, error) {
	hits, err := s.store.Search(ctx, vector, topK)
	if err != nil {
		return nil, rag.WrapError(rag.ErrKindIndex, "vector search failed", err)
	}
	out := make([]repository.VectorSearchHit, 0, len(hits))
	for _, h := range hits {
		out = append(out, repository.VectorSearchHit{
			ID:         h.ID,
			Score:      h.Score,
			DocumentID: h.DocumentID,
			Url:        h.Url,
			Title:      h.Title,
			ChunkIndex: int(h.ChunkIndex),
			Content:    h.Content,
		})
	}
	return out, nil
}

func (s *MilvusVectorStore) DeleteByDocumentID(ctx context.Context, documentID string) error {
	if err := s.store.DeleteByDocID(ctx, documentID); err != nil {
		return rag.WrapError(rag.ErrKindIndex, "vector delete failed", err)
	}
	return nil
}
