package vectordb

import (
	"context"
	"math"
	"sort"
	"sync"

	"WebMind/internal/modules/rag/domain/rag"
	"WebMind/internal/modules/rag/domain/repository"
)

// MemoryVectorStore 纯内存的向量索引实现，暴力余弦检索。
// 用于本地开发与测试，无持久化。
type MemoryVectorStore struct {
	mu    sync.RWMutex
	dim   int
	order []string
	items map[string]repository.VectorUpsertItem
}

var _ repository.VectorStore = (*MemoryVectorStore)(nil)

func NewMemoryVectorStore() *MemoryVectorStore {
	return &MemoryVectorStore{items: make(map[string]repository.VectorUpsertItem)}
}

func (s *MemoryVectorStore) EnsureCollection(_ context.Context, dim int) error {
	if dim <= 0 {
		return rag.NewErrorf(rag.ErrKindConfiguration, "invalid collection dim: %d", dim)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dim == 0 {
		s.dim = dim
		return nil
	}
	if s.dim != dim {
		return rag.NewErrorf(rag.ErrKindConfiguration, "collection dim mismatch, got=%d want=%d", dim, s.dim)
	}
	return nil
}

func (s *MemoryVectorStore) Upsert(_ context.Context, items []repository.VectorUpsertItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range items {
		if it.ID == "" {
			return 0, rag.NewError(rag.ErrKindIndex, "upsert item missing ID")
		}
		if s.dim > 0 && len(it.Vector) != s.dim {
			return 0, rag.NewErrorf(rag.ErrKindIndex, "vector dim mismatch for id=%s, got=%d want=%d", it.ID, len(it.Vector), s.dim)
		}
		if _, exists := s.items[it.ID]; !exists {
			s.order = append(s.order, it.ID)
		}
		s.items[it.ID] = it
	}
	return len(items), nil
}

func (s *MemoryVectorStore) Search(_ context.Context, vector []float32, topK int) ([]repository.VectorSearchHit, error) {
	if topK <= 0 {
		topK = 5
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		pos int
		hit repository.VectorSearchHit
	}
	candidates := make([]scored, 0, len(s.order))
	for pos, id := range s.order {
		it := s.items[id]
		candidates = append(candidates, scored{
			pos: pos,
			hit: repository.VectorSearchHit{
				ID:         it.ID,
				Score:      cosineSimilarity(vector, it.Vector),
				DocumentID: it.DocumentID,
				Url:        it.Url,
				Title:      it.Title,
				ChunkIndex: it.ChunkIndex,
				Content:    it.Content,
			},
		})
	}

	// 相似度降序，同分按插入顺序保持稳定
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].hit.Score != candidates[j].hit.Score {
			return candidates[i].hit.Score > candidates[j].hit.Score
		}
		return candidates[i].pos < candidates[j].pos
	})

	if len(candidates) > topK {
		candidates = candidates[:topK]
	}
	hits := make([]repository.VectorSearchHit, 0, len(candidates))
	for _, c := range candidates {
		hits = append(hits, c.hit)
	}
	return hits, nil
}

func (s *MemoryVectorStore) DeleteByDocumentID(_ context.Context, documentID string) error {
	if documentID == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.order[:0]
	for _, id := range s.order {
		if s.items[id].DocumentID == documentID {
			delete(s.items, id)
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
	return nil
}

// Len 当前索引中的向量点数量（测试用）
func (s *MemoryVectorStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
