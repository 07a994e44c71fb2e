package embedding

import (
	"context"
	"hash/fnv"
	"math"

	"WebMind/internal/modules/rag/domain/repository"
)

// MockEmbedder 确定性的本地向量化实现：同一文本恒得同一向量，
// 词重叠越多的文本余弦相似度越高。用于开发与测试，不依赖外部服务。
type MockEmbedder struct {
	Dim int
}

var _ repository.Embedder = (*MockEmbedder)(nil)

func NewMockEmbedder(dim int) *MockEmbedder {
	if dim <= 0 {
		dim = 384
	}
	return &MockEmbedder{Dim: dim}
}

func (m *MockEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	return m.embedOne(text), nil
}

func (m *MockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float64, error) {
	result := make([][]float64, len(texts))
	for i, t := range texts {
		result[i] = m.embedOne(t)
	}
	return result, nil
}

func (m *MockEmbedder) Dimension() int { return m.Dim }

// embedOne 词袋式哈希投影 + L2 归一化
func (m *MockEmbedder) embedOne(text string) []float64 {
	vec := make([]float64, m.Dim)

	word := make([]rune, 0, 16)
	flush := func() {
		if len(word) == 0 {
			return
		}
		h := fnv.New64a()
		_, _ = h.Write([]byte(string(word)))
		sum := h.Sum64()
		idx := int(sum % uint64(m.Dim))
		sign := 1.0
		if (sum>>63)&1 == 1 {
			sign = -1.0
		}
		vec[idx] += sign
		word = word[:0]
	}
	for _, r := range text {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			flush()
			continue
		}
		word = append(word, r)
	}
	flush()

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		vec[0] = 1
		return vec
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}
