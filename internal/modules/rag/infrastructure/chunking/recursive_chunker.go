package chunking

import (
	"context"
	"strings"
	"sync"

	"WebMind/internal/modules/rag/domain/rag"

	"github.com/cloudwego/eino-ext/components/document/transformer/splitter/recursive"
	"github.com/cloudwego/eino/components/document"
	"github.com/cloudwego/eino/schema"
)

// RecursiveChunker 按分隔符递归切分，面向段落结构明显的文本。
// 大小按字符（rune）计，与词窗口切分器可通过配置互换。
type RecursiveChunker struct {
	size    int
	overlap int

	initOnce sync.Once
	initErr  error
	impl     document.Transformer
}

func NewRecursiveChunker(size, overlap int) (*RecursiveChunker, error) {
	if size <= 0 {
		return nil, rag.NewErrorf(rag.ErrKindConfiguration, "chunk size must be positive, got %d", size)
	}
	if overlap < 0 {
		return nil, rag.NewErrorf(rag.ErrKindConfiguration, "chunk overlap must be non-negative, got %d", overlap)
	}
	if overlap >= size {
		return nil, rag.NewErrorf(rag.ErrKindConfiguration, "chunk overlap %d must be smaller than size %d", overlap, size)
	}
	return &RecursiveChunker{size: size, overlap: overlap}, nil
}

func (c *RecursiveChunker) Chunk(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, rag.NewError(rag.ErrKindEmptyInput, "text is empty")
	}

	ctx := context.Background()
	c.initOnce.Do(func() {
		impl, err := recursive.NewSplitter(ctx, &recursive.Config{
			ChunkSize:   c.size,
			OverlapSize: c.overlap,
			Separators:  []string{"\n\n", "\n", "。", "！", "？", "；", "，", " "},
			LenFunc: func(s string) int {
				return len([]rune(s))
			},
			KeepType: recursive.KeepTypeEnd,
		})
		if err != nil {
			c.initErr = err
			return
		}
		c.impl = impl
	})
	if c.initErr != nil {
		return nil, rag.WrapError(rag.ErrKindConfiguration, "build recursive splitter failed", c.initErr)
	}

	frags, err := c.impl.Transform(ctx, []*schema.Document{{Content: text}})
	if err != nil {
		return nil, rag.WrapError(rag.ErrKindExtraction, "recursive split failed", err)
	}

	chunks := make([]string, 0, len(frags))
	for _, f := range frags {
		if f == nil || strings.TrimSpace(f.Content) == "" {
			continue
		}
		chunks = append(chunks, f.Content)
	}
	if len(chunks) == 0 {
		return nil, rag.NewError(rag.ErrKindEmptyInput, "text is empty")
	}
	return chunks, nil
}
