package chunking

import (
	"strings"

	"WebMind/internal/modules/rag/domain/rag"
)

// WordChunker 按词窗口切分文本
//
// 切分规则：窗口 size 个词，步长 size-overlap，最后一个窗口可不满。
// overlap >= size 会导致步长非正（死循环），视为配置错误。
type WordChunker struct {
	size    int
	overlap int
}

func NewWordChunker(size, overlap int) (*WordChunker, error) {
	if size <= 0 {
		return nil, rag.NewErrorf(rag.ErrKindConfiguration, "chunk size must be positive, got %d", size)
	}
	if overlap < 0 {
		return nil, rag.NewErrorf(rag.ErrKindConfiguration, "chunk overlap must be non-negative, got %d", overlap)
	}
	if overlap >= size {
		return nil, rag.NewErrorf(rag.ErrKindConfiguration, "chunk overlap %d must be smaller than size %d", overlap, size)
	}
	return &WordChunker{size: size, overlap: overlap}, nil
}

// Chunk 切分文本；空白输入返回 empty_input 错误
func (c *WordChunker) Chunk(text string) ([]string, error) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, rag.NewError(rag.ErrKindEmptyInput, "text is empty")
	}

	if len(words) <= c.size {
		return []string{strings.Join(words, " ")}, nil
	}

	step := c.size - c.overlap
	chunks := make([]string, 0, (len(words)+step-1)/step)
	for start := 0; start < len(words); start += step {
		end := start + c.size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
	}
	return chunks, nil
}
