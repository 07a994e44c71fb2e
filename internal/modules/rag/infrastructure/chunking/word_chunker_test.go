package chunking

import (
	"fmt"
	"strings"
	"testing"

	"WebMind/internal/modules/rag/domain/rag"

	"github.com/stretchr/testify/require"
)

func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(parts, " ")
}

func TestWordChunkerSingleChunk(t *testing.T) {
	c, err := NewWordChunker(500, 50)
	require.NoError(t, err)

	chunks, err := c.Chunk(words(500))
	require.NoError(t, err)
	require.Len(t, chunks, 1)
}

func TestWordChunkerOverlapWindows(t *testing.T) {
	c, err := NewWordChunker(500, 50)
	require.NoError(t, err)

	// 550 词：第一窗 [0,500)，步长 450，第二窗 [450,550)
	chunks, err := c.Chunk(words(550))
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	first := strings.Fields(chunks[0])
	second := strings.Fields(chunks[1])
	require.Len(t, first, 500)
	require.Len(t, second, 100)
	// 重叠区：第二窗从第 450 个词开始
	require.Equal(t, "w450", second[0])
	require.Equal(t, "w549", second[len(second)-1])
}

func TestWordChunkerThreeWindows(t *testing.T) {
	c, err := NewWordChunker(500, 50)
	require.NoError(t, err)

	// 1200 词：[0,500) [450,950) [900,1200)
	chunks, err := c.Chunk(words(1200))
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	first := strings.Fields(chunks[0])
	second := strings.Fields(chunks[1])
	third := strings.Fields(chunks[2])

	require.Equal(t, "w0", first[0])
	require.Equal(t, "w499", first[len(first)-1])
	require.Equal(t, "w450", second[0])
	require.Equal(t, "w949", second[len(second)-1])
	require.Equal(t, "w900", third[0])
	require.Equal(t, "w1199", third[len(third)-1])
}

func TestWordChunkerDeterministic(t *testing.T) {
	c, err := NewWordChunker(500, 50)
	require.NoError(t, err)

	input := words(1234)
	a, err := c.Chunk(input)
	require.NoError(t, err)
	b, err := c.Chunk(input)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestWordChunkerSmallWindows(t *testing.T) {
	c, err := NewWordChunker(4, 1)
	require.NoError(t, err)

	chunks, err := c.Chunk("a b c d e f g")
	require.NoError(t, err)
	require.Equal(t, []string{"a b c d", "d e f g"}, chunks)
}

func TestWordChunkerEmptyInput(t *testing.T) {
	c, err := NewWordChunker(500, 50)
	require.NoError(t, err)

	_, err = c.Chunk("   \n\t ")
	require.Error(t, err)
	require.True(t, rag.IsKind(err, rag.ErrKindEmptyInput))
}

func TestWordChunkerInvalidConfig(t *testing.T) {
	_, err := NewWordChunker(0, 0)
	require.True(t, rag.IsKind(err, rag.ErrKindConfiguration))

	_, err = NewWordChunker(100, -1)
	require.True(t, rag.IsKind(err, rag.ErrKindConfiguration))

	// overlap >= size 会让窗口无法推进
	_, err = NewWordChunker(50, 50)
	require.True(t, rag.IsKind(err, rag.ErrKindConfiguration))

	_, err = NewWordChunker(50, 80)
	require.True(t, rag.IsKind(err, rag.ErrKindConfiguration))
}
