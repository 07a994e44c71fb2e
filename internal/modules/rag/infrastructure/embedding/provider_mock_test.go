package embedding

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMockEmbedderDeterministic(t *testing.T) {
	m := NewMockEmbedder(64)
	ctx := context.Background()

	a1, err := m.Embed(ctx, "the quick brown fox")
	require.NoError(t, err)
	a2, err := m.Embed(ctx, "the quick brown fox")
	require.NoError(t, err)
	require.Equal(t, a1, a2)
	require.Len(t, a1, 64)
}

func TestMockEmbedderBatchPreservesOrder(t *testing.T) {
	m := NewMockEmbedder(32)
	ctx := context.Background()

	texts := []string{"alpha", "beta", "gamma"}
	vecs, err := m.EmbedBatch(ctx, texts)
	require.NoError(t, err)
	require.Len(t, vecs, 3)

	for i, text := range texts {
		single, err := m.Embed(ctx, text)
		require.NoError(t, err)
		require.Equal(t, single, vecs[i])
	}
}

func TestMockEmbedderSimilarTextsScoreHigher(t *testing.T) {
	m := NewMockEmbedder(128)
	ctx := context.Background()

	base, _ := m.Embed(ctx, "cats and dogs are pets")
	near, _ := m.Embed(ctx, "cats and dogs are animals")
	far, _ := m.Embed(ctx, "quantum chromodynamics lattice simulation")

	require.Greater(t, cosine(base, near), cosine(base, far))
}

func TestMockEmbedderNormalized(t *testing.T) {
	m := NewMockEmbedder(96)
	vec, err := m.Embed(context.Background(), "some words here")
	require.NoError(t, err)

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	require.InDelta(t, 1.0, math.Sqrt(norm), 1e-9)
}

func cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
