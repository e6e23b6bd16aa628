package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

func TestVectorIndexSearchOrdersBySimilarity(t *testing.T) {
	index := NewVectorIndex()
	ctx := context.Background()

	require.NoError(t, index.Add(ctx, "x", []float32{1, 0}))
	require.NoError(t, index.Add(ctx, "y", []float32{0.7, 0.7}))
	require.NoError(t, index.Add(ctx, "z", []float32{0, 1}))

	hits, err := index.Search(ctx, []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "x", hits[0].ID)
	assert.Equal(t, "y", hits[1].ID)
	assert.Equal(t, "z", hits[2].ID)
	assert.Greater(t, hits[0].Similarity, hits[1].Similarity)
}

func TestVectorIndexSimilarityIgnoresMagnitude(t *testing.T) {
	index := NewVectorIndex()
	ctx := context.Background()

	// Same direction, different magnitudes: identical similarity.
	require.NoError(t, index.Add(ctx, "small", []float32{1, 1}))
	require.NoError(t, index.Add(ctx, "large", []float32{100, 100}))

	hits, err := index.Search(ctx, []float32{2, 2}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.InDelta(t, hits[0].Similarity, hits[1].Similarity, 1e-6)
}

func TestVectorIndexTieBreaksByID(t *testing.T) {
	index := NewVectorIndex()
	ctx := context.Background()

	require.NoError(t, index.Add(ctx, "b", []float32{1, 0}))
	require.NoError(t, index.Add(ctx, "a", []float32{1, 0}))
	require.NoError(t, index.Add(ctx, "c", []float32{1, 0}))

	hits, err := index.Search(ctx, []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{hits[0].ID, hits[1].ID, hits[2].ID})
}

func TestVectorIndexTopKTruncates(t *testing.T) {
	index := NewVectorIndex()
	ctx := context.Background()

	require.NoError(t, index.Add(ctx, "a", []float32{1, 0}))
	require.NoError(t, index.Add(ctx, "b", []float32{0, 1}))

	hits, err := index.Search(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "a", hits[0].ID)
}

func TestVectorIndexSearchFiltered(t *testing.T) {
	index := NewVectorIndex()
	ctx := context.Background()

	require.NoError(t, index.Add(ctx, "a", []float32{1, 0}))
	require.NoError(t, index.Add(ctx, "b", []float32{0.9, 0.1}))
	require.NoError(t, index.Add(ctx, "c", []float32{0, 1}))

	hits, err := index.SearchFiltered(ctx, []float32{1, 0}, 3, map[string]bool{"b": true, "c": true})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "b", hits[0].ID)
	assert.Equal(t, "c", hits[1].ID)
}

func TestVectorIndexDimensionMismatch(t *testing.T) {
	index := NewVectorIndex()
	ctx := context.Background()

	require.NoError(t, index.Add(ctx, "a", []float32{1, 0, 0}))

	err := index.Add(ctx, "b", []float32{1, 0})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)

	_, err = index.Search(ctx, []float32{1, 0}, 1)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestVectorIndexDelete(t *testing.T) {
	index := NewVectorIndex()
	ctx := context.Background()

	require.NoError(t, index.Add(ctx, "a", []float32{1, 0}))
	require.NoError(t, index.Add(ctx, "b", []float32{0, 1}))
	assert.Equal(t, 2, index.Len())

	require.NoError(t, index.Delete(ctx, "a"))
	assert.Equal(t, 1, index.Len())

	// Deleting an absent ID is a no-op.
	require.NoError(t, index.Delete(ctx, "a"))

	hits, err := index.Search(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "b", hits[0].ID)
}
