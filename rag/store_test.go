package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStore_AddAndSearch(t *testing.T) {
	store := NewInMemoryStore()

	// 2D toy embeddings so we can reason easily
	chunks := []Chunk{
		{ID: "1", Content: "A", Embedding: []float64{1, 0}},
		{ID: "2", Content: "B", Embedding: []float64{0, 1}},
	}
	store.Add(chunks...)
	assert.Equal(t, 2, store.Len())

	// query close to {1,0}
	results := store.Search([]float64{0.9, 0.1}, 1)
	require.Len(t, results, 1)
	assert.Equal(t, "1", results[0].Chunk.ID)
}

func TestCosineSimilarity_Basic(t *testing.T) {
	a := []float64{1, 0}
	b := []float64{1, 0}
	c := []float64{0, 1}

	assert.InDelta(t, 1.0, cosine(a, b), 0.01)
	assert.InDelta(t, 0.0, cosine(a, c), 0.01)
	assert.Zero(t, cosine(a, []float64{1, 0, 0}))
	assert.Zero(t, cosine(a, []float64{0, 0}))
}

func TestInMemoryStore_SearchTopKBounds(t *testing.T) {
	store := NewInMemoryStore()
	store.Add(
		Chunk{ID: "1", Embedding: []float64{1, 0}},
		Chunk{ID: "2", Embedding: []float64{0, 1}},
	)

	assert.Len(t, store.Search([]float64{1, 0}, 10), 2)
	assert.Empty(t, store.Search([]float64{1, 0}, 0))
	assert.Empty(t, NewInMemoryStore().Search([]float64{1, 0}, DefaultTopK))
}

func TestInMemoryStore_SearchOrdersByDescendingScore(t *testing.T) {
	store := NewInMemoryStore()
	for i, v := range [][]float64{{0, 1}, {1, 1}, {1, 0}, {1, 0.5}, {-1, 0}, {0.2, 1}, {1, 0.1}} {
		store.Add(Chunk{ID: string(rune('a' + i)), Embedding: v})
	}

	results := store.Search([]float64{1, 0}, DefaultTopK)
	require.Len(t, results, DefaultTopK)
	assert.Equal(t, "c", results[0].Chunk.ID)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}
