package rag

import (
	"math"
	"sort"
	"sync"
)

const DefaultTopK = 5

// InMemoryStore holds embedded chunks for the lifetime of the process and
// answers exact nearest-neighbour queries by cosine similarity.
type InMemoryStore struct {
	mu     sync.RWMutex
	chunks []Chunk
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		chunks: []Chunk{},
	}
}

func (s *InMemoryStore) Add(chunks ...Chunk) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = append(s.chunks, chunks...)
}

func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// cosine similarity, 0 for mismatched or zero vectors
func cosine(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
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

// Search returns at most topK chunks ordered by descending score. Ties keep
// insertion order.
func (s *InMemoryStore) Search(queryEmbedding []float64, topK int) []SearchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if topK <= 0 {
		return []SearchResult{}
	}

	results := make([]SearchResult, 0, len(s.chunks))
	for _, ch := range s.chunks {
		results = append(results, SearchResult{
			Chunk: ch,
			Score: cosine(queryEmbedding, ch.Embedding),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK > len(results) {
		topK = len(results)
	}
	return results[:topK]
}
