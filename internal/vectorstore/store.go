// Package vectorstore holds embedded article chunks in memory and serves
// cosine-similarity lookups over them. The index lives for the lifetime of
// the process and is rebuilt from Wikipedia on demand.
package vectorstore

import (
	"math"
	"sort"
	"sync"

	"github.com/askwiki/askwiki/internal/domain"
)

// Match pairs a stored chunk with its similarity score against a query.
type Match struct {
	Chunk domain.Chunk
	Score float64
}

type entry struct {
	chunk     domain.Chunk
	embedding []float32
}

// Store is an append-only in-memory vector index. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries []entry
}

func New() *Store {
	return &Store{}
}

// Add appends a chunk and its embedding to the index.
func (s *Store) Add(chunk domain.Chunk, embedding []float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry{chunk: chunk, embedding: embedding})
}

// Len returns the number of indexed chunks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Search returns the k chunks most similar to the query embedding, best
// first. Returns fewer than k when the index is smaller.
func (s *Store) Search(embedding []float32, k int) []Match {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if k <= 0 || len(s.entries) == 0 {
		return nil
	}

	matches := make([]Match, 0, len(s.entries))
	for _, e := range s.entries {
		matches = append(matches, Match{
			Chunk: e.chunk,
			Score: cosineSimilarity(embedding, e.embedding),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	return matches
}

func cosineSimilarity(a, b []float32) float64 {
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
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
