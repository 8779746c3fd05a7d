package vectorstore

import (
	"testing"

	"github.com/askwiki/askwiki/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_RanksBySimilarity(t *testing.T) {
	store := New()
	store.Add(domain.Chunk{Content: "about cats", SourceURL: "https://example.org/cats"}, []float32{1, 0, 0})
	store.Add(domain.Chunk{Content: "about dogs", SourceURL: "https://example.org/dogs"}, []float32{0, 1, 0})
	store.Add(domain.Chunk{Content: "mostly cats", SourceURL: "https://example.org/cats"}, []float32{0.9, 0.1, 0})

	matches := store.Search([]float32{1, 0, 0}, 2)
	require.Len(t, matches, 2)
	assert.Equal(t, "about cats", matches[0].Chunk.Content)
	assert.Equal(t, "mostly cats", matches[1].Chunk.Content)
	assert.Greater(t, matches[0].Score, matches[1].Score)
}

func TestSearch_FewerEntriesThanK(t *testing.T) {
	store := New()
	store.Add(domain.Chunk{Content: "only one"}, []float32{1, 0})

	matches := store.Search([]float32{1, 0}, 5)
	require.Len(t, matches, 1)
	assert.Equal(t, "only one", matches[0].Chunk.Content)
}

func TestSearch_EmptyStore(t *testing.T) {
	store := New()
	assert.Nil(t, store.Search([]float32{1, 0}, 5))
	assert.Equal(t, 0, store.Len())
}

func TestSearch_ZeroK(t *testing.T) {
	store := New()
	store.Add(domain.Chunk{Content: "x"}, []float32{1})
	assert.Nil(t, store.Search([]float32{1}, 0))
}

func TestLen(t *testing.T) {
	store := New()
	store.Add(domain.Chunk{Content: "a"}, []float32{1, 0})
	store.Add(domain.Chunk{Content: "b"}, []float32{0, 1})
	assert.Equal(t, 2, store.Len())
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{1, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)

	// mismatched or zero vectors score zero instead of erroring
	assert.Equal(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{1}))
	assert.Equal(t, 0.0, cosineSimilarity([]float32{0, 0}, []float32{1, 0}))
}
