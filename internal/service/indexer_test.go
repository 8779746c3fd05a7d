package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/askwiki/askwiki/internal/vectorstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockEmbeddingClient struct {
	mock.Mock
}

func (m *MockEmbeddingClient) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

func TestIndex_ChunksAndEmbeds(t *testing.T) {
	embedder := new(MockEmbeddingClient)
	embedder.On("GenerateEmbedding", mock.Anything, mock.Anything).Return([]float32{0.1, 0.2}, nil)

	store := vectorstore.New()
	indexer := NewIndexer(embedder, store, ChunkConfig{Size: 10, Overlap: 0})

	err := indexer.Index(context.Background(), map[string]string{
		"https://en.wikipedia.org/wiki/Paris": strings.Repeat("a", 25),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, store.Len())
	embedder.AssertNumberOfCalls(t, "GenerateEmbedding", 3)
}

func TestIndex_RecordsSourceURL(t *testing.T) {
	embedder := new(MockEmbeddingClient)
	embedder.On("GenerateEmbedding", mock.Anything, "short").Return([]float32{1, 0}, nil)

	store := vectorstore.New()
	indexer := NewIndexer(embedder, store, DefaultChunkConfig())

	err := indexer.Index(context.Background(), map[string]string{
		"https://en.wikipedia.org/wiki/Paris": "short",
	})
	require.NoError(t, err)

	matches := store.Search([]float32{1, 0}, 1)
	require.Len(t, matches, 1)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Paris", matches[0].Chunk.SourceURL)
}

func TestIndex_EmbeddingFailure(t *testing.T) {
	embedder := new(MockEmbeddingClient)
	embedder.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(nil, errors.New("rate limited"))

	store := vectorstore.New()
	indexer := NewIndexer(embedder, store, DefaultChunkConfig())

	err := indexer.Index(context.Background(), map[string]string{"https://x": "text"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestIndex_EmptyInput(t *testing.T) {
	store := vectorstore.New()
	indexer := NewIndexer(new(MockEmbeddingClient), store, DefaultChunkConfig())

	require.NoError(t, indexer.Index(context.Background(), map[string]string{}))
	assert.Equal(t, 0, store.Len())
}
