package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/askwiki/askwiki/internal/domain"
	"github.com/askwiki/askwiki/internal/vectorstore"
)

// Retriever answers the model's retrieve tool calls with the most similar
// indexed chunks.
type Retriever struct {
	embedder EmbeddingClient
	store    *vectorstore.Store
	k        int
}

func NewRetriever(embedder EmbeddingClient, store *vectorstore.Store, k int) *Retriever {
	if k <= 0 {
		k = 5
	}
	return &Retriever{
		embedder: embedder,
		store:    store,
		k:        k,
	}
}

// Retrieve embeds the query and returns the top matching chunks serialized
// for the model, plus the raw chunks. An empty index short-circuits to an
// empty result without calling the embedding API.
func (r *Retriever) Retrieve(ctx context.Context, query string) (string, []domain.Chunk, error) {
	if r.store.Len() == 0 {
		return "", nil, nil
	}

	embedding, err := r.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return "", nil, fmt.Errorf("failed to embed query: %w", err)
	}

	matches := r.store.Search(embedding, r.k)
	chunks := make([]domain.Chunk, 0, len(matches))
	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		chunks = append(chunks, m.Chunk)
		parts = append(parts, fmt.Sprintf("Source: %s\nContent: %s", m.Chunk.SourceURL, m.Chunk.Content))
	}
	return strings.Join(parts, "\n\n"), chunks, nil
}
