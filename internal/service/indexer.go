package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/askwiki/askwiki/internal/domain"
	"github.com/askwiki/askwiki/internal/vectorstore"
)

// EmbeddingClient defines the embedding operation used by the indexer
// and retriever.
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// Indexer chunks article content, embeds each chunk, and adds it to the
// vector store.
type Indexer struct {
	embedder EmbeddingClient
	store    *vectorstore.Store
	chunking ChunkConfig
}

func NewIndexer(embedder EmbeddingClient, store *vectorstore.Store, chunking ChunkConfig) *Indexer {
	return &Indexer{
		embedder: embedder,
		store:    store,
		chunking: chunking,
	}
}

// Index splits each article into chunks and embeds them into the store.
// Articles are processed in URL order so indexing is deterministic.
func (i *Indexer) Index(ctx context.Context, contentBySource map[string]string) error {
	urls := make([]string, 0, len(contentBySource))
	for url := range contentBySource {
		urls = append(urls, url)
	}
	sort.Strings(urls)

	for _, url := range urls {
		for _, text := range ChunkText(contentBySource[url], i.chunking) {
			embedding, err := i.embedder.GenerateEmbedding(ctx, text)
			if err != nil {
				return fmt.Errorf("failed to embed chunk from %s: %w", url, err)
			}
			i.store.Add(domain.Chunk{Content: text, SourceURL: url}, embedding)
		}
	}
	return nil
}
