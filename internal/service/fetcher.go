package service

import (
	"context"
	"errors"
	"log"

	"github.com/askwiki/askwiki/internal/domain"
	"github.com/askwiki/askwiki/internal/wiki"
)

// WikiClient defines the Wikipedia operations the fetcher needs.
type WikiClient interface {
	Search(ctx context.Context, query string, limit int) ([]string, error)
	Fetch(ctx context.Context, title string) (*wiki.Page, error)
}

// ArticleArchive stores fetched article snapshots for later inspection.
type ArticleArchive interface {
	SaveArticle(ctx context.Context, url, title, content string) error
}

// ArticleFetcher searches Wikipedia for a query and pulls down the matching
// article bodies. Fetch failures are absorbed so one bad article never sinks
// a chat turn.
type ArticleFetcher struct {
	client  WikiClient
	archive ArticleArchive
	limit   int
}

// NewArticleFetcher creates a fetcher. archive may be nil, in which case
// snapshots are not kept.
func NewArticleFetcher(client WikiClient, archive ArticleArchive, searchLimit int) *ArticleFetcher {
	if searchLimit <= 0 {
		searchLimit = 3
	}
	return &ArticleFetcher{
		client:  client,
		archive: archive,
		limit:   searchLimit,
	}
}

// FetchArticles resolves a query into article content keyed by canonical URL,
// plus the source references for the articles that were actually fetched.
// Titles that cannot be fetched are skipped. A failed search yields no
// articles rather than an error.
func (f *ArticleFetcher) FetchArticles(ctx context.Context, query string) (map[string]string, []domain.SourceRef) {
	titles, err := f.client.Search(ctx, query, f.limit)
	if err != nil {
		log.Printf("wikipedia search failed for %q: %v", query, err)
		return map[string]string{}, nil
	}

	content := make(map[string]string, len(titles))
	var sources []domain.SourceRef
	for _, title := range titles {
		page, err := f.fetchOne(ctx, title)
		if err != nil {
			log.Printf("skipping article %q: %v", title, err)
			continue
		}
		if _, seen := content[page.URL]; seen {
			continue
		}
		content[page.URL] = page.Extract
		sources = append(sources, domain.SourceRef{Title: page.Title, URL: page.URL})

		if f.archive != nil {
			if err := f.archive.SaveArticle(ctx, page.URL, page.Title, page.Extract); err != nil {
				log.Printf("failed to archive article %q: %v", page.Title, err)
			}
		}
	}
	return content, sources
}

// fetchOne fetches a title, retrying once with the first alternative when
// the title lands on a disambiguation page.
func (f *ArticleFetcher) fetchOne(ctx context.Context, title string) (*wiki.Page, error) {
	page, err := f.client.Fetch(ctx, title)
	if err == nil {
		return page, nil
	}

	var disambig *wiki.DisambiguationError
	if errors.As(err, &disambig) && len(disambig.Options) > 0 {
		return f.client.Fetch(ctx, disambig.Options[0])
	}
	return nil, err
}
