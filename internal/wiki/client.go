// Package wiki is a minimal MediaWiki Action API client covering the two
// operations the article fetcher needs: full-text search and plain-text
// page extraction.
package wiki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const userAgent = "askwiki/1.0 (https://github.com/askwiki/askwiki)"

var (
	// ErrPageNotFound is returned when a title resolves to no page
	ErrPageNotFound = errors.New("wikipedia page not found")
)

// DisambiguationError reports that a title resolved to a disambiguation
// page. Options holds the linked alternatives, most relevant first.
type DisambiguationError struct {
	Title   string
	Options []string
}

func (e *DisambiguationError) Error() string {
	return fmt.Sprintf("%q is a disambiguation page (%d options)", e.Title, len(e.Options))
}

// Page is the fetched plain-text content of one article.
type Page struct {
	Title   string
	URL     string
	Extract string
}

// Client talks to a MediaWiki Action API endpoint.
type Client struct {
	apiURL     string
	httpClient *http.Client
}

// NewClient creates a client for the given Wikipedia language edition.
func NewClient(lang string) *Client {
	if lang == "" {
		lang = "en"
	}
	return NewClientWithAPIURL(fmt.Sprintf("https://%s.wikipedia.org/w/api.php", lang))
}

// NewClientWithAPIURL creates a client against an explicit API endpoint.
// Used by tests to point at a local server.
func NewClientWithAPIURL(apiURL string) *Client {
	return &Client{
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Search returns up to limit article titles matching the query.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 1
	}
	params := url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"srsearch": {query},
		"srlimit":  {fmt.Sprintf("%d", limit)},
		"format":   {"json"},
	}

	var result struct {
		Query struct {
			Search []struct {
				Title string `json:"title"`
			} `json:"search"`
		} `json:"query"`
	}
	if err := c.get(ctx, params, &result); err != nil {
		return nil, fmt.Errorf("wikipedia search failed: %w", err)
	}

	titles := make([]string, 0, len(result.Query.Search))
	for _, s := range result.Query.Search {
		titles = append(titles, s.Title)
	}
	return titles, nil
}

// Fetch returns the plain-text extract and canonical URL for a title.
// Disambiguation pages surface as *DisambiguationError with the page's
// outgoing links as candidate alternatives.
func (c *Client) Fetch(ctx context.Context, title string) (*Page, error) {
	params := url.Values{
		"action":      {"query"},
		"prop":        {"extracts|info|pageprops"},
		"explaintext": {"1"},
		"redirects":   {"1"},
		"inprop":      {"url"},
		"ppprop":      {"disambiguation"},
		"titles":      {title},
		"format":      {"json"},
	}

	var result struct {
		Query struct {
			Pages map[string]struct {
				PageID    int    `json:"pageid"`
				Title     string `json:"title"`
				Extract   string `json:"extract"`
				FullURL   string `json:"fullurl"`
				Missing   *bool  `json:"missing,omitempty"`
				PageProps *struct {
					Disambiguation string `json:"disambiguation"`
				} `json:"pageprops,omitempty"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := c.get(ctx, params, &result); err != nil {
		return nil, fmt.Errorf("wikipedia fetch failed: %w", err)
	}

	for id, page := range result.Query.Pages {
		if id == "-1" || page.Missing != nil {
			return nil, ErrPageNotFound
		}
		if page.PageProps != nil {
			options, err := c.links(ctx, page.Title)
			if err != nil {
				return nil, err
			}
			return nil, &DisambiguationError{Title: page.Title, Options: options}
		}
		if page.Extract == "" {
			return nil, ErrPageNotFound
		}
		return &Page{
			Title:   page.Title,
			URL:     page.FullURL,
			Extract: page.Extract,
		}, nil
	}

	return nil, ErrPageNotFound
}

// links lists outgoing article links, used as disambiguation candidates.
func (c *Client) links(ctx context.Context, title string) ([]string, error) {
	params := url.Values{
		"action":      {"query"},
		"prop":        {"links"},
		"plnamespace": {"0"},
		"pllimit":     {"20"},
		"titles":      {title},
		"format":      {"json"},
	}

	var result struct {
		Query struct {
			Pages map[string]struct {
				Links []struct {
					Title string `json:"title"`
				} `json:"links"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := c.get(ctx, params, &result); err != nil {
		return nil, fmt.Errorf("wikipedia links lookup failed: %w", err)
	}

	var options []string
	for _, page := range result.Query.Pages {
		for _, link := range page.Links {
			options = append(options, link.Title)
		}
	}
	return options, nil
}

func (c *Client) get(ctx context.Context, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("wikipedia API returned HTTP %d", resp.StatusCode)
	}
	ct := resp.Header.Get("Content-Type")
	if !strings.Contains(ct, "json") {
		return fmt.Errorf("wikipedia API returned unexpected content-type %q", ct)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
