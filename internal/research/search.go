package research

import (
	"context"
	"fmt"
	"strings"
	"time"

	"contentflow/internal/model"
	"contentflow/pkg/utils"
)

const maxSearchResults = 10

// Searcher answers web-search queries from a research provider's citations.
type Searcher struct {
	Provider Provider
	Now      func() time.Time
}

// NewSearcher returns a Searcher backed by provider.
func NewSearcher(provider Provider) *Searcher {
	return &Searcher{Provider: provider, Now: time.Now}
}

// SearchVariants are the query rewrites issued for one search.
func SearchVariants(query string, year int) []string {
	return []string{
		fmt.Sprintf("%s industry analysis", query),
		fmt.Sprintf("%s market research report", query),
		fmt.Sprintf("%s trends %d", query, year),
		fmt.Sprintf("%s business insights", query),
	}
}

// Search issues every variant, drops duplicate URLs and returns at most ten results. A failing
// variant is skipped; the error is returned only when every variant fails.
func (s *Searcher) Search(ctx context.Context, query string) ([]model.SearchResult, error) {
	query = strings.TrimSpace(query)
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	seen := map[string]bool{}
	results := []model.SearchResult{}
	var lastErr error
	failures := 0

	variants := SearchVariants(query, now().Year()+1)
	for _, v := range variants {
		res, err := s.Provider.Research(ctx, v)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			failures++
			continue
		}
		for _, src := range res.Sources {
			if src.URL == "" || seen[src.URL] {
				continue
			}
			seen[src.URL] = true
			results = append(results, model.SearchResult{
				URL:     src.URL,
				Title:   src.Title,
				Snippet: utils.Truncate(src.Excerpt, 300),
			})
		}
	}

	if failures == len(variants) {
		return nil, fmt.Errorf("web search %q: %w", query, lastErr)
	}
	if len(results) > maxSearchResults {
		results = results[:maxSearchResults]
	}
	return results, nil
}
