// Package research discovers new seed URLs for the crawler: sampled seed
// words are sent to a web search provider and the returned links are
// filtered, deduplicated against the registries and persisted.
package research

import (
	"context"
	"fmt"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// maxResultsPerRequest is the Custom Search API page size limit.
const maxResultsPerRequest = 10

// Searcher returns result URLs for a query.
type Searcher interface {
	Search(ctx context.Context, query string, numResults int) ([]string, error)
}

// SearchError represents a failed search provider call.
type SearchError struct {
	Query   string
	Message string
	Cause   error
}

func (e *SearchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("search error for %q: %s: %v", e.Query, e.Message, e.Cause)
	}
	return fmt.Sprintf("search error for %q: %s", e.Query, e.Message)
}

func (e *SearchError) Unwrap() error {
	return e.Cause
}

// GoogleSearcher queries a Google Programmable Search Engine.
type GoogleSearcher struct {
	svc *customsearch.Service
	cx  string
}

var _ Searcher = (*GoogleSearcher)(nil)

// NewGoogleSearcher creates a searcher for engine cx. Extra client options
// are passed to the API client, e.g. a custom endpoint.
func NewGoogleSearcher(ctx context.Context, apiKey string, cx string, opts ...option.ClientOption) (*GoogleSearcher, error) {
	if apiKey == "" || cx == "" {
		return nil, fmt.Errorf("search API key and engine id are required")
	}
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}
	return &GoogleSearcher{svc: svc, cx: cx}, nil
}

// Search returns up to numResults links, paging through the API as needed.
func (g *GoogleSearcher) Search(ctx context.Context, query string, numResults int) ([]string, error) {
	links := make([]string, 0, numResults)
	for start := 1; len(links) < numResults; {
		n := min(maxResultsPerRequest, numResults-len(links))
		resp, err := g.svc.Cse.List().
			Cx(g.cx).
			Q(query).
			Num(int64(n)).
			Start(int64(start)).
			Context(ctx).
			Do()
		if err != nil {
			return nil, &SearchError{Query: query, Message: "search request failed", Cause: err}
		}

		for _, item := range resp.Items {
			if item.Link != "" {
				links = append(links, item.Link)
			}
		}
		if len(resp.Items) < n {
			break
		}
		start += len(resp.Items)
	}
	return links, nil
}
