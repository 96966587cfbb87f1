package search

import (
	"context"
	"fmt"
)

// Sentinel titles.
const (
	TitleError     = "Error"
	TitleNoResults = "No results"
)

// Result is a single search hit.
type Result struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// String formats the result as title, link and snippet on separate lines.
func (r Result) String() string {
	return r.Title + "\n" + r.Link + "\n" + r.Snippet
}

// Provider abstracts a web search service.
type Provider interface {
	// Search returns at most limit results for query.
	Search(ctx context.Context, query string, limit int) ([]Result, error)

	// Name returns the provider identifier (e.g. "leta").
	Name() string
}

// ErrorResult returns the sentinel substituted for a failed search.
func ErrorResult(attempts int, err error) Result {
	return Result{
		Title:   TitleError,
		Snippet: fmt.Sprintf("search failed after %d attempt(s): %v", attempts, err),
	}
}

// NoResults returns the sentinel substituted for an empty search.
func NoResults(query string) Result {
	return Result{
		Title:   TitleNoResults,
		Snippet: fmt.Sprintf("no results for %q", query),
	}
}
