package search

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// searxngResponse models the relevant portion of the SearXNG JSON response.
type searxngResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// SearXNGProvider searches the web via a SearXNG instance.
type SearXNGProvider struct {
	client      *http.Client
	instanceURL string
	logger      *slog.Logger
}

// NewSearXNGProvider creates a provider backed by a SearXNG instance. The
// instance must have the json output format enabled.
func NewSearXNGProvider(client *http.Client, instanceURL string, logger *slog.Logger) *SearXNGProvider {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SearXNGProvider{
		client:      client,
		instanceURL: strings.TrimRight(instanceURL, "/"),
		logger:      logger,
	}
}

// Name implements Provider.
func (p *SearXNGProvider) Name() string { return "searxng" }

// Search implements Provider.
func (p *SearXNGProvider) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("pageno", "1")

	body, err := fetch(ctx, p.client, p.Name(), p.instanceURL+"/search?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var searxResp searxngResponse
	if err := json.Unmarshal(body, &searxResp); err != nil {
		return nil, &ParseError{Provider: p.Name(), Cause: err}
	}

	results := make([]Result, 0, min(limit, len(searxResp.Results)))
	for _, r := range searxResp.Results {
		if len(results) >= limit {
			break
		}
		results = append(results, Result{
			Title:   r.Title,
			Link:    r.URL,
			Snippet: r.Content,
		})
	}

	p.logger.DebugContext(ctx, "searxng search completed", "query", query, "results", len(results))
	return results, nil
}
