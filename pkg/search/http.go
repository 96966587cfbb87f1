package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxBodySize caps a provider response body.
const maxBodySize = 2 << 20 // 2MB

// userAgent identifies lookout to search services.
const userAgent = "lookout/1.0 (+web context proxy)"

// fetch issues a GET for rawURL and returns the response body. Transport
// failures and non-200 responses become *ProviderError.
func fetch(ctx context.Context, client *http.Client, provider, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, &ProviderError{Provider: provider, Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &ProviderError{Provider: provider, Message: "read response", Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{
			Provider:   provider,
			StatusCode: resp.StatusCode,
			Message:    truncate(strings.TrimSpace(string(body)), 200),
		}
	}

	return body, nil
}

// truncate shortens s to at most n bytes.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
