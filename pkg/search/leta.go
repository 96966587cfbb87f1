package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// DefaultLetaURL is the public Mullvad Leta instance.
const DefaultLetaURL = "https://leta.mullvad.net"

// Placeholders for result fields missing from a Leta response.
const (
	titleNotFound   = "Title not found"
	linkNotFound    = "Link not found"
	snippetNotFound = "Snippet not found"
)

// LetaProvider searches through Mullvad Leta's SvelteKit data endpoint.
type LetaProvider struct {
	client  *http.Client
	baseURL string
	engine  string
	logger  *slog.Logger
}

// NewLetaProvider creates a Leta provider. An empty baseURL uses
// DefaultLetaURL and an empty engine uses "brave".
func NewLetaProvider(client *http.Client, baseURL, engine string, logger *slog.Logger) *LetaProvider {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultLetaURL
	}
	if engine == "" {
		engine = "brave"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LetaProvider{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		engine:  engine,
		logger:  logger,
	}
}

// Name implements Provider.
func (p *LetaProvider) Name() string { return "leta" }

// Search implements Provider.
func (p *LetaProvider) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("engine", p.engine)

	body, err := fetch(ctx, p.client, p.Name(), p.baseURL+"/search/__data.json?"+q.Encode())
	if err != nil {
		return nil, err
	}

	results, err := parseLeta(body, limit)
	if err != nil {
		return nil, &ParseError{Provider: p.Name(), Cause: err}
	}

	p.logger.DebugContext(ctx, "leta search completed", "query", query, "results", len(results))
	return results, nil
}

// letaNode is one entry of the SvelteKit "nodes" array.
type letaNode struct {
	Type string            `json:"type"`
	Data []json.RawMessage `json:"data"`
}

// parseLeta decodes a SvelteKit devalue payload. The search node's data is
// a flat array: one entry is the list of result positions, each result is
// an object whose field values are positions of the actual strings.
func parseLeta(body []byte, limit int) ([]Result, error) {
	var page struct {
		Nodes []json.RawMessage `json:"nodes"`
	}
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, err
	}

	data, err := findSearchData(page.Nodes)
	if err != nil {
		return nil, err
	}

	indices, ok := findResultIndices(data)
	if !ok {
		return nil, errors.New("could not locate result indices in the search data")
	}

	results := make([]Result, 0, min(limit, len(indices)))
	for _, idx := range indices {
		if len(results) >= limit {
			break
		}
		if idx < 0 || idx >= len(data) {
			continue
		}
		fields, ok := decodeObject(data[idx])
		if !ok {
			continue
		}
		results = append(results, Result{
			Title:   resolveField(data, fields, "title", titleNotFound),
			Link:    resolveField(data, fields, "link", linkNotFound),
			Snippet: resolveField(data, fields, "snippet", snippetNotFound),
		})
	}

	return results, nil
}

// findSearchData returns the data array of the first "data" node that
// contains an object with a "success" key.
func findSearchData(nodes []json.RawMessage) ([]json.RawMessage, error) {
	for _, raw := range nodes {
		var node letaNode
		if err := json.Unmarshal(raw, &node); err != nil || node.Type != "data" {
			continue
		}
		for _, item := range node.Data {
			if fields, ok := decodeObject(item); ok {
				if _, ok := fields["success"]; ok {
					return node.Data, nil
				}
			}
		}
	}
	return nil, errors.New("could not locate search results in the JSON data")
}

// findResultIndices returns the first non-empty array made only of integers.
func findResultIndices(data []json.RawMessage) ([]int, bool) {
	for _, item := range data {
		item = bytes.TrimSpace(item)
		if len(item) == 0 || item[0] != '[' {
			continue
		}
		var numbers []json.Number
		dec := json.NewDecoder(bytes.NewReader(item))
		dec.UseNumber()
		if err := dec.Decode(&numbers); err != nil || len(numbers) == 0 {
			continue
		}
		indices := make([]int, 0, len(numbers))
		for _, n := range numbers {
			i, ok := asIndex(n)
			if !ok {
				indices = nil
				break
			}
			indices = append(indices, i)
		}
		if indices != nil {
			return indices, true
		}
	}
	return nil, false
}

// resolveField follows the index stored under key to a string in data.
func resolveField(data []json.RawMessage, fields map[string]json.RawMessage, key, fallback string) string {
	raw, ok := fields[key]
	if !ok {
		return fallback
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return fallback
	}
	idx, ok := asIndex(n)
	if !ok || idx < 0 || idx >= len(data) {
		return fallback
	}
	var s string
	if err := json.Unmarshal(data[idx], &s); err != nil {
		return fallback
	}
	return s
}

// decodeObject decodes raw as a JSON object.
func decodeObject(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, false
	}
	return fields, true
}

// asIndex converts an integral JSON number to an int.
func asIndex(n json.Number) (int, bool) {
	if strings.ContainsAny(n.String(), ".eE") {
		return 0, false
	}
	i, err := n.Int64()
	if err != nil {
		return 0, false
	}
	return int(i), true
}

