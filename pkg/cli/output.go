package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"mercator-hq/lookout/pkg/search"
)

// OutputFormat represents the output format for command results.
type OutputFormat string

const (
	// FormatText is plain text output (default).
	FormatText OutputFormat = "text"
	// FormatJSON is JSON output.
	FormatJSON OutputFormat = "json"
)

// ExtractReport is what the extract command prints.
type ExtractReport struct {
	Domains []string `json:"domains"`
	Names   []string `json:"names"`
	Queries []string `json:"queries"`
}

// SearchReport is what the search command prints for one query.
type SearchReport struct {
	Query   string          `json:"query"`
	Results []search.Result `json:"results"`
}

// Formatter formats command output.
type Formatter interface {
	FormatTo(w io.Writer, data any) error
}

// TextFormatter prints reports in a human readable layout. Values of other
// types are printed with %v.
type TextFormatter struct{}

// FormatTo writes data to w in text format.
func (f *TextFormatter) FormatTo(w io.Writer, data any) error {
	var b strings.Builder
	switch v := data.(type) {
	case ExtractReport:
		writeList(&b, "Domains", v.Domains)
		writeList(&b, "Names", v.Names)
		writeList(&b, "Queries", v.Queries)
	case []SearchReport:
		for i, r := range v {
			if i > 0 {
				b.WriteString("\n")
			}
			writeSearch(&b, r)
		}
	case SearchReport:
		writeSearch(&b, v)
	default:
		fmt.Fprintf(&b, "%v\n", data)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeList(b *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		fmt.Fprintf(b, "%s: none\n", label)
		return
	}
	fmt.Fprintf(b, "%s:\n", label)
	for _, item := range items {
		fmt.Fprintf(b, "  %s\n", item)
	}
}

func writeSearch(b *strings.Builder, r SearchReport) {
	fmt.Fprintf(b, "# %s\n", r.Query)
	for _, res := range r.Results {
		fmt.Fprintf(b, "\n%s\n", res.String())
	}
}

// JSONFormatter formats output as JSON.
type JSONFormatter struct {
	Indent bool
}

// FormatTo writes data to w in JSON format.
func (f *JSONFormatter) FormatTo(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	if f.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

// NewFormatter creates a formatter for format. An empty format means text.
func NewFormatter(format OutputFormat) (Formatter, error) {
	switch format {
	case FormatText, "":
		return &TextFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{Indent: true}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want text or json)", format)
	}
}
