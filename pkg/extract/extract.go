// Package extract turns a conversation into a bounded list of web search
// queries.
//
// Two kinds of query are produced from user messages only:
//
//   - domains: tokens that look like domain names ("example.com",
//     "mail.example.co.uk"), deduplicated in first-seen order and capped
//   - names: the sender of a pasted e-mail header, taken from messages that
//     begin with "From:" ("From: \"Jane Doe\" <jane@example.com>" yields
//     "Jane Doe", "From: <noreply@example.com>" yields the address)
//
// Extraction is pure: no I/O and no shared state.
package extract

import (
	"regexp"
	"strings"

	"mercator-hq/lookout/pkg/proxy/types"
)

// DefaultMaxDomains is the number of domains kept when no limit is configured.
const DefaultMaxDomains = 3

var (
	// domainPattern matches dot-separated labels ending in an alphabetic TLD.
	domainPattern = regexp.MustCompile(`\b(?:[a-zA-Z0-9-]+\.)+[a-zA-Z]{2,}\b`)

	// fromPattern matches a leading From header. Group 1 is the display name
	// before "<", group 2 a bare (optionally bracketed) address.
	fromPattern = regexp.MustCompile(`(?i)^from:[ \t]*(?:([^<\r\n]*[^<\s])[ \t]*<|<?([^<>\s]+@[^<>\s]+)>?)`)
)

// Extractor extracts search queries from chat messages.
type Extractor struct {
	// MaxDomains caps the number of domains returned. Zero or negative
	// means DefaultMaxDomains.
	MaxDomains int
}

// New creates an Extractor keeping at most maxDomains domains.
func New(maxDomains int) *Extractor {
	return &Extractor{MaxDomains: maxDomains}
}

// Extract returns the domains and sender names found in user messages.
// Both results are deduplicated and in first-seen order; domains are capped
// at MaxDomains. Non-user messages are ignored entirely.
func (e *Extractor) Extract(messages []types.Message) (domains, names []string) {
	domainSet := newOrderedSet()
	nameSet := newOrderedSet()

	for _, msg := range messages {
		if msg.Role != types.RoleUser {
			continue
		}
		content := msg.Text()

		for _, d := range domainPattern.FindAllString(content, -1) {
			domainSet.add(d)
		}

		if !strings.HasPrefix(strings.ToLower(content), "from:") {
			continue
		}
		if name := senderName(content); name != "" {
			nameSet.add(name)
		}
	}

	domains = domainSet.items
	if limit := e.maxDomains(); len(domains) > limit {
		domains = domains[:limit]
	}
	return domains, nameSet.items
}

// Queries returns the search queries for messages: domains first, then names.
func (e *Extractor) Queries(messages []types.Message) []string {
	domains, names := e.Extract(messages)
	queries := make([]string, 0, len(domains)+len(names))
	queries = append(queries, domains...)
	return append(queries, names...)
}

func (e *Extractor) maxDomains() int {
	if e == nil || e.MaxDomains <= 0 {
		return DefaultMaxDomains
	}
	return e.MaxDomains
}

// Extract runs the default Extractor over messages.
func Extract(messages []types.Message) (domains, names []string) {
	return (&Extractor{}).Extract(messages)
}

// senderName returns the display name or address of a leading From header,
// or "" when the header has neither.
func senderName(content string) string {
	match := fromPattern.FindStringSubmatch(content)
	if match == nil {
		return ""
	}
	name := match[1]
	if name == "" {
		name = match[2]
	}
	return trimQuotes(strings.TrimSpace(name))
}

// trimQuotes strips at most one single or double quote from each end. The
// two ends need not match.
func trimQuotes(s string) string {
	trimmed := false
	if len(s) > 0 && isQuote(s[0]) {
		s = s[1:]
		trimmed = true
	}
	if len(s) > 0 && isQuote(s[len(s)-1]) {
		s = s[:len(s)-1]
		trimmed = true
	}
	if trimmed {
		return strings.TrimSpace(s)
	}
	return s
}

func isQuote(c byte) bool {
	return c == '"' || c == '\''
}

// orderedSet is a string set that remembers insertion order.
type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

func (s *orderedSet) add(v string) {
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}
