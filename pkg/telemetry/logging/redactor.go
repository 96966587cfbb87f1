package logging

import (
	"log/slog"
	"regexp"
	"strings"
)

// Redactor masks personal data in log attributes. Sender addresses pulled
// out of forwarded mail end up in search query logs, so email addresses are
// masked down to their first character and domain.
type Redactor struct {
	patterns []redactPattern
}

// redactPattern contains a compiled regex and its replacement.
type redactPattern struct {
	regex   *regexp.Regexp
	replace func(string) string
}

var (
	emailPattern  = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	bearerPattern = regexp.MustCompile(`Bearer\s+[a-zA-Z0-9\-._~+/]+=*`)
)

// NewRedactor creates a Redactor with the built-in patterns.
func NewRedactor() *Redactor {
	return &Redactor{
		patterns: []redactPattern{
			{regex: emailPattern, replace: RedactEmail},
			{regex: bearerPattern, replace: func(string) string { return "Bearer ***" }},
		},
	}
}

// RedactString redacts personal data from a string value.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}
	for _, p := range r.patterns {
		value = p.regex.ReplaceAllStringFunc(value, p.replace)
	}
	return value
}

// ReplaceAttr is a slog.HandlerOptions.ReplaceAttr hook. String values are
// redacted, and values under sensitive keys are masked entirely.
func (r *Redactor) ReplaceAttr(groups []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindString {
		return a
	}
	if isSensitiveKey(a.Key) {
		return slog.String(a.Key, "***")
	}
	return slog.String(a.Key, r.RedactString(a.Value.String()))
}

// isSensitiveKey checks if a key name indicates a credential.
func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	for _, sensitive := range []string{"authorization", "api_key", "apikey", "password", "secret", "token"} {
		if strings.Contains(lowerKey, sensitive) {
			return true
		}
	}
	return false
}

// RedactEmail redacts an email address partially (shows first char and domain).
func RedactEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}

	username := parts[0]
	domain := parts[1]

	if len(username) == 0 {
		return "***@" + domain
	}

	return string(username[0]) + "***@" + domain
}
