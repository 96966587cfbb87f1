// Package logging builds the process logger on log/slog.
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:     "info",
//	    Format:    "json",
//	    RedactPII: true,
//	})
//	slog.SetDefault(logger)
//
//	ctx = logging.WithRequestID(ctx, "req-123")
//	logger.InfoContext(ctx, "forwarding request") // includes request_id
//
// # PII Redaction
//
// With RedactPII enabled every string attribute passes through a
// ReplaceAttr hook:
//
//   - Emails: jane@example.com → j***@example.com
//   - Bearer tokens: Bearer abc → Bearer ***
//   - Values under credential keys (authorization, token, ...) → ***
package logging
