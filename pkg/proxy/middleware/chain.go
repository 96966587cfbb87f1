package middleware

import (
	"log/slog"
	"net/http"

	"mercator-hq/lookout/pkg/telemetry/metrics"
)

// Chain wraps h with the request ID, logging and recovery middleware.
// Requests pass through them in that order, so every log line carries the
// request ID and a recovered panic is logged and counted as a 500.
func Chain(h http.Handler, logger *slog.Logger, collector *metrics.Collector) http.Handler {
	h = RecoveryMiddleware(logger)(h)
	h = LoggingMiddleware(logger, collector)(h)
	h = RequestIDMiddleware(h)
	return h
}
