// Package middleware provides HTTP middleware for cross-cutting concerns.
//
// # Middleware Chain
//
//	handler = Recovery(Logging(RequestID(handler)))
//
// Order (innermost to outermost):
//  1. RequestID: reuse or generate the X-Request-ID, add it to the context
//  2. Logging: log and count every request with its status and latency
//  3. Recovery: turn panics into HTTP 500 {"error": "..."}
//
// Chain composes them in that order:
//
//	handler := middleware.Chain(enrichHandler, logger, collector)
package middleware
