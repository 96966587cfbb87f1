// Package handlers provides the proxy's HTTP handler.
//
// EnrichHandler accepts a POST on any path and moves each request through
// explicit stages:
//
//	Received -> Parsed -> Enriched -> Forwarded -> Relayed
//
// A failure at any stage ends in Failed: HTTP 500 with {"error": "..."}.
// Search failures never fail a request; they appear as sentinel results in
// the inserted context.
package handlers
