// Package proxy holds the request and response plumbing of the enrichment
// proxy: parsing inbound chat requests, mapping errors to the JSON error body
// and relaying buffered backend responses.
//
// # Request Flow
//
//  1. Client POSTs an OpenAI-compatible chat request to any path
//  2. Middleware chain runs (recovery, logging, request ID)
//  3. ParseChatRequest decodes the body, keeping unknown fields verbatim
//  4. The enricher inserts a "Web context:" system message at index 1
//  5. The request is forwarded to {backend}/v1/chat/completions
//  6. RelayResponse mirrors the backend status, headers and body
//
// # Error Handling
//
// Every failure, whether a malformed request, an unreachable backend or a
// recovered panic, is answered with HTTP 500 and a flat JSON body:
//
//	{"error": "missing messages in request"}
//
// Backend error statuses are not failures; they are relayed unchanged.
package proxy
