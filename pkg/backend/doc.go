// Package backend forwards enriched chat requests to the local
// chat-completion server (Ollama's OpenAI-compatible API).
//
// Forwarding has two retry layers:
//
//   - Client.Forward retries the whole exchange when the backend cannot be
//     reached or times out, with a linear backoff
//   - RetryTransport retries HTTP 500, 502, 503 and 504 responses with an
//     exponential backoff and hands back the last response once its budget
//     is spent
//
// Any other status is relayed to the caller unchanged.
package backend
