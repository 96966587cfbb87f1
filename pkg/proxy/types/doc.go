// Package types defines the request and error types exchanged by the proxy.
//
// # Core Types
//
//   - ChatRequest: OpenAI-compatible chat completion request body
//   - Message: a single message in the conversation history
//   - ErrorResponse: the {"error": "..."} body returned on failure
//
// # Passthrough
//
// The proxy only interprets "messages" and, within each message, "role" and
// "content". Every other field is kept as raw JSON and written back verbatim
// when the request is forwarded, so backend-specific options (Ollama's
// "options", "keep_alive", "format", ...) survive the round trip:
//
//	var req types.ChatRequest
//	if err := json.Unmarshal(body, &req); err != nil {
//	    return err
//	}
//	req.InsertSystem(1, "Web context:\n...")
//	out, err := json.Marshal(req)
package types
