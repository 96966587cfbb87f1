// Lookout is a web-context enrichment proxy for Ollama.
//
// It accepts OpenAI-style chat completion requests, searches the web for
// the domains and sender names found in the user's messages, inserts the
// results as a system message and forwards the request to Ollama.
//
// Usage:
//
//	# Start the proxy on the default port
//	lookout run
//
//	# Start with a configuration file and a different port
//	lookout run --config /etc/lookout/config.yaml --port 9000
//
//	# Show which queries a request would trigger
//	echo '{"messages":[{"role":"user","content":"see example.com"}]}' | lookout extract
//
//	# Run a search with the configured provider
//	lookout search example.com
package main

import "os"

func main() {
	os.Exit(Execute())
}
