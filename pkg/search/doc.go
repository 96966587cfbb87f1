// Package search turns a query string into a short list of web results.
//
// A Provider talks to one search service (Mullvad Leta or a SearXNG
// instance). Client wraps a provider with a per-attempt timeout, bounded
// retries and sentinel fallbacks, so Client.Search never fails and never
// returns an empty slice:
//
//   - a provider that keeps failing yields one Result titled "Error" whose
//     snippet carries the attempt count and the last error;
//   - a successful search with no hits yields one Result titled "No results".
//
// Providers can be decorated with a circuit breaker (NewBreaker) and an
// outbound pacer (NewPaced); NewProvider assembles the chain from
// configuration.
package search
