// Package metrics provides Prometheus metrics collection for lookout.
//
// # Metrics Categories
//
//   - Request Metrics: proxied requests by status, end-to-end duration and
//     injected search results
//   - Search Metrics: queries and provider calls by outcome, query duration
//   - Backend Metrics: forwarding attempts by outcome, attempt duration and
//     transport-level retries
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordRequest(http.StatusOK, time.Since(start))
//	mux.Handle("/metrics", collector.Handler())
//
// Every metric lives on the collector's own registry, so tests can create
// as many collectors as they like.
package metrics
