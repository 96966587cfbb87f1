package metrics

import (
	"time"

	"mercator-hq/lookout/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// RequestMetrics tracks inbound proxy requests.
//
// Metrics:
//   - lookout_requests_total: Total requests by response status
//   - lookout_request_duration_seconds: End-to-end request duration
//   - lookout_enrichment_results: Search results injected per request
type RequestMetrics struct {
	requestsTotal     *prometheus.CounterVec
	requestDuration   prometheus.Histogram
	enrichmentResults prometheus.Histogram
}

// NewRequestMetrics creates and registers request metrics with the provided registry.
func NewRequestMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RequestMetrics {
	rm := &RequestMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "requests_total",
				Help:      "Total number of proxied chat requests by response status",
			},
			[]string{"status"},
		),

		requestDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "request_duration_seconds",
				Help:      "End-to-end duration of proxied chat requests in seconds",
				Buckets:   cfg.RequestDurationBuckets,
			},
		),

		enrichmentResults: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "enrichment_results",
				Help:      "Number of search results injected into a request",
				Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
			},
		),
	}

	registry.MustRegister(
		rm.requestsTotal,
		rm.requestDuration,
		rm.enrichmentResults,
	)

	return rm
}

// Record records one finished request.
func (rm *RequestMetrics) Record(status string, duration time.Duration) {
	rm.requestsTotal.WithLabelValues(status).Inc()
	rm.requestDuration.Observe(duration.Seconds())
}
