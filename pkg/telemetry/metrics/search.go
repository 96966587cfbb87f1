package metrics

import (
	"mercator-hq/lookout/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// SearchMetrics tracks web search queries.
//
// Metrics:
//   - lookout_search_queries_total: Finished queries by provider and outcome
//   - lookout_search_attempts_total: Provider calls by provider and outcome
//   - lookout_search_duration_seconds: Query duration including retries
type SearchMetrics struct {
	queries  *prometheus.CounterVec
	attempts *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewSearchMetrics creates and registers search metrics with the provided registry.
func NewSearchMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *SearchMetrics {
	sm := &SearchMetrics{
		queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "search_queries_total",
				Help:      "Total number of search queries by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),

		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "search_attempts_total",
				Help:      "Total number of search provider calls by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "search_duration_seconds",
				Help:      "Duration of search queries including retries in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"provider"},
		),
	}

	registry.MustRegister(sm.queries, sm.attempts, sm.duration)

	return sm
}
