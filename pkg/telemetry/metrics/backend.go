package metrics

import (
	"mercator-hq/lookout/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// BackendMetrics tracks requests forwarded to the chat-completion backend.
//
// Metrics:
//   - lookout_backend_attempts_total: Forwarding attempts by outcome
//   - lookout_backend_duration_seconds: Duration of each forwarding attempt
//   - lookout_backend_transport_retries_total: Transport retries by status
type BackendMetrics struct {
	attempts         *prometheus.CounterVec
	duration         prometheus.Histogram
	transportRetries *prometheus.CounterVec
}

// NewBackendMetrics creates and registers backend metrics with the provided registry.
func NewBackendMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *BackendMetrics {
	bm := &BackendMetrics{
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "backend_attempts_total",
				Help:      "Total number of backend forwarding attempts by outcome",
			},
			[]string{"outcome"},
		),

		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "backend_duration_seconds",
				Help:      "Duration of backend forwarding attempts in seconds",
				Buckets:   cfg.RequestDurationBuckets,
			},
		),

		transportRetries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "backend_transport_retries_total",
				Help:      "Total number of transport-level retries by backend status",
			},
			[]string{"status"},
		),
	}

	registry.MustRegister(bm.attempts, bm.duration, bm.transportRetries)

	return bm
}
