package metrics

import (
	"net/http"
	"strconv"
	"time"

	"mercator-hq/lookout/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns every Prometheus metric lookout exports and registers them
// on a private registry. All Record methods are safe for concurrent use and
// are no-ops on a nil Collector or when metrics are disabled, so components
// can take an optional *Collector without nil checks.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	// Inbound proxy request metrics
	requestMetrics *RequestMetrics

	// Web search metrics
	searchMetrics *SearchMetrics

	// Chat-completion backend metrics
	backendMetrics *BackendMetrics
}

// NewCollector creates a new metrics collector with the specified
// configuration. If registry is nil a fresh registry is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{
//		Enabled:   true,
//		Namespace: "lookout",
//	}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	// Set defaults if not specified
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if len(cfg.RequestDurationBuckets) == 0 {
		cfg.RequestDurationBuckets = config.DefaultRequestDurationBuckets
	}

	c := &Collector{
		config:   cfg,
		registry: registry,
	}

	c.requestMetrics = NewRequestMetrics(cfg, registry)
	c.searchMetrics = NewSearchMetrics(cfg, registry)
	c.backendMetrics = NewBackendMetrics(cfg, registry)

	return c
}

func (c *Collector) enabled() bool {
	return c != nil && c.config.Enabled
}

// Registry returns the registry the metrics are registered on.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordRequest records a completed inbound request by response status.
func (c *Collector) RecordRequest(status int, duration time.Duration) {
	if !c.enabled() {
		return
	}
	c.requestMetrics.Record(strconv.Itoa(status), duration)
}

// RecordEnrichment records how many search results were injected into one
// request. Requests without search queries are not recorded.
func (c *Collector) RecordEnrichment(results int) {
	if !c.enabled() {
		return
	}
	c.requestMetrics.enrichmentResults.Observe(float64(results))
}

// RecordSearchAttempt records one provider call.
// outcome is "success", "error" or "circuit_open".
func (c *Collector) RecordSearchAttempt(provider, outcome string) {
	if !c.enabled() {
		return
	}
	c.searchMetrics.attempts.WithLabelValues(provider, outcome).Inc()
}

// RecordSearchQuery records a finished query including its retries.
// outcome is "success", "empty" or "error".
func (c *Collector) RecordSearchQuery(provider, outcome string, duration time.Duration) {
	if !c.enabled() {
		return
	}
	c.searchMetrics.queries.WithLabelValues(provider, outcome).Inc()
	c.searchMetrics.duration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordBackendAttempt records one forwarding attempt.
// outcome is "success", "unavailable" or "error".
func (c *Collector) RecordBackendAttempt(outcome string, duration time.Duration) {
	if !c.enabled() {
		return
	}
	c.backendMetrics.attempts.WithLabelValues(outcome).Inc()
	c.backendMetrics.duration.Observe(duration.Seconds())
}

// RecordBackendRetry records a transport-level retry on the given status.
func (c *Collector) RecordBackendRetry(status int) {
	if !c.enabled() {
		return
	}
	c.backendMetrics.transportRetries.WithLabelValues(strconv.Itoa(status)).Inc()
}

// Handler serves the registry at /metrics on the admin listener. A failing
// collector does not hide the others.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}
