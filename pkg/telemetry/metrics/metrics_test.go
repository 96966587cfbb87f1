package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mercator-hq/lookout/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// Helper function to create test config
func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled:                true,
		Namespace:              "test",
		RequestDurationBuckets: []float64{0.1, 0.5, 1.0, 5.0},
	}
}

func TestCollector_NewCollector(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := NewCollector(testConfig(), registry)

	if collector.Registry() != registry {
		t.Error("Collector registry not set correctly")
	}
}

func TestCollector_RecordRequest(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.RecordRequest(200, 1200*time.Millisecond)
	collector.RecordRequest(200, 300*time.Millisecond)
	collector.RecordRequest(500, 10*time.Millisecond)

	if got := testutil.ToFloat64(collector.requestMetrics.requestsTotal.WithLabelValues("200")); got != 2 {
		t.Errorf("requests_total{status=200} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.requestMetrics.requestsTotal.WithLabelValues("500")); got != 1 {
		t.Errorf("requests_total{status=500} = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(collector.requestMetrics.requestDuration); got != 1 {
		t.Errorf("request_duration_seconds series = %d, want 1", got)
	}
}

func TestCollector_RecordSearch(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.RecordSearchAttempt("leta", "error")
	collector.RecordSearchAttempt("leta", "success")
	collector.RecordSearchQuery("leta", "success", 200*time.Millisecond)
	collector.RecordSearchQuery("leta", "empty", 100*time.Millisecond)

	if got := testutil.ToFloat64(collector.searchMetrics.attempts.WithLabelValues("leta", "error")); got != 1 {
		t.Errorf("search_attempts_total{error} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.searchMetrics.queries.WithLabelValues("leta", "empty")); got != 1 {
		t.Errorf("search_queries_total{empty} = %v, want 1", got)
	}
}

func TestCollector_RecordBackend(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.RecordBackendAttempt("unavailable", time.Second)
	collector.RecordBackendAttempt("success", time.Second)
	collector.RecordBackendRetry(503)
	collector.RecordBackendRetry(503)

	if got := testutil.ToFloat64(collector.backendMetrics.attempts.WithLabelValues("unavailable")); got != 1 {
		t.Errorf("backend_attempts_total{unavailable} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.backendMetrics.transportRetries.WithLabelValues("503")); got != 2 {
		t.Errorf("backend_transport_retries_total{503} = %v, want 2", got)
	}
}

func TestCollector_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	collector := NewCollector(cfg, nil)

	collector.RecordRequest(200, time.Second)
	collector.RecordEnrichment(3)

	if got := testutil.ToFloat64(collector.requestMetrics.requestsTotal.WithLabelValues("200")); got != 0 {
		t.Errorf("disabled collector recorded %v requests", got)
	}
}

func TestCollector_NilIsNoop(t *testing.T) {
	var collector *Collector

	collector.RecordRequest(200, time.Second)
	collector.RecordEnrichment(1)
	collector.RecordSearchAttempt("leta", "success")
	collector.RecordSearchQuery("leta", "success", time.Second)
	collector.RecordBackendAttempt("success", time.Second)
	collector.RecordBackendRetry(500)
}

func TestCollector_Handler(t *testing.T) {
	collector := NewCollector(testConfig(), nil)
	collector.RecordRequest(200, time.Second)
	collector.RecordEnrichment(4)

	srv := httptest.NewServer(collector.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{"test_requests_total", "test_enrichment_results"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
