package config

import (
	"net"
	"strconv"
	"time"
)

// Config is the root configuration structure for lookout.
// It contains the proxy listener, the chat-completion backend, the web
// search client, term extraction and telemetry settings.
type Config struct {
	// Proxy contains HTTP listener configuration including the listen
	// address, port, timeouts and request size limits.
	Proxy ProxyConfig `yaml:"proxy"`

	// Backend contains configuration for the chat-completion endpoint
	// requests are forwarded to.
	Backend BackendConfig `yaml:"backend"`

	// Search contains configuration for the web search client.
	Search SearchConfig `yaml:"search"`

	// Extraction contains configuration for search term extraction.
	Extraction ExtractionConfig `yaml:"extraction"`

	// Telemetry contains configuration for logging, metrics, tracing and
	// the admin listener.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ProxyConfig contains configuration for the HTTP proxy server.
type ProxyConfig struct {
	// ListenAddress is the host part of the listen address. The default "::"
	// accepts both IPv6 and IPv4 connections.
	// Default: "::"
	ListenAddress string `yaml:"listen_address"`

	// Port is the TCP port to listen on.
	// Default: 8080
	Port int `yaml:"port"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body. A zero value means no timeout.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. Enrichment plus backend retries can take minutes, so the
	// default is no timeout.
	// Default: 0
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for in-flight requests
	// during graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits the size of request headers.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// MaxBodyBytes limits the size of a chat request body.
	// Default: 10485760 (10MB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

// Addr returns the host:port the proxy listens on.
func (c ProxyConfig) Addr() string {
	return net.JoinHostPort(c.ListenAddress, strconv.Itoa(c.Port))
}

// BackendConfig contains configuration for the chat-completion backend.
type BackendConfig struct {
	// BaseURL is the backend root URL. Requests are sent to
	// {BaseURL}/v1/chat/completions. The OLLAMA_API environment variable
	// overrides it.
	// Default: "http://127.0.0.1:11434"
	BaseURL string `yaml:"base_url"`

	// Timeout bounds a single forwarding attempt.
	// Default: 45s
	Timeout time.Duration `yaml:"timeout"`

	// MaxAttempts is the number of forwarding attempts made when the backend
	// is unreachable or times out.
	// Default: 3
	MaxAttempts int `yaml:"max_attempts"`

	// RetryBackoff is the linear backoff unit between forwarding attempts:
	// the nth retry waits n * RetryBackoff.
	// Default: 1s
	RetryBackoff time.Duration `yaml:"retry_backoff"`

	// TransportRetries is the number of transport-level retries on HTTP
	// 500, 502, 503 and 504. Zero disables transport-level retries.
	// Default: 10
	TransportRetries int `yaml:"transport_retries"`

	// TransportBackoffFactor scales the exponential transport backoff
	// factor * 2^(n-1). The first retry is immediate.
	// Default: 2s
	TransportBackoffFactor time.Duration `yaml:"transport_backoff_factor"`

	// TransportBackoffMax caps a single transport backoff.
	// Default: 120s
	TransportBackoffMax time.Duration `yaml:"transport_backoff_max"`
}

// SearchConfig contains configuration for the web search client.
type SearchConfig struct {
	// Provider selects the search provider: "leta" or "searxng".
	// Default: "leta"
	Provider string `yaml:"provider"`

	// BaseURL is the provider root URL. Required for searxng; leta uses
	// https://leta.mullvad.net when empty.
	BaseURL string `yaml:"base_url"`

	// Engine is the upstream engine requested from leta.
	// Default: "brave"
	Engine string `yaml:"engine"`

	// Timeout bounds a single search attempt.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`

	// MaxResults bounds the results kept per query.
	// Default: 10
	MaxResults int `yaml:"max_results"`

	// MaxAttempts is the number of attempts per query.
	// Default: 3
	MaxAttempts int `yaml:"max_attempts"`

	// RetryBackoff is the linear backoff unit between attempts.
	// Default: 1s
	RetryBackoff time.Duration `yaml:"retry_backoff"`

	// Concurrency is the number of queries searched in parallel for one
	// request. 1 searches sequentially.
	// Default: 1
	Concurrency int `yaml:"concurrency"`

	// RequestsPerSecond paces outbound search requests across all inbound
	// requests. Zero disables pacing.
	// Default: 0
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// Burst is the pacing bucket size.
	// Default: 1
	Burst int `yaml:"burst"`

	// CircuitBreaker configures the breaker wrapped around the provider.
	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker"`
}

// CircuitBreakerConfig configures the search circuit breaker.
type CircuitBreakerConfig struct {
	// Enabled turns the breaker on.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// MaxFailures is the number of consecutive failures that opens the circuit.
	// Default: 5
	MaxFailures uint32 `yaml:"max_failures"`

	// Timeout is how long the circuit stays open before a probe.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`

	// Interval is the cyclic period after which failure counts reset while
	// the circuit is closed.
	// Default: 60s
	Interval time.Duration `yaml:"interval"`
}

// ExtractionConfig contains configuration for search term extraction.
type ExtractionConfig struct {
	// MaxDomains caps the domains searched per request.
	// Default: 3
	MaxDomains int `yaml:"max_domains"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// AdminAddress is the host:port of the admin listener serving /health,
	// /ready and /metrics. Empty disables the admin listener.
	// Default: "127.0.0.1:9090"
	AdminAddress string `yaml:"admin_address"`

	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains OpenTelemetry tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn" or "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the log output format: "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes the source file and line in log records.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// RedactPII masks email addresses in log attributes.
	// Default: true
	RedactPII bool `yaml:"redact_pii"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled turns metric collection on.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Namespace prefixes every metric name.
	// Default: "lookout"
	Namespace string `yaml:"namespace"`

	// RequestDurationBuckets are the histogram buckets for proxy and backend
	// latency in seconds.
	RequestDurationBuckets []float64 `yaml:"request_duration_buckets"`
}

// TracingConfig contains OpenTelemetry tracing configuration.
type TracingConfig struct {
	// Enabled turns tracing on. When disabled a noop tracer is used.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Exporter selects the span exporter: "otlp" or "stdout".
	// Default: "otlp"
	Exporter string `yaml:"exporter"`

	// Endpoint is the OTLP gRPC collector address.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS for the OTLP connection.
	// Default: false
	Insecure bool `yaml:"insecure"`

	// Sampler is the sampling strategy: "always", "never" or "ratio".
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the sampled fraction of root traces for the "ratio"
	// sampler.
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// ServiceName is reported as the service.name resource attribute.
	// Default: "lookout"
	ServiceName string `yaml:"service_name"`
}
