package config

import "time"

// Default values for configuration fields.
const (
	// Proxy defaults
	DefaultListenAddress   = "::"
	DefaultPort            = 8080
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 0
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1048576  // 1MB
	DefaultMaxBodyBytes    = 10485760 // 10MB

	// Backend defaults
	DefaultBackendBaseURL                = "http://127.0.0.1:11434"
	DefaultBackendTimeout                = 45 * time.Second
	DefaultBackendMaxAttempts            = 3
	DefaultBackendRetryBackoff           = 1 * time.Second
	DefaultBackendTransportRetries       = 10
	DefaultBackendTransportBackoffFactor = 2 * time.Second
	DefaultBackendTransportBackoffMax    = 120 * time.Second

	// Search defaults
	DefaultSearchProvider     = "leta"
	DefaultSearchEngine       = "brave"
	DefaultSearchTimeout      = 10 * time.Second
	DefaultSearchMaxResults   = 10
	DefaultSearchMaxAttempts  = 3
	DefaultSearchRetryBackoff = 1 * time.Second
	DefaultSearchConcurrency  = 1
	DefaultSearchBurst        = 1

	// Circuit breaker defaults
	DefaultBreakerMaxFailures uint32 = 5
	DefaultBreakerTimeout            = 30 * time.Second
	DefaultBreakerInterval           = 60 * time.Second

	// Extraction defaults
	DefaultMaxDomains = 3

	// Telemetry defaults
	DefaultAdminAddress       = "127.0.0.1:9090"
	DefaultLogLevel           = "info"
	DefaultLogFormat          = "json"
	DefaultRedactPII          = true
	DefaultMetricsEnabled     = true
	DefaultMetricsNamespace   = "lookout"
	DefaultTracingExporter    = "otlp"
	DefaultTracingEndpoint    = "localhost:4317"
	DefaultTracingSampler     = "ratio"
	DefaultTracingSampleRatio = 1.0
	DefaultTracingServiceName = "lookout"
)

// DefaultRequestDurationBuckets covers proxy latencies from a fast relay to
// a backend that spends minutes generating.
var DefaultRequestDurationBuckets = []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120}

// Defaults returns a configuration with every field set to its default.
// YAML files are decoded on top of it, so fields a file sets explicitly,
// including false and zero, win over the defaults.
func Defaults() *Config {
	cfg := &Config{
		Backend: BackendConfig{
			TransportRetries: DefaultBackendTransportRetries,
		},
		Telemetry: TelemetryConfig{
			AdminAddress: DefaultAdminAddress,
			Logging: LoggingConfig{
				RedactPII: DefaultRedactPII,
			},
			Metrics: MetricsConfig{
				Enabled: DefaultMetricsEnabled,
			},
			Tracing: TracingConfig{
				SampleRatio: DefaultTracingSampleRatio,
			},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills every field whose zero value is not meaningful.
// Fields where zero or false is a valid setting (transport retries, the
// admin address, booleans, the sample ratio) are only set by Defaults.
func ApplyDefaults(cfg *Config) {
	// Proxy defaults
	if cfg.Proxy.ListenAddress == "" {
		cfg.Proxy.ListenAddress = DefaultListenAddress
	}
	if cfg.Proxy.Port == 0 {
		cfg.Proxy.Port = DefaultPort
	}
	if cfg.Proxy.ReadTimeout == 0 {
		cfg.Proxy.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Proxy.IdleTimeout == 0 {
		cfg.Proxy.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Proxy.ShutdownTimeout == 0 {
		cfg.Proxy.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Proxy.MaxHeaderBytes == 0 {
		cfg.Proxy.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if cfg.Proxy.MaxBodyBytes == 0 {
		cfg.Proxy.MaxBodyBytes = DefaultMaxBodyBytes
	}

	// Backend defaults
	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = DefaultBackendBaseURL
	}
	if cfg.Backend.Timeout == 0 {
		cfg.Backend.Timeout = DefaultBackendTimeout
	}
	if cfg.Backend.MaxAttempts == 0 {
		cfg.Backend.MaxAttempts = DefaultBackendMaxAttempts
	}
	if cfg.Backend.RetryBackoff == 0 {
		cfg.Backend.RetryBackoff = DefaultBackendRetryBackoff
	}
	if cfg.Backend.TransportBackoffFactor == 0 {
		cfg.Backend.TransportBackoffFactor = DefaultBackendTransportBackoffFactor
	}
	if cfg.Backend.TransportBackoffMax == 0 {
		cfg.Backend.TransportBackoffMax = DefaultBackendTransportBackoffMax
	}

	applySearchDefaults(&cfg.Search)

	// Extraction defaults
	if cfg.Extraction.MaxDomains == 0 {
		cfg.Extraction.MaxDomains = DefaultMaxDomains
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if len(cfg.Telemetry.Metrics.RequestDurationBuckets) == 0 {
		cfg.Telemetry.Metrics.RequestDurationBuckets = DefaultRequestDurationBuckets
	}
	if cfg.Telemetry.Tracing.Exporter == "" {
		cfg.Telemetry.Tracing.Exporter = DefaultTracingExporter
	}
	if cfg.Telemetry.Tracing.Endpoint == "" {
		cfg.Telemetry.Tracing.Endpoint = DefaultTracingEndpoint
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingServiceName
	}
}

// applySearchDefaults applies defaults to the search section. BaseURL is
// left empty; each provider falls back to its own public endpoint.
func applySearchDefaults(s *SearchConfig) {
	if s.Provider == "" {
		s.Provider = DefaultSearchProvider
	}
	if s.Engine == "" {
		s.Engine = DefaultSearchEngine
	}
	if s.Timeout == 0 {
		s.Timeout = DefaultSearchTimeout
	}
	if s.MaxResults == 0 {
		s.MaxResults = DefaultSearchMaxResults
	}
	if s.MaxAttempts == 0 {
		s.MaxAttempts = DefaultSearchMaxAttempts
	}
	if s.RetryBackoff == 0 {
		s.RetryBackoff = DefaultSearchRetryBackoff
	}
	if s.Concurrency == 0 {
		s.Concurrency = DefaultSearchConcurrency
	}
	if s.Burst == 0 {
		s.Burst = DefaultSearchBurst
	}

	cb := &s.CircuitBreaker
	if cb.MaxFailures == 0 {
		cb.MaxFailures = DefaultBreakerMaxFailures
	}
	if cb.Timeout == 0 {
		cb.Timeout = DefaultBreakerTimeout
	}
	if cb.Interval == 0 {
		cb.Interval = DefaultBreakerInterval
	}
}
