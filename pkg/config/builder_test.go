package config

import "time"

// ConfigBuilder provides a fluent interface for building test configurations.
type ConfigBuilder struct {
	cfg *Config
}

// NewTestConfig creates a new ConfigBuilder starting from Defaults.
func NewTestConfig() *ConfigBuilder {
	return &ConfigBuilder{cfg: Defaults()}
}

// WithPort sets the proxy port.
func (b *ConfigBuilder) WithPort(port int) *ConfigBuilder {
	b.cfg.Proxy.Port = port
	return b
}

// WithBackend sets the backend base URL.
func (b *ConfigBuilder) WithBackend(baseURL string) *ConfigBuilder {
	b.cfg.Backend.BaseURL = baseURL
	return b
}

// WithSearch sets the search provider and base URL.
func (b *ConfigBuilder) WithSearch(provider, baseURL string) *ConfigBuilder {
	b.cfg.Search.Provider = provider
	b.cfg.Search.BaseURL = baseURL
	return b
}

// WithCircuitBreaker enables the search circuit breaker.
func (b *ConfigBuilder) WithCircuitBreaker(maxFailures uint32, timeout time.Duration) *ConfigBuilder {
	b.cfg.Search.CircuitBreaker = CircuitBreakerConfig{
		Enabled:     true,
		MaxFailures: maxFailures,
		Timeout:     timeout,
		Interval:    DefaultBreakerInterval,
	}
	return b
}

// WithTracing enables tracing with the given exporter.
func (b *ConfigBuilder) WithTracing(exporter string) *ConfigBuilder {
	b.cfg.Telemetry.Tracing.Enabled = true
	b.cfg.Telemetry.Tracing.Exporter = exporter
	return b
}

// Build returns the configuration.
func (b *ConfigBuilder) Build() *Config {
	return b.cfg
}
