package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestValidate_ValidConfig(t *testing.T) {
	if err := Validate(Defaults()); err != nil {
		t.Errorf("expected valid configuration, got %v", err)
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := Defaults()
	cfg.Proxy.Port = 0
	cfg.Backend.MaxAttempts = 0
	cfg.Telemetry.Logging.Level = "loud"

	err := Validate(cfg)
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(verr.Errors) != 3 {
		t.Errorf("expected 3 errors, got %d: %v", len(verr.Errors), verr)
	}
}

func TestValidate_Fields(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"listen address with port", func(c *Config) { c.Proxy.ListenAddress = "0.0.0.0:8080" }, "proxy.listen_address"},
		{"bracketed listen address", func(c *Config) { c.Proxy.ListenAddress = "[::]" }, "proxy.listen_address"},
		{"port too large", func(c *Config) { c.Proxy.Port = 70000 }, "proxy.port"},
		{"negative read timeout", func(c *Config) { c.Proxy.ReadTimeout = -time.Second }, "proxy.read_timeout"},
		{"zero body limit", func(c *Config) { c.Proxy.MaxBodyBytes = 0 }, "proxy.max_body_bytes"},
		{"backend scheme", func(c *Config) { c.Backend.BaseURL = "ftp://x" }, "backend.base_url"},
		{"backend missing host", func(c *Config) { c.Backend.BaseURL = "http://" }, "backend.base_url"},
		{"negative transport retries", func(c *Config) { c.Backend.TransportRetries = -1 }, "backend.transport_retries"},
		{"searxng without url", func(c *Config) { c.Search.Provider = "searxng"; c.Search.BaseURL = "" }, "search.base_url"},
		{"unknown provider", func(c *Config) { c.Search.Provider = "google" }, "search.provider"},
		{"zero concurrency", func(c *Config) { c.Search.Concurrency = 0 }, "search.concurrency"},
		{"negative rps", func(c *Config) { c.Search.RequestsPerSecond = -1 }, "search.requests_per_second"},
		{"breaker zero timeout", func(c *Config) {
			c.Search.CircuitBreaker.Enabled = true
			c.Search.CircuitBreaker.Timeout = 0
		}, "search.circuit_breaker.timeout"},
		{"zero max domains", func(c *Config) { c.Extraction.MaxDomains = 0 }, "extraction.max_domains"},
		{"bad admin address", func(c *Config) { c.Telemetry.AdminAddress = "9090" }, "telemetry.admin_address"},
		{"bad log format", func(c *Config) { c.Telemetry.Logging.Format = "xml" }, "telemetry.logging.format"},
		{"bad exporter", func(c *Config) {
			c.Telemetry.Tracing.Enabled = true
			c.Telemetry.Tracing.Exporter = "zipkin"
		}, "telemetry.tracing.exporter"},
		{"bad sampler", func(c *Config) {
			c.Telemetry.Tracing.Enabled = true
			c.Telemetry.Tracing.Sampler = "sometimes"
		}, "telemetry.tracing.sampler"},
		{"ratio out of range", func(c *Config) { c.Telemetry.Tracing.SampleRatio = 1.5 }, "telemetry.tracing.sample_ratio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(cfg)

			err := Validate(cfg)
			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			found := false
			for _, fe := range verr.Errors {
				if fe.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error for %s, got %v", tt.field, verr)
			}
		})
	}
}

func TestValidate_AdminDisabled(t *testing.T) {
	cfg := Defaults()
	cfg.Telemetry.AdminAddress = ""
	if err := Validate(cfg); err != nil {
		t.Errorf("empty admin address should be valid: %v", err)
	}
}

func TestValidationError_Error(t *testing.T) {
	single := ValidationError{Errors: []FieldError{{Field: "proxy.port", Message: "bad"}}}
	if got := single.Error(); got != "configuration validation failed: proxy.port: bad" {
		t.Errorf("single error = %q", got)
	}

	multi := ValidationError{Errors: []FieldError{
		{Field: "a", Message: "x"},
		{Field: "b", Message: "y"},
	}}
	if got := multi.Error(); !strings.Contains(got, "2 errors") || !strings.Contains(got, "  - b: y") {
		t.Errorf("multi error = %q", got)
	}

	if got := (ValidationError{}).Error(); got != "configuration validation failed" {
		t.Errorf("empty error = %q", got)
	}
}
