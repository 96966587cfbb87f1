package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "proxy.port").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateProxy(&cfg.Proxy)...)
	errs = append(errs, validateBackend(&cfg.Backend)...)
	errs = append(errs, validateSearch(&cfg.Search)...)

	if cfg.Extraction.MaxDomains < 1 {
		errs = append(errs, FieldError{
			Field:   "extraction.max_domains",
			Message: "must be at least 1",
		})
	}

	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateProxy validates proxy configuration.
func validateProxy(cfg *ProxyConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "proxy.listen_address",
			Message: "listen address is required",
		})
	} else if strings.Contains(cfg.ListenAddress, "]") || (strings.Count(cfg.ListenAddress, ":") == 1) {
		errs = append(errs, FieldError{
			Field:   "proxy.listen_address",
			Message: fmt.Sprintf("%q must be a host without port or brackets; set proxy.port instead", cfg.ListenAddress),
		})
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		errs = append(errs, FieldError{
			Field:   "proxy.port",
			Message: fmt.Sprintf("port %d out of range 1-65535", cfg.Port),
		})
	}

	// Validate timeouts are non-negative
	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "proxy.read_timeout",
			Message: "read timeout must be non-negative",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "proxy.write_timeout",
			Message: "write timeout must be non-negative",
		})
	}
	if cfg.IdleTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "proxy.idle_timeout",
			Message: "idle timeout must be non-negative",
		})
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "proxy.shutdown_timeout",
			Message: "shutdown timeout must be non-negative",
		})
	}

	if cfg.MaxHeaderBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "proxy.max_header_bytes",
			Message: "max header bytes must be non-negative",
		})
	}
	if cfg.MaxBodyBytes < 1 {
		errs = append(errs, FieldError{
			Field:   "proxy.max_body_bytes",
			Message: "max body bytes must be positive",
		})
	}

	return errs
}

// validateBackend validates backend configuration.
func validateBackend(cfg *BackendConfig) []FieldError {
	var errs []FieldError

	errs = append(errs, validateHTTPURL("backend.base_url", cfg.BaseURL, true)...)

	if cfg.Timeout <= 0 {
		errs = append(errs, FieldError{
			Field:   "backend.timeout",
			Message: "timeout must be positive",
		})
	}
	if cfg.MaxAttempts < 1 {
		errs = append(errs, FieldError{
			Field:   "backend.max_attempts",
			Message: "must be at least 1",
		})
	}
	if cfg.RetryBackoff < 0 {
		errs = append(errs, FieldError{
			Field:   "backend.retry_backoff",
			Message: "must be non-negative",
		})
	}
	if cfg.TransportRetries < 0 {
		errs = append(errs, FieldError{
			Field:   "backend.transport_retries",
			Message: "must be non-negative",
		})
	}
	if cfg.TransportBackoffFactor < 0 {
		errs = append(errs, FieldError{
			Field:   "backend.transport_backoff_factor",
			Message: "must be non-negative",
		})
	}
	if cfg.TransportBackoffMax < 0 {
		errs = append(errs, FieldError{
			Field:   "backend.transport_backoff_max",
			Message: "must be non-negative",
		})
	}

	return errs
}

// validateSearch validates search configuration.
func validateSearch(cfg *SearchConfig) []FieldError {
	var errs []FieldError

	switch cfg.Provider {
	case "leta":
		errs = append(errs, validateHTTPURL("search.base_url", cfg.BaseURL, false)...)
	case "searxng":
		errs = append(errs, validateHTTPURL("search.base_url", cfg.BaseURL, true)...)
	default:
		errs = append(errs, FieldError{
			Field:   "search.provider",
			Message: fmt.Sprintf("unknown provider %q (expected leta or searxng)", cfg.Provider),
		})
	}

	if cfg.Timeout <= 0 {
		errs = append(errs, FieldError{
			Field:   "search.timeout",
			Message: "timeout must be positive",
		})
	}
	if cfg.MaxResults < 1 {
		errs = append(errs, FieldError{
			Field:   "search.max_results",
			Message: "must be at least 1",
		})
	}
	if cfg.MaxAttempts < 1 {
		errs = append(errs, FieldError{
			Field:   "search.max_attempts",
			Message: "must be at least 1",
		})
	}
	if cfg.RetryBackoff < 0 {
		errs = append(errs, FieldError{
			Field:   "search.retry_backoff",
			Message: "must be non-negative",
		})
	}
	if cfg.Concurrency < 1 {
		errs = append(errs, FieldError{
			Field:   "search.concurrency",
			Message: "must be at least 1",
		})
	}
	if cfg.RequestsPerSecond < 0 {
		errs = append(errs, FieldError{
			Field:   "search.requests_per_second",
			Message: "must be non-negative",
		})
	}
	if cfg.Burst < 1 {
		errs = append(errs, FieldError{
			Field:   "search.burst",
			Message: "must be at least 1",
		})
	}

	if cb := cfg.CircuitBreaker; cb.Enabled {
		if cb.MaxFailures < 1 {
			errs = append(errs, FieldError{
				Field:   "search.circuit_breaker.max_failures",
				Message: "must be at least 1",
			})
		}
		if cb.Timeout <= 0 {
			errs = append(errs, FieldError{
				Field:   "search.circuit_breaker.timeout",
				Message: "must be positive",
			})
		}
		if cb.Interval < 0 {
			errs = append(errs, FieldError{
				Field:   "search.circuit_breaker.interval",
				Message: "must be non-negative",
			})
		}
	}

	return errs
}

// validateTelemetry validates telemetry configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	if cfg.AdminAddress != "" {
		if _, _, err := net.SplitHostPort(cfg.AdminAddress); err != nil {
			errs = append(errs, FieldError{
				Field:   "telemetry.admin_address",
				Message: fmt.Sprintf("invalid address %q: %v", cfg.AdminAddress, err),
			})
		}
	}

	// Validate log level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(cfg.Logging.Level)] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid log level %q (must be debug, info, warn, or error)", cfg.Logging.Level),
		})
	}

	// Validate log format
	if cfg.Logging.Format != "json" && cfg.Logging.Format != "text" {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid log format %q (must be json or text)", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Namespace == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.namespace",
			Message: "namespace is required when metrics are enabled",
		})
	}

	if cfg.Tracing.Enabled {
		switch cfg.Tracing.Exporter {
		case "otlp":
			if cfg.Tracing.Endpoint == "" {
				errs = append(errs, FieldError{
					Field:   "telemetry.tracing.endpoint",
					Message: "endpoint is required for the otlp exporter",
				})
			}
		case "stdout":
		default:
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.exporter",
				Message: fmt.Sprintf("invalid exporter %q (must be otlp or stdout)", cfg.Tracing.Exporter),
			})
		}

		switch cfg.Tracing.Sampler {
		case "always", "never", "ratio":
		default:
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.sampler",
				Message: fmt.Sprintf("invalid sampler %q (must be always, never, or ratio)", cfg.Tracing.Sampler),
			})
		}
	}

	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: "sample ratio must be between 0.0 and 1.0",
		})
	}

	return errs
}

// validateHTTPURL checks that raw is an absolute http or https URL.
func validateHTTPURL(field, raw string, required bool) []FieldError {
	if raw == "" {
		if required {
			return []FieldError{{Field: field, Message: "URL is required"}}
		}
		return nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return []FieldError{{Field: field, Message: fmt.Sprintf("invalid URL: %v", err)}}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return []FieldError{{Field: field, Message: fmt.Sprintf("URL scheme must be http or https, got %q", u.Scheme)}}
	}
	if u.Host == "" {
		return []FieldError{{Field: field, Message: "URL must include a host"}}
	}
	return nil
}
