package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvOllamaAPI names the environment variable holding the backend base URL.
const EnvOllamaAPI = "OLLAMA_API"

// LoadConfig loads configuration from a YAML file at the specified path.
// The file is decoded on top of Defaults, then defaults are applied to
// anything left empty and the result is validated. Unknown keys are
// rejected. The configuration is not modified by environment variables;
// use LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	// Read the file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	// Parse YAML
	cfg := Defaults()
	if err := decode(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	// Apply defaults
	ApplyDefaults(cfg)

	// Validate
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention LOOKOUT_SECTION_FIELD (e.g., LOOKOUT_PROXY_PORT). OLLAMA_API
// sets backend.base_url; LOOKOUT_BACKEND_BASE_URL takes precedence over it.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	// First load from file (this already applies defaults)
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	return finish(cfg)
}

// Load returns the startup configuration. An empty path skips the file and
// starts from Defaults; environment overrides and validation always apply.
func Load(path string) (*Config, error) {
	if path != "" {
		return LoadConfigWithEnvOverrides(path)
	}
	return finish(Defaults())
}

// finish applies environment overrides and re-validates.
func finish(cfg *Config) (*Config, error) {
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	// Re-validate after overrides
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// decode strictly decodes YAML onto cfg. An empty document is allowed.
func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// envOverrides collects parse failures while applying environment variables.
type envOverrides struct {
	errs []FieldError
}

func (e *envOverrides) str(name string, dst *string) {
	if val := os.Getenv(name); val != "" {
		*dst = val
	}
}

func (e *envOverrides) integer(name string, dst *int) {
	if val := os.Getenv(name); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			e.errs = append(e.errs, FieldError{Field: name, Message: fmt.Sprintf("invalid integer %q", val)})
			return
		}
		*dst = i
	}
}

func (e *envOverrides) duration(name string, dst *time.Duration) {
	if val := os.Getenv(name); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			e.errs = append(e.errs, FieldError{Field: name, Message: fmt.Sprintf("invalid duration %q", val)})
			return
		}
		*dst = d
	}
}

func (e *envOverrides) boolean(name string, dst *bool) {
	if val := os.Getenv(name); val != "" {
		b, err := strconv.ParseBool(val)
		if err != nil {
			e.errs = append(e.errs, FieldError{Field: name, Message: fmt.Sprintf("invalid boolean %q", val)})
			return
		}
		*dst = b
	}
}

func (e *envOverrides) float(name string, dst *float64) {
	if val := os.Getenv(name); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			e.errs = append(e.errs, FieldError{Field: name, Message: fmt.Sprintf("invalid number %q", val)})
			return
		}
		*dst = f
	}
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Malformed values are reported as a ValidationError instead
// of being silently ignored.
func applyEnvOverrides(cfg *Config) error {
	var env envOverrides

	// Proxy overrides
	env.str("LOOKOUT_PROXY_LISTEN_ADDRESS", &cfg.Proxy.ListenAddress)
	env.integer("LOOKOUT_PROXY_PORT", &cfg.Proxy.Port)
	env.duration("LOOKOUT_PROXY_READ_TIMEOUT", &cfg.Proxy.ReadTimeout)
	env.duration("LOOKOUT_PROXY_WRITE_TIMEOUT", &cfg.Proxy.WriteTimeout)
	env.duration("LOOKOUT_PROXY_IDLE_TIMEOUT", &cfg.Proxy.IdleTimeout)
	env.duration("LOOKOUT_PROXY_SHUTDOWN_TIMEOUT", &cfg.Proxy.ShutdownTimeout)

	// Backend overrides
	env.str(EnvOllamaAPI, &cfg.Backend.BaseURL)
	env.str("LOOKOUT_BACKEND_BASE_URL", &cfg.Backend.BaseURL)
	env.duration("LOOKOUT_BACKEND_TIMEOUT", &cfg.Backend.Timeout)
	env.integer("LOOKOUT_BACKEND_MAX_ATTEMPTS", &cfg.Backend.MaxAttempts)
	env.integer("LOOKOUT_BACKEND_TRANSPORT_RETRIES", &cfg.Backend.TransportRetries)

	// Search overrides
	env.str("LOOKOUT_SEARCH_PROVIDER", &cfg.Search.Provider)
	env.str("LOOKOUT_SEARCH_BASE_URL", &cfg.Search.BaseURL)
	env.str("LOOKOUT_SEARCH_ENGINE", &cfg.Search.Engine)
	env.duration("LOOKOUT_SEARCH_TIMEOUT", &cfg.Search.Timeout)
	env.integer("LOOKOUT_SEARCH_MAX_RESULTS", &cfg.Search.MaxResults)
	env.integer("LOOKOUT_SEARCH_MAX_ATTEMPTS", &cfg.Search.MaxAttempts)
	env.integer("LOOKOUT_SEARCH_CONCURRENCY", &cfg.Search.Concurrency)
	env.float("LOOKOUT_SEARCH_REQUESTS_PER_SECOND", &cfg.Search.RequestsPerSecond)
	env.boolean("LOOKOUT_SEARCH_CIRCUIT_BREAKER_ENABLED", &cfg.Search.CircuitBreaker.Enabled)

	// Extraction overrides
	env.integer("LOOKOUT_EXTRACTION_MAX_DOMAINS", &cfg.Extraction.MaxDomains)

	// Telemetry overrides
	env.str("LOOKOUT_TELEMETRY_ADMIN_ADDRESS", &cfg.Telemetry.AdminAddress)
	env.str("LOOKOUT_TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	env.str("LOOKOUT_TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	env.boolean("LOOKOUT_TELEMETRY_LOGGING_REDACT_PII", &cfg.Telemetry.Logging.RedactPII)
	env.boolean("LOOKOUT_TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	env.boolean("LOOKOUT_TELEMETRY_TRACING_ENABLED", &cfg.Telemetry.Tracing.Enabled)
	env.str("LOOKOUT_TELEMETRY_TRACING_EXPORTER", &cfg.Telemetry.Tracing.Exporter)
	env.str("LOOKOUT_TELEMETRY_TRACING_ENDPOINT", &cfg.Telemetry.Tracing.Endpoint)
	env.float("LOOKOUT_TELEMETRY_TRACING_SAMPLE_RATIO", &cfg.Telemetry.Tracing.SampleRatio)

	if len(env.errs) > 0 {
		return ValidationError{Errors: env.errs}
	}
	return nil
}
