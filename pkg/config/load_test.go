package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `
proxy:
  listen_address: "0.0.0.0"
  port: 8181
  read_timeout: "60s"

backend:
  base_url: "http://ollama:11434"
  transport_retries: 0

search:
  provider: searxng
  base_url: "http://searx.local:8888"
  concurrency: 4
  circuit_breaker:
    enabled: true
    max_failures: 3

telemetry:
  admin_address: ""
  logging:
    level: "debug"
    format: "text"
  metrics:
    enabled: false
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Proxy.Addr() != "0.0.0.0:8181" {
		t.Errorf("expected addr %q, got %q", "0.0.0.0:8181", cfg.Proxy.Addr())
	}
	if cfg.Proxy.ReadTimeout != 60*time.Second {
		t.Errorf("expected read timeout %v, got %v", 60*time.Second, cfg.Proxy.ReadTimeout)
	}
	if cfg.Backend.TransportRetries != 0 {
		t.Errorf("explicit transport_retries: 0 must be kept, got %d", cfg.Backend.TransportRetries)
	}
	if cfg.Backend.Timeout != DefaultBackendTimeout {
		t.Errorf("expected default backend timeout, got %v", cfg.Backend.Timeout)
	}
	if cfg.Search.Concurrency != 4 {
		t.Errorf("expected concurrency 4, got %d", cfg.Search.Concurrency)
	}
	if cfg.Search.CircuitBreaker.Timeout != DefaultBreakerTimeout {
		t.Errorf("expected default breaker timeout, got %v", cfg.Search.CircuitBreaker.Timeout)
	}
	if cfg.Telemetry.AdminAddress != "" {
		t.Errorf("explicit empty admin address must disable the listener, got %q", cfg.Telemetry.AdminAddress)
	}
	if cfg.Telemetry.Metrics.Enabled {
		t.Error("explicit metrics.enabled: false must be kept")
	}
	if !cfg.Telemetry.Logging.RedactPII {
		t.Error("redact_pii should default to true")
	}
}

func TestLoadConfig_EmptyFile(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("empty file should load defaults: %v", err)
	}
	if cfg.Proxy.Port != DefaultPort {
		t.Errorf("expected default port, got %d", cfg.Proxy.Port)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist in chain, got %v", err)
	}
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "proxy:\n  port: [not a number\n"))
	if err == nil {
		t.Fatal("expected error for malformed YAML")
	}
	if !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestLoadConfig_UnknownField(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "proxy:\n  prot: 8080\n"))
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestLoadConfig_ValidationFailure(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "search:\n  provider: bing\n"))
	if err == nil {
		t.Fatal("expected validation error")
	}

	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if verr.Errors[0].Field != "search.provider" {
		t.Errorf("expected search.provider error, got %q", verr.Errors[0].Field)
	}
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if cfg.Backend.BaseURL != DefaultBackendBaseURL {
		t.Errorf("expected default backend, got %q", cfg.Backend.BaseURL)
	}
}

func TestLoad_OllamaAPI(t *testing.T) {
	t.Setenv(EnvOllamaAPI, "http://gpu-box:11434")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Backend.BaseURL != "http://gpu-box:11434" {
		t.Errorf("expected OLLAMA_API to set backend.base_url, got %q", cfg.Backend.BaseURL)
	}
}

func TestLoad_LookoutEnvWinsOverOllamaAPI(t *testing.T) {
	t.Setenv(EnvOllamaAPI, "http://a:11434")
	t.Setenv("LOOKOUT_BACKEND_BASE_URL", "http://b:11434")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Backend.BaseURL != "http://b:11434" {
		t.Errorf("expected LOOKOUT_BACKEND_BASE_URL to win, got %q", cfg.Backend.BaseURL)
	}
}

func TestLoadConfigWithEnvOverrides_BasicOverrides(t *testing.T) {
	path := writeConfig(t, "proxy:\n  port: 8080\n")

	t.Setenv("LOOKOUT_PROXY_PORT", "9191")
	t.Setenv("LOOKOUT_BACKEND_TIMEOUT", "90s")
	t.Setenv("LOOKOUT_SEARCH_CIRCUIT_BREAKER_ENABLED", "true")
	t.Setenv("LOOKOUT_SEARCH_REQUESTS_PER_SECOND", "2.5")
	t.Setenv("LOOKOUT_TELEMETRY_LOGGING_LEVEL", "debug")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v", err)
	}

	if cfg.Proxy.Port != 9191 {
		t.Errorf("expected port 9191, got %d", cfg.Proxy.Port)
	}
	if cfg.Backend.Timeout != 90*time.Second {
		t.Errorf("expected timeout 90s, got %v", cfg.Backend.Timeout)
	}
	if !cfg.Search.CircuitBreaker.Enabled {
		t.Error("expected circuit breaker enabled")
	}
	if cfg.Search.RequestsPerSecond != 2.5 {
		t.Errorf("expected 2.5 rps, got %v", cfg.Search.RequestsPerSecond)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("expected debug level, got %q", cfg.Telemetry.Logging.Level)
	}
}

func TestLoadConfigWithEnvOverrides_InvalidEnvValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"integer", "LOOKOUT_PROXY_PORT", "eighty"},
		{"duration", "LOOKOUT_SEARCH_TIMEOUT", "ten seconds"},
		{"boolean", "LOOKOUT_TELEMETRY_METRICS_ENABLED", "maybe"},
		{"float", "LOOKOUT_TELEMETRY_TRACING_SAMPLE_RATIO", "half"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)

			_, err := Load("")
			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Errors[0].Field != tt.key {
				t.Errorf("expected error for %s, got %q", tt.key, verr.Errors[0].Field)
			}
		})
	}
}
