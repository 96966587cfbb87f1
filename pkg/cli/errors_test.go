package cli

import (
	"errors"
	"fmt"
	"testing"
)

func TestConfigError(t *testing.T) {
	cause := errors.New("proxy.port: must be between 1 and 65535")

	tests := []struct {
		name string
		err  *ConfigError
		want string
	}{
		{"with path", NewConfigError("lookout.yaml", cause), "config error in lookout.yaml: proxy.port: must be between 1 and 65535"},
		{"without path", NewConfigError("", cause), "config error: proxy.port: must be between 1 and 65535"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			if !errors.Is(tt.err, cause) {
				t.Error("errors.Is() should reach the cause")
			}
		})
	}
}

func TestCommandError(t *testing.T) {
	underlyingErr := errors.New("underlying error")
	err := NewCommandError("search", underlyingErr)

	expected := "command search failed: underlying error"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, underlyingErr) {
		t.Error("errors.Is() should work with CommandError.Unwrap()")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"plain", errors.New("boom"), ExitError},
		{"config", NewConfigError("x.yaml", errors.New("bad")), ExitConfig},
		{"wrapped config", fmt.Errorf("run: %w", NewConfigError("", errors.New("bad"))), ExitConfig},
		{"command", NewCommandError("run", errors.New("bad")), ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
