// Package telemetry groups the observability packages used by lookout.
//
// # Components
//
//   - logging: slog setup, request ID propagation and PII redaction
//   - metrics: Prometheus collector for requests, searches and backend calls
//   - tracing: OpenTelemetry tracer provider and W3C propagation
//   - health: liveness, readiness and version endpoints for the admin listener
//
// The proxy listener serves only the chat completion endpoint. Health,
// readiness, version and metrics are served on the admin address
// (telemetry.admin_address), which is disabled when empty.
package telemetry
