// Package health provides the liveness and readiness probes served on the
// admin listener.
//
// # Endpoints
//
//   - /health: liveness, always 200 while the process serves
//   - /ready: readiness, 200 when every registered check passes, 503 otherwise
//   - /version: build information
//
// # Usage
//
//	checker := health.New(2 * time.Second)
//	checker.RegisterCheck("backend", backendClient.Ping)
//	health.Register(mux, checker, health.VersionInfo{Version: version})
//
// Checks run concurrently; each is bounded by the checker's timeout.
package health
