// Package server runs the enrichment proxy.
//
// The proxy listens on [::]:8080 by default with IPV6_V6ONLY cleared, so a
// single socket accepts both IPv6 and IPv4 clients. Every path is routed to
// the enrichment handler; probes and metrics live on a separate admin
// listener (127.0.0.1:9090 by default) because the proxy accepts POSTs on
// any path.
//
// # Basic Usage
//
//	cfg, err := config.Load(path)
//	if err != nil {
//	    return err
//	}
//	srv, err := server.New(cfg, logger, collector, health.VersionInfo{Version: version})
//	if err != nil {
//	    return err
//	}
//	return srv.Start(ctx) // blocks until ctx is cancelled
//
// # Graceful Shutdown
//
// When ctx is cancelled the server stops accepting connections and waits up
// to proxy.shutdown_timeout for in-flight requests to finish.
package server
