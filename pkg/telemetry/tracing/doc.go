// Package tracing wires OpenTelemetry into lookout.
//
// One span tree is produced per proxied request:
//
//	proxy.request
//	├── search.query   (one per extracted domain or sender name)
//	└── backend.forward
//
// Exporters: "otlp" (gRPC collector) and "stdout". Sampling is parent-based
// with an always, never or ratio root sampler.
//
// Trace context arriving in traceparent headers is extracted by the proxy
// handler and injected into the request sent to the backend.
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracing.Start(ctx, "search.query")
//	defer span.End()
package tracing
