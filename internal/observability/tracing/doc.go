// Package tracing provides OpenTelemetry tracing integration.
//
// Init installs an SDK tracer provider and the W3C trace-context propagator. Middleware
// starts a server span per HTTP request, and Start is used by the use case layer to trace
// feed reads and searches.
//
// Example usage:
//
//	shutdown := tracing.Init()
//	defer func() { _ = shutdown(context.Background()) }()
//	handler = tracing.Middleware(handler)
package tracing
