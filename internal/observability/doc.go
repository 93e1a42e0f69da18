// Package observability groups the logging, metrics and tracing infrastructure of the
// feed aggregator.
//
// Subpackages:
//   - logging: slog logger construction and context propagation
//   - metrics: Prometheus business metrics for fetching, reading, searching and the registry
//   - tracing: OpenTelemetry tracer and HTTP middleware
package observability
