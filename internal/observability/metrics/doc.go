// Package metrics provides the Prometheus business metrics of the feed aggregator.
//
// All metrics are registered with the default registry through promauto and exposed
// via the /metrics endpoint. Callers use the Record* helpers rather than the vectors
// directly so label values stay consistent.
//
// Example usage:
//
//	start := time.Now()
//	ch, err := fetcher.Fetch(ctx, uri)
//	metrics.RecordFeedFetch(uri.Host, time.Since(start), err)
package metrics
