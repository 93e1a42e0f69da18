package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FeedFetchDuration tracks fetch-and-parse latency per feed host.
	FeedFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feed_fetch_duration_seconds",
			Help:    "Time taken to fetch and parse a feed",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"host"},
	)

	// FeedFetchErrors counts fetch-and-parse failures by host and kind (fetch, parse).
	FeedFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_fetch_errors_total",
			Help: "Total number of feed fetch errors",
		},
		[]string{"host", "kind"},
	)

	// FeedItemsParsed counts items produced by successful parses.
	FeedItemsParsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_items_parsed_total",
			Help: "Total number of feed items parsed",
		},
		[]string{"host"},
	)

	// ReaderOperations counts reader calls by operation and outcome.
	ReaderOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_reader_operations_total",
			Help: "Total number of feed reader operations",
		},
		[]string{"operation", "outcome"},
	)

	// SearchResults observes how many items each search returned.
	SearchResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feed_search_results",
			Help:    "Number of items returned per search",
			Buckets: prometheus.ExponentialBuckets(1, 4, 6),
		},
	)

	// RegistryMutations counts source registry writes by action (created, updated, deleted).
	RegistryMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_registry_mutations_total",
			Help: "Total number of source registry mutations",
		},
		[]string{"action"},
	)

	// SourcesTotal is the number of registered sources.
	SourcesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sources_total",
			Help: "Number of registered feed sources",
		},
	)
)
