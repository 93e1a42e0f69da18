package metrics

import (
	"time"
)

// Fetch error kinds.
const (
	KindFetch = "fetch"
	KindParse = "parse"
)

// Reader outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// RecordFeedFetch records the duration of one fetch-and-parse and, on success, the
// number of parsed items.
func RecordFeedFetch(host string, duration time.Duration, items int) {
	FeedFetchDuration.WithLabelValues(host).Observe(duration.Seconds())
	if items > 0 {
		FeedItemsParsed.WithLabelValues(host).Add(float64(items))
	}
}

// RecordFeedFetchError records a failed fetch-and-parse. kind is KindFetch or KindParse.
func RecordFeedFetchError(host, kind string) {
	FeedFetchErrors.WithLabelValues(host, kind).Inc()
}

// RecordReaderOperation records the outcome of a reader operation (read_one, read_all, search).
func RecordReaderOperation(operation string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	ReaderOperations.WithLabelValues(operation, outcome).Inc()
}

// RecordSearchResults records the size of a search result set.
func RecordSearchResults(count int) {
	SearchResults.Observe(float64(count))
}

// RecordRegistryMutation records a registry write.
func RecordRegistryMutation(action string) {
	RegistryMutations.WithLabelValues(action).Inc()
}

// UpdateSourcesTotal sets the number of registered sources.
func UpdateSourcesTotal(count int) {
	SourcesTotal.Set(float64(count))
}
