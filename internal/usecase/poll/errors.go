// Package poll runs every registered source on its own repeating schedule.
//
// Each source gets a goroutine that reads the feed immediately and then again after each
// refresh interval, measured from the end of the previous run. A slow or failing source
// never delays another one. Outcomes go to a Sink; the poller itself keeps no results.
package poll

import "errors"

var (
	// ErrAlreadyRunning is returned by Start when polling is already active.
	ErrAlreadyRunning = errors.New("polling already started")

	// ErrRunPanicked marks an outcome whose read panicked.
	ErrRunPanicked = errors.New("poll run panicked")
)
