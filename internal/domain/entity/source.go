package entity

import (
	"net/url"
	"strings"
	"time"
)

// DefaultRefreshIntervalMinutes is applied by input layers when a source omits its interval.
const DefaultRefreshIntervalMinutes = 1

// Source is a configured polling target: a feed URI and how often to refetch it.
// A Source is never mutated after construction; updates replace the whole entry.
type Source struct {
	URI                    *url.URL
	RefreshIntervalMinutes int
}

// NewSource validates rawURI and refreshIntervalMinutes and builds a Source.
func NewSource(rawURI string, refreshIntervalMinutes int) (*Source, error) {
	u, err := ValidateSourceURI(rawURI)
	if err != nil {
		return nil, err
	}
	if err := ValidateRefreshInterval(refreshIntervalMinutes); err != nil {
		return nil, err
	}
	return &Source{URI: u, RefreshIntervalMinutes: refreshIntervalMinutes}, nil
}

// ValidateRefreshInterval rejects intervals that are not strictly positive.
func ValidateRefreshInterval(minutes int) error {
	if minutes <= 0 {
		return &ValidationError{
			Field:   "refreshIntervalMinutes",
			Message: "invalid refresh interval (minutes), please give an integer value greater than 0",
		}
	}
	return nil
}

// Key returns the registry identity of the source.
func (s *Source) Key() string {
	return NormalizeKey(s.URI.String())
}

// Interval returns the refresh interval as a duration.
func (s *Source) Interval() time.Duration {
	return time.Duration(s.RefreshIntervalMinutes) * time.Minute
}

// NormalizeKey folds URI text into the form used for case-insensitive identity checks.
func NormalizeKey(uriText string) string {
	return strings.ToLower(uriText)
}
