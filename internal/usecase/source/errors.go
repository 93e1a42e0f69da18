// Package source implements the source registry: the set of configured feed URIs
// and their refresh intervals, keyed case-insensitively by URI.
package source

import "errors"

// Sentinel errors for source registry operations.
// ErrNilSource and ErrInvalidSourceURL are returned together with entity.ErrInvalidInput,
// and ErrSourceNotFound together with entity.ErrNotFound, so callers can test either the
// specific condition or the general kind.
var (
	// ErrSourceNotFound indicates that no registered source matches the given URI.
	ErrSourceNotFound = errors.New("URL could not be found in current configuration")

	// ErrNilSource indicates that a mutation was called without a source.
	ErrNilSource = errors.New("source configuration cannot be empty")

	// ErrInvalidSourceURL indicates that the URI text passed to Delete is not a valid URL.
	ErrInvalidSourceURL = errors.New("invalid source URL")
)
