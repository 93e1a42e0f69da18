// Package reader implements the feed reader: it resolves URIs against the source registry,
// fetches and parses the registered feeds, and runs keyword searches over their items.
//
// The reader is the translation boundary for pipeline failures. FeedFetcher
// implementations report ErrFetchFailure or ErrParseFailure; callers of the reader only
// ever see ErrInvalidArgument, ErrInvalidSource, ErrUnreadableSource or
// ErrNoSourcesConfigured.
package reader

import "errors"

// Errors returned by FeedFetcher implementations.
var (
	// ErrFetchFailure indicates that the resource could not be opened or read:
	// connection errors, timeouts, unsupported schemes, non-2xx responses.
	ErrFetchFailure = errors.New("failed to fetch feed")

	// ErrParseFailure indicates that the document is not well-formed or has no channel.
	ErrParseFailure = errors.New("failed to parse feed")
)

// Errors returned by the reader.
var (
	// ErrInvalidArgument indicates a nil URI or an empty search phrase.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidSource indicates that the URI is not registered or could not be fetched.
	ErrInvalidSource = errors.New("provided invalid URL")

	// ErrUnreadableSource indicates that the feed was fetched but could not be parsed.
	ErrUnreadableSource = errors.New("could not read correctly from URL")

	// ErrNoSourcesConfigured indicates that the registry is empty.
	ErrNoSourcesConfigured = errors.New("no URLs configured")
)
