package scraper

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedScheme is returned for URIs other than http, https and file.
	ErrUnsupportedScheme = errors.New("unsupported URI scheme")

	// ErrBodyTooLarge is returned when a document exceeds Config.MaxBodySize.
	ErrBodyTooLarge = errors.New("feed body exceeds size limit")

	// ErrPrivateAddress is returned when DenyPrivateIPs is set and the host resolves
	// into a private network.
	ErrPrivateAddress = errors.New("connection to private address refused")

	// ErrTooManyRedirects is returned when a fetch follows more than Config.MaxRedirects.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrMissingChannel is returned for an <rss> document without a <channel>.
	ErrMissingChannel = errors.New("rss document has no channel")

	// ErrNotRSS is returned for Atom or JSON feeds unless Config.AcceptNonRSS is set.
	ErrNotRSS = errors.New("document is not an RSS feed")
)

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %s", e.Status)
}
