// Package pathutil maps request paths to a bounded set of metric labels.
package pathutil

import (
	"slices"
	"strings"
)

// OtherPath labels every path that is not a known route.
const OtherPath = "/other"

// knownPaths are the routes served by the API. Feed and source URIs travel in the
// query string, so paths never carry identifiers.
var knownPaths = []string{
	"/auth/token",
	"/health",
	"/health/ready",
	"/metrics",
	"/sources",
	"/sources/one",
	"/feeds",
	"/feeds/one",
	"/feeds/search",
	"/polling",
	"/polling/start",
	"/polling/stop",
}

// NormalizePath strips the query and a trailing slash and returns the path if it is a
// known route, OtherPath otherwise.
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	if slices.Contains(knownPaths, path) {
		return path
	}
	return OtherPath
}

// ExpectedCardinality is the number of distinct labels NormalizePath can return.
func ExpectedCardinality() int {
	return len(knownPaths) + 1
}
