package auth

import "strings"

// PublicEndpoints are served without a token. Entries ending in "/" match as prefixes.
var PublicEndpoints = []string{
	"/health",
	"/health/ready",
	"/metrics",
	"/auth/token",
}

// IsPublicEndpoint reports whether path is reachable without authentication.
func IsPublicEndpoint(path string) bool {
	for _, endpoint := range PublicEndpoints {
		if strings.HasSuffix(endpoint, "/") {
			if strings.HasPrefix(path, endpoint) {
				return true
			}
			continue
		}
		if path == endpoint || path == endpoint+"/" {
			return true
		}
	}
	return false
}
