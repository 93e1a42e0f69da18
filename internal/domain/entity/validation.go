package entity

import (
	"fmt"
	"net"
	"net/url"
)

// maxURLLength defines the maximum allowed length for URLs to prevent DoS attacks.
const maxURLLength = 2048

// ValidateSourceURI parses rawURI and checks that it can be used as a feed source.
// The URI must be absolute and use the http, https or file scheme; network schemes
// also require a host. Returns a ValidationError describing the first violation.
func ValidateSourceURI(rawURI string) (*url.URL, error) {
	if rawURI == "" {
		return nil, &ValidationError{Field: "uri", Message: "URI is required"}
	}

	// DoS protection: enforce maximum URL length
	if len(rawURI) > maxURLLength {
		return nil, &ValidationError{
			Field:   "uri",
			Message: fmt.Sprintf("uri must not exceed %d characters", maxURLLength),
		}
	}

	u, err := url.Parse(rawURI)
	if err != nil {
		return nil, &ValidationError{Field: "uri", Message: fmt.Sprintf("the provided url %s is invalid", rawURI)}
	}
	if !u.IsAbs() {
		return nil, &ValidationError{Field: "uri", Message: "URI must be absolute"}
	}

	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return nil, &ValidationError{Field: "uri", Message: "URI must have a valid host"}
		}
	case "file":
		if u.Path == "" && u.Opaque == "" {
			return nil, &ValidationError{Field: "uri", Message: "file URI must have a path"}
		}
	default:
		return nil, &ValidationError{Field: "uri", Message: "URI must use http, https or file scheme"}
	}

	return u, nil
}

// IsPrivateIP checks if an IP address is in a private or restricted range:
// loopback, link-local, the RFC 1918 networks and IPv6 unique local addresses.
// The scraper uses it to refuse connections into the local network when that
// protection is enabled.
func IsPrivateIP(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
		return true
	}
	return ip.IsPrivate()
}
