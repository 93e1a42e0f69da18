// Package scraper implements the fetch-and-parse pipeline: it opens a feed URI,
// reads the document under a size limit and decodes it into an entity.Channel.
package scraper

import (
	"fmt"
	"time"

	"feed-aggregator/internal/pkg/config"
)

// Config controls how feeds are fetched.
type Config struct {
	// UserAgent is sent with every HTTP request.
	UserAgent string

	// Timeout bounds one fetch, connection setup included.
	// Default: 30s
	Timeout time.Duration

	// MaxBodySize is the largest accepted document in bytes. It is enforced while
	// reading, not from Content-Length.
	// Default: 10485760 (10MB)
	MaxBodySize int64

	// MaxRedirects is the number of HTTP redirects followed before giving up.
	// Default: 5
	MaxRedirects int

	// AcceptNonRSS lets Atom and JSON feeds through, translated into channels.
	// When false they fail to parse.
	// Default: false
	AcceptNonRSS bool

	// DenyPrivateIPs refuses connections to loopback, link-local and private
	// addresses. It is checked at dial time, so redirects and DNS changes are covered.
	// Default: false
	DenyPrivateIPs bool
}

// DefaultConfig returns the default fetch configuration.
func DefaultConfig() Config {
	return Config{
		UserAgent:      "FeedAggregatorBot/1.0",
		Timeout:        30 * time.Second,
		MaxBodySize:    10 * 1024 * 1024,
		MaxRedirects:   5,
		AcceptNonRSS:   false,
		DenyPrivateIPs: false,
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if err := config.ValidateInt64Range(c.MaxBodySize, 1024, 100*1024*1024); err != nil {
		return fmt.Errorf("max body size: %w", err)
	}
	if err := config.ValidateIntRange(c.MaxRedirects, 0, 10); err != nil {
		return fmt.Errorf("max redirects: %w", err)
	}
	return nil
}

// LoadConfig reads the fetch configuration from the environment, falling back to
// defaults for invalid values.
//
// Environment variables:
//   - FETCH_USER_AGENT: string (default: FeedAggregatorBot/1.0)
//   - FETCH_TIMEOUT: duration, 1s-5m (default: 30s)
//   - FETCH_MAX_BODY_BYTES: integer, 1KB-100MB (default: 10485760)
//   - FETCH_MAX_REDIRECTS: integer, 0-10 (default: 5)
//   - FETCH_ACCEPT_NON_RSS: bool (default: false)
//   - FETCH_DENY_PRIVATE_IPS: bool (default: false)
func LoadConfig(l *config.Loader) Config {
	cfg := DefaultConfig()
	cfg.UserAgent = config.LoadEnvString("FETCH_USER_AGENT", cfg.UserAgent)
	cfg.Timeout = l.Duration("FETCH_TIMEOUT", cfg.Timeout, func(d time.Duration) error {
		return config.ValidateDuration(d, time.Second, 5*time.Minute)
	})
	cfg.MaxBodySize = l.Int64("FETCH_MAX_BODY_BYTES", cfg.MaxBodySize, func(v int64) error {
		return config.ValidateInt64Range(v, 1024, 100*1024*1024)
	})
	cfg.MaxRedirects = l.Int("FETCH_MAX_REDIRECTS", cfg.MaxRedirects, func(v int) error {
		return config.ValidateIntRange(v, 0, 10)
	})
	cfg.AcceptNonRSS = l.Bool("FETCH_ACCEPT_NON_RSS", cfg.AcceptNonRSS)
	cfg.DenyPrivateIPs = l.Bool("FETCH_DENY_PRIVATE_IPS", cfg.DenyPrivateIPs)
	return cfg
}
