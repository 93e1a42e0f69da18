// Package resilience groups fault tolerance helpers. The circuitbreaker subpackage
// guards the feed fetcher and the Postgres source store so that a failing dependency
// is skipped quickly instead of holding a poll cycle or an API request open.
package resilience
