package main

import (
	"log/slog"
	"time"

	"feed-aggregator/internal/infra/scraper"
	"feed-aggregator/internal/pkg/config"
)

// apiConfig holds the runtime settings of the API server.
//
// Environment variables:
//   - HTTP_PORT: listen port, 1024-65535 (default: 8080)
//   - REQUEST_TIMEOUT: per-request deadline for feed endpoints, 1s-5m (default: 60s)
//   - SEARCH_RATE_LIMIT: searches per client per minute, 1-10000 (default: 30)
//   - READ_PARALLELISM: concurrent fetches in a full read, 1-16 (default: 1)
//   - POLL_INTERVAL_UNIT: length of one refresh interval unit, 1s-1h (default: 1m)
//   - POLL_ON_START: start polling when the server starts (default: false)
//   - SHUTDOWN_TIMEOUT: graceful shutdown budget, 1s-10m (default: 30s)
//   - SOURCES_FILE: YAML file of sources registered at startup (default: none)
//   - FETCH_*: see scraper.LoadConfig
type apiConfig struct {
	Port             int
	RequestTimeout   time.Duration
	SearchRateLimit  int
	ReadParallelism  int
	PollIntervalUnit time.Duration
	PollOnStart      bool
	ShutdownTimeout  time.Duration
	SourcesFile      string
	Fetch            scraper.Config
}

func loadAPIConfig(logger *slog.Logger, metrics *config.ConfigMetrics) apiConfig {
	l := config.NewLoader(logger, metrics)
	cfg := apiConfig{
		Port: l.Int("HTTP_PORT", 8080, config.ValidatePort),
		RequestTimeout: l.Duration("REQUEST_TIMEOUT", time.Minute, func(d time.Duration) error {
			return config.ValidateDuration(d, time.Second, 5*time.Minute)
		}),
		SearchRateLimit: l.Int("SEARCH_RATE_LIMIT", 30, func(v int) error {
			return config.ValidateIntRange(v, 1, 10000)
		}),
		ReadParallelism: l.Int("READ_PARALLELISM", 1, func(v int) error {
			return config.ValidateIntRange(v, 1, 16)
		}),
		PollIntervalUnit: l.Duration("POLL_INTERVAL_UNIT", time.Minute, func(d time.Duration) error {
			return config.ValidateDuration(d, time.Second, time.Hour)
		}),
		PollOnStart: l.Bool("POLL_ON_START", false),
		ShutdownTimeout: l.Duration("SHUTDOWN_TIMEOUT", 30*time.Second, func(d time.Duration) error {
			return config.ValidateDuration(d, time.Second, 10*time.Minute)
		}),
		SourcesFile: config.LoadEnvString("SOURCES_FILE", ""),
		Fetch:       scraper.LoadConfig(l),
	}
	l.Finish()
	return cfg
}
