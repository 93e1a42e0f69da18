// Package worker holds the supporting infrastructure of the polling worker:
// its configuration, Prometheus metrics and health endpoints.
package worker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"feed-aggregator/internal/infra/scraper"
	"feed-aggregator/internal/pkg/config"
)

// WorkerConfig holds the configuration of the polling worker.
//
// Environment variables:
//   - RECONCILE_SCHEDULE: cron expression for registry reconciliation (default: */1 * * * *)
//   - WORKER_TIMEZONE: IANA timezone the schedule is evaluated in (default: UTC)
//   - READ_PARALLELISM: concurrent fetches in a full read, 1-16 (default: 1)
//   - POLL_INTERVAL_UNIT: length of one refresh interval unit, 1s-1h (default: 1m)
//   - SHUTDOWN_TIMEOUT: time allowed for in-flight runs on shutdown, 1s-10m (default: 30s)
//   - WORKER_HEALTH_PORT: health server port, 1024-65535 (default: 9091)
//   - FETCH_*: see scraper.LoadConfig
type WorkerConfig struct {
	// ReconcileSchedule is how often the poller re-reads the registry to pick up
	// changes made by other processes.
	ReconcileSchedule string

	// Timezone is the location ReconcileSchedule is evaluated in.
	Timezone string

	// ReadParallelism bounds concurrent fetches in a full read.
	ReadParallelism int

	// PollIntervalUnit is the duration of one refresh interval unit.
	PollIntervalUnit time.Duration

	// ShutdownTimeout bounds how long Stop waits for in-flight runs.
	ShutdownTimeout time.Duration

	// HealthPort is the port of the health check server.
	HealthPort int

	// Fetch configures the fetch-and-parse pipeline.
	Fetch scraper.Config
}

// DefaultConfig returns the default worker configuration.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		ReconcileSchedule: "*/1 * * * *",
		Timezone:          "UTC",
		ReadParallelism:   1,
		PollIntervalUnit:  time.Minute,
		ShutdownTimeout:   30 * time.Second,
		HealthPort:        9091,
		Fetch:             scraper.DefaultConfig(),
	}
}

// Validate checks every field and reports all problems at once.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.ReconcileSchedule); err != nil {
		errs = append(errs, fmt.Errorf("reconcile schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidateIntRange(c.ReadParallelism, 1, 16); err != nil {
		errs = append(errs, fmt.Errorf("read parallelism: %w", err))
	}
	if err := config.ValidateDuration(c.PollIntervalUnit, time.Second, time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("poll interval unit: %w", err))
	}
	if err := config.ValidateDuration(c.ShutdownTimeout, time.Second, 10*time.Minute); err != nil {
		errs = append(errs, fmt.Errorf("shutdown timeout: %w", err))
	}
	if err := config.ValidatePort(c.HealthPort); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	if err := c.Fetch.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("fetch: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %w", errors.Join(errs...))
	}
	return nil
}

// LoadConfigFromEnv loads the worker configuration with the fail-open strategy:
// invalid values are replaced by their defaults, logged and counted in metrics.
// The returned configuration always passes Validate.
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()

	var cm *config.ConfigMetrics
	if metrics != nil {
		cm = metrics.ConfigMetrics
	}
	l := config.NewLoader(logger, cm)

	cfg.ReconcileSchedule = l.String("RECONCILE_SCHEDULE", cfg.ReconcileSchedule, config.ValidateCronSchedule)
	cfg.Timezone = l.String("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.ReadParallelism = l.Int("READ_PARALLELISM", cfg.ReadParallelism, func(v int) error {
		return config.ValidateIntRange(v, 1, 16)
	})
	cfg.PollIntervalUnit = l.Duration("POLL_INTERVAL_UNIT", cfg.PollIntervalUnit, func(d time.Duration) error {
		return config.ValidateDuration(d, time.Second, time.Hour)
	})
	cfg.ShutdownTimeout = l.Duration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, time.Second, 10*time.Minute)
	})
	cfg.HealthPort = l.Int("WORKER_HEALTH_PORT", cfg.HealthPort, config.ValidatePort)
	cfg.Fetch = scraper.LoadConfig(l)
	l.Finish()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
