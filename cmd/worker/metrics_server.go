package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"feed-aggregator/internal/pkg/config"
	"feed-aggregator/internal/usecase/poll"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PollerStatus is the body of GET /health/poller.
type PollerStatus struct {
	Running   bool              `json:"running"`
	Scheduled []ScheduledSource `json:"scheduled"`
}

// ScheduledSource is one source the poller currently has a schedule for.
type ScheduledSource struct {
	URL                    string `json:"url"`
	RefreshIntervalMinutes int    `json:"refreshIntervalMinutes"`
}

// runMetricsServer serves Prometheus metrics until ctx is cancelled.
//
// Endpoints:
//   - GET /metrics - Prometheus metrics
//   - GET /health/poller - running flag and scheduled sources
//
// Environment variables:
//   - METRICS_PORT: port to listen on (default: 9090)
func runMetricsServer(ctx context.Context, logger *slog.Logger, poller *poll.Poller) error {
	port := config.NewLoader(logger, nil).Int("METRICS_PORT", 9090, config.ValidatePort)

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /health/poller", pollerStatusHandler(poller))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics server starting", slog.Int("port", port))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown error", slog.Any("error", err))
		return err
	}
	logger.Info("metrics server stopped")
	return nil
}

func pollerStatusHandler(poller *poll.Poller) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		scheduled := poller.Scheduled()
		status := PollerStatus{
			Running:   poller.Running(),
			Scheduled: make([]ScheduledSource, 0, len(scheduled)),
		}
		for _, src := range scheduled {
			status.Scheduled = append(status.Scheduled, ScheduledSource{
				URL:                    src.URI.String(),
				RefreshIntervalMinutes: src.RefreshIntervalMinutes,
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(status)
	}
}
