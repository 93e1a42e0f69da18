package http

import (
	"context"
	"log/slog"
	"maps"
	"net/http"
	"slices"
	"sync"
	"time"

	"feed-aggregator/internal/handler/http/respond"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus is the result of one named check.
type CheckStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Check probes one dependency; a nil error means healthy.
type Check func(ctx context.Context) error

// HealthHandler runs every registered check concurrently and reports 503 if any fails.
// The same handler serves GET /health and GET /health/ready.
type HealthHandler struct {
	Version string
	Timeout time.Duration
	Logger  *slog.Logger

	mu     sync.RWMutex
	checks map[string]Check
}

// NewHealthHandler returns a handler with no checks.
func NewHealthHandler(version string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		Version: version,
		Timeout: 5 * time.Second,
		Logger:  logger,
		checks:  make(map[string]Check),
	}
}

// AddCheck registers check under name, replacing any check with the same name.
func (h *HealthHandler) AddCheck(name string, check Check) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	h.mu.RLock()
	checks := maps.Clone(h.checks)
	h.mu.RUnlock()

	results := make(map[string]CheckStatus, len(checks))
	var (
		wg  sync.WaitGroup
		rmu sync.Mutex
	)
	for _, name := range slices.Sorted(maps.Keys(checks)) {
		wg.Go(func() {
			status := CheckStatus{Status: statusHealthy}
			if err := checks[name](ctx); err != nil {
				status = CheckStatus{Status: statusUnhealthy, Message: respond.SanitizeError(err)}
				if h.Logger != nil {
					h.Logger.Warn("health check failed",
						slog.String("check", name),
						slog.String("error", status.Message))
				}
			}
			rmu.Lock()
			results[name] = status
			rmu.Unlock()
		})
	}
	wg.Wait()

	resp := HealthResponse{
		Status:    statusHealthy,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    results,
		Version:   h.Version,
	}
	code := http.StatusOK
	for _, c := range results {
		if c.Status != statusHealthy {
			resp.Status = statusUnhealthy
			code = http.StatusServiceUnavailable
			break
		}
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, code, resp)
}
