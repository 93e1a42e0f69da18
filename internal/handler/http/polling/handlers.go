// Package polling exposes the poller's lifecycle over HTTP.
package polling

import (
	"context"
	"net/http"
	"time"

	"feed-aggregator/internal/domain/entity"
	"feed-aggregator/internal/handler/http/respond"
)

// Poller is the part of the poller the handlers control.
type Poller interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Running() bool
	Scheduled() []*entity.Source
}

// StatusDTO is the body of every polling response.
type StatusDTO struct {
	Running   bool           `json:"running"`
	Scheduled []ScheduledDTO `json:"scheduled"`
}

// ScheduledDTO is one scheduled source.
type ScheduledDTO struct {
	URL                    string `json:"url"`
	RefreshIntervalMinutes int    `json:"refreshIntervalMinutes"`
}

// Register mounts the polling routes on mux. stopTimeout bounds how long
// POST /polling/stop waits for in-flight runs.
func Register(mux *http.ServeMux, p Poller, stopTimeout time.Duration) {
	mux.Handle("GET /polling", StatusHandler{p})
	mux.Handle("POST /polling/start", StartHandler{p})
	mux.Handle("POST /polling/stop", StopHandler{Poller: p, Timeout: stopTimeout})
}

func status(p Poller) StatusDTO {
	scheduled := p.Scheduled()
	out := StatusDTO{Running: p.Running(), Scheduled: make([]ScheduledDTO, 0, len(scheduled))}
	for _, src := range scheduled {
		out.Scheduled = append(out.Scheduled, ScheduledDTO{
			URL:                    src.URI.String(),
			RefreshIntervalMinutes: src.RefreshIntervalMinutes,
		})
	}
	return out
}

// StatusHandler serves GET /polling.
type StatusHandler struct{ Poller Poller }

func (h StatusHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, status(h.Poller))
}

// StartHandler serves POST /polling/start: 202 once every source is scheduled,
// 409 if polling is already running.
type StartHandler struct{ Poller Poller }

func (h StartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.Poller.Start(r.Context()); err != nil {
		respond.DomainError(w, err)
		return
	}
	respond.JSON(w, http.StatusAccepted, status(h.Poller))
}

// StopHandler serves POST /polling/stop. Stopping a stopped poller is not an error.
type StopHandler struct {
	Poller  Poller
	Timeout time.Duration
}

func (h StopHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}
	if err := h.Poller.Stop(ctx); err != nil {
		respond.DomainError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, status(h.Poller))
}
