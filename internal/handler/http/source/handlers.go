// Package source serves the source registry over HTTP.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"feed-aggregator/internal/domain/entity"
	"feed-aggregator/internal/handler/http/respond"
)

// Registry is the part of the source registry the handlers use.
type Registry interface {
	GetAll(ctx context.Context) ([]*entity.Source, error)
	Get(ctx context.Context, uriText string) (*entity.Source, error)
	AddOrUpdate(ctx context.Context, src *entity.Source) (bool, error)
	Delete(ctx context.Context, uriText string) error
}

// Register mounts the source routes on mux.
func Register(mux *http.ServeMux, reg Registry) {
	mux.Handle("GET /sources", ListHandler{reg})
	mux.Handle("GET /sources/one", GetHandler{reg})
	mux.Handle("PUT /sources", UpsertHandler{reg})
	mux.Handle("DELETE /sources", DeleteHandler{reg})
}

// ListHandler serves GET /sources.
type ListHandler struct{ Reg Registry }

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	list, err := h.Reg.GetAll(r.Context())
	if err != nil {
		respond.DomainError(w, err)
		return
	}
	out := make([]DTO, 0, len(list))
	for _, src := range list {
		out = append(out, toDTO(src))
	}
	respond.JSON(w, http.StatusOK, out)
}

// GetHandler serves GET /sources/one?url=.
type GetHandler struct{ Reg Registry }

func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("url")
	if raw == "" {
		respond.SafeError(w, http.StatusBadRequest, fmt.Errorf("url query parameter is required"))
		return
	}
	src, err := h.Reg.Get(r.Context(), raw)
	if err != nil {
		respond.DomainError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(src))
}

// UpsertHandler serves PUT /sources. It answers 201 when the source is new and 200
// when an existing entry was replaced.
type UpsertHandler struct{ Reg Registry }

func (h UpsertHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body"))
		return
	}
	if req.URL == "" {
		respond.SafeError(w, http.StatusBadRequest, fmt.Errorf("url is required"))
		return
	}
	interval := entity.DefaultRefreshIntervalMinutes
	if req.RefreshIntervalMinutes != nil {
		interval = *req.RefreshIntervalMinutes
	}

	src, err := entity.NewSource(req.URL, interval)
	if err != nil {
		respond.DomainError(w, err)
		return
	}
	created, err := h.Reg.AddOrUpdate(r.Context(), src)
	if err != nil {
		respond.DomainError(w, err)
		return
	}

	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	respond.JSON(w, code, toDTO(src))
}

// DeleteHandler serves DELETE /sources?url=.
type DeleteHandler struct{ Reg Registry }

func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.Reg.Delete(r.Context(), r.URL.Query().Get("url")); err != nil {
		respond.DomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
