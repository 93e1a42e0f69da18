// Package feed serves parsed feeds and keyword search over HTTP.
package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"feed-aggregator/internal/domain/entity"
	"feed-aggregator/internal/handler/http/respond"
)

// Reader reads registered feeds.
type Reader interface {
	ReadOne(ctx context.Context, uri *url.URL) (*entity.Channel, error)
	ReadAll(ctx context.Context) ([]*entity.Channel, error)
	Search(ctx context.Context, keyphrase string) ([]*entity.Item, error)
}

// Register mounts the feed routes on mux. searchLimit wraps the search route; it may be nil.
func Register(mux *http.ServeMux, reader Reader, searchLimit func(http.Handler) http.Handler) {
	mux.Handle("GET /feeds", ListHandler{reader})
	mux.Handle("GET /feeds/one", GetHandler{reader})

	var search http.Handler = SearchHandler{reader}
	if searchLimit != nil {
		search = searchLimit(search)
	}
	mux.Handle("GET /feeds/search", search)
}

// ListHandler serves GET /feeds: every registered feed, in registry order.
type ListHandler struct{ Reader Reader }

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	channels, err := h.Reader.ReadAll(r.Context())
	if err != nil {
		respond.DomainError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toChannelDTOs(channels))
}

// GetHandler serves GET /feeds/one?url=.
type GetHandler struct{ Reader Reader }

func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var uri *url.URL
	if raw := r.URL.Query().Get("url"); raw != "" {
		parsed, err := url.Parse(raw)
		if err != nil {
			respond.SafeError(w, http.StatusBadRequest, fmt.Errorf("invalid url query parameter"))
			return
		}
		uri = parsed
	}
	ch, err := h.Reader.ReadOne(r.Context(), uri)
	if err != nil {
		respond.DomainError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toChannelDTO(ch))
}

// SearchHandler serves GET /feeds/search?q=.
type SearchHandler struct{ Reader Reader }

func (h SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	items, err := h.Reader.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respond.DomainError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toItemDTOs(items))
}
