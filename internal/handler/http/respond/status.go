package respond

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"feed-aggregator/internal/domain/entity"
	"feed-aggregator/internal/usecase/poll"
	"feed-aggregator/internal/usecase/reader"
	srcUC "feed-aggregator/internal/usecase/source"
)

type errorKind struct {
	target error
	code   int
	// detail controls whether the full message is returned; otherwise only the
	// kind's own text is, and the cause is logged.
	detail bool
}

// First match wins.
var errorKinds = []errorKind{
	{reader.ErrInvalidArgument, http.StatusBadRequest, true},
	{reader.ErrInvalidSource, http.StatusUnprocessableEntity, false},
	{reader.ErrUnreadableSource, http.StatusBadGateway, false},
	{reader.ErrNoSourcesConfigured, http.StatusConflict, false},
	{poll.ErrAlreadyRunning, http.StatusConflict, false},
	{srcUC.ErrSourceNotFound, http.StatusNotFound, true},
	{entity.ErrNotFound, http.StatusNotFound, true},
	{entity.ErrInvalidInput, http.StatusBadRequest, true},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, false},
}

// StatusFor maps a use case error to its HTTP status code.
// Unknown errors map to 500.
func StatusFor(err error) int {
	for _, k := range errorKinds {
		if errors.Is(err, k.target) {
			return k.code
		}
	}
	return http.StatusInternalServerError
}

// DomainError writes err with the status its kind maps to.
func DomainError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	for _, k := range errorKinds {
		if !errors.Is(err, k.target) {
			continue
		}
		if k.detail {
			JSON(w, k.code, ErrorBody{Error: SanitizeError(err)})
			return
		}
		slog.Default().Warn("request failed",
			slog.Int("code", k.code),
			slog.String("error", SanitizeError(err)))
		JSON(w, k.code, ErrorBody{Error: k.target.Error()})
		return
	}
	SafeError(w, http.StatusInternalServerError, err)
}
