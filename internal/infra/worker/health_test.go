package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func get(t *testing.T, h http.Handler, path string) (int, healthResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	return rec.Code, body
}

func TestHealthServer_Liveness(t *testing.T) {
	h := NewHealthServer(":0", testLogger())

	code, body := get(t, h.Handler(), "/health")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body.Status)
}

func TestHealthServer_Readiness(t *testing.T) {
	h := NewHealthServer(":0", testLogger())
	var dbErr error
	h.AddCheck("registry", func(context.Context) error { return dbErr })
	h.AddCheck("poller", func(context.Context) error { return nil })

	code, body := get(t, h.Handler(), "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, code, "starts not ready")
	assert.Equal(t, "not ready", body.Status)

	h.SetReady(true)
	code, body = get(t, h.Handler(), "/health/ready")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]string{"registry": "ok", "poller": "ok"}, body.Checks)

	dbErr = errors.New("connection refused")
	code, body = get(t, h.Handler(), "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "connection refused", body.Checks["registry"])
}

func TestHealthServer_StartStop(t *testing.T) {
	h := NewHealthServer("127.0.0.1:0", testLogger())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- h.Start(ctx) }()
	cancel()

	assert.ErrorIs(t, <-done, http.ErrServerClosed)
}
