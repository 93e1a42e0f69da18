package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name         string
		checks       map[string]Check
		wantCode     int
		wantStatus   string
		wantUnhealth []string
	}{
		{
			name:       "no checks",
			wantCode:   http.StatusOK,
			wantStatus: "healthy",
		},
		{
			name: "all healthy",
			checks: map[string]Check{
				"registry": func(context.Context) error { return nil },
			},
			wantCode:   http.StatusOK,
			wantStatus: "healthy",
		},
		{
			name: "one failing",
			checks: map[string]Check{
				"registry": func(context.Context) error { return nil },
				"database": func(context.Context) error {
					return errors.New("dial postgres://feeds:secret@db/feeds: refused")
				},
			},
			wantCode:     http.StatusServiceUnavailable,
			wantStatus:   "unhealthy",
			wantUnhealth: []string{"database"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler("test-version", nil)
			for name, c := range tt.checks {
				h.AddCheck(name, c)
			}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			var resp HealthResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, "test-version", resp.Version)
			assert.Len(t, resp.Checks, len(tt.checks))
			for _, name := range tt.wantUnhealth {
				assert.Equal(t, "unhealthy", resp.Checks[name].Status)
				assert.NotContains(t, resp.Checks[name].Message, "secret")
			}
		})
	}
}

func TestHealthHandler_DatabasePing(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(sqlmock.Sqlmock)
		wantCode  int
	}{
		{"reachable", func(m sqlmock.Sqlmock) { m.ExpectPing() }, http.StatusOK},
		{"unreachable", func(m sqlmock.Sqlmock) { m.ExpectPing().WillReturnError(sql.ErrConnDone) }, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
			require.NoError(t, err)
			defer func() { _ = db.Close() }()
			tt.setupMock(mock)

			h := NewHealthHandler("v", nil)
			h.AddCheck("database", db.PingContext)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
