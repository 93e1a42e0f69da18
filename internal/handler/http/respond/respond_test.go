package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body ErrorBody
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body.Error
}

func TestJSON(t *testing.T) {
	tests := []struct {
		name         string
		code         int
		data         any
		expectedBody string
	}{
		{name: "map", code: http.StatusOK, data: map[string]string{"message": "success"}, expectedBody: `{"message":"success"}`},
		{name: "struct", code: http.StatusCreated, data: struct{ ID int }{ID: 123}, expectedBody: `{"ID":123}`},
		{name: "nil", code: http.StatusNoContent, data: nil, expectedBody: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			JSON(w, tt.code, tt.data)

			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Equal(t, tt.expectedBody, strings.TrimSpace(w.Body.String()))
		})
	}
}

func TestError(t *testing.T) {
	w := httptest.NewRecorder()
	Error(w, http.StatusBadRequest, errors.New("bad request"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "bad request", decodeError(t, w))
}

func TestSafeError(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		err     error
		wantMsg string
	}{
		{
			name:    "validation message is returned",
			code:    http.StatusBadRequest,
			err:     errors.New("url is required"),
			wantMsg: "url is required",
		},
		{
			name:    "not found is returned",
			code:    http.StatusNotFound,
			err:     errors.New("source not found"),
			wantMsg: "source not found",
		},
		{
			name:    "unknown message is hidden",
			code:    http.StatusBadRequest,
			err:     errors.New("pq: relation feed_sources does not exist"),
			wantMsg: "internal server error",
		},
		{
			name:    "5xx is always hidden",
			code:    http.StatusInternalServerError,
			err:     errors.New("invalid connection string"),
			wantMsg: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			SafeError(w, tt.code, tt.err)

			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, tt.wantMsg, decodeError(t, w))
		})
	}
}

func TestSafeError_NilWritesNothing(t *testing.T) {
	w := httptest.NewRecorder()
	SafeError(w, http.StatusBadRequest, nil)

	assert.Equal(t, 0, w.Body.Len())
	assert.Empty(t, w.Header().Get("Content-Type"))
}

func TestSafeError_WrappedValidationError(t *testing.T) {
	w := httptest.NewRecorder()
	SafeError(w, http.StatusBadRequest, fmt.Errorf("decode body: %w", errors.New("invalid JSON")))

	assert.Equal(t, "decode body: invalid JSON", decodeError(t, w))
}
