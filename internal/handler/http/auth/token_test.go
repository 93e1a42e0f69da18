package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenHandler(t *testing.T) {
	users := NewUsers(
		User{Name: "admin@example.com", Password: "admin-secret-pass", Role: RoleAdmin},
		User{Name: "viewer@example.com", Password: "viewer-secret-pass", Role: RoleViewer},
	)
	h := TokenHandler(users, testSecret, DefaultTokenTTL)

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantRole string
	}{
		{"admin", `{"username":"admin@example.com","password":"admin-secret-pass"}`, http.StatusOK, RoleAdmin},
		{"viewer", `{"username":"viewer@example.com","password":"viewer-secret-pass"}`, http.StatusOK, RoleViewer},
		{"bad password", `{"username":"admin@example.com","password":"nope"}`, http.StatusUnauthorized, ""},
		{"malformed body", `{"username":`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, tt.wantCode, rec.Code)
			if tt.wantRole == "" {
				return
			}

			var resp tokenResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.WithinDuration(t, time.Now().Add(DefaultTokenTTL), resp.ExpiresAt, time.Minute)

			claims, err := ValidateToken("Bearer "+resp.Token, testSecret)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, claims.Role)
		})
	}
}

func TestIssueToken(t *testing.T) {
	now := time.Now()
	token, err := IssueToken(testSecret, "admin@example.com", RoleAdmin, time.Hour, now)
	require.NoError(t, err)

	claims, err := ValidateToken("Bearer "+token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Subject)
	assert.Equal(t, now.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
}
