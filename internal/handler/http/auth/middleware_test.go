package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret-key-at-least-32-characters-long")

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, ok := FromContext(r.Context()); ok {
			w.Header().Set("X-Subject", c.Subject)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func mustToken(t *testing.T, role string, ttl time.Duration) string {
	t.Helper()
	token, err := IssueToken(testSecret, role+"@example.com", role, ttl, time.Now())
	require.NoError(t, err)
	return token
}

func TestAuthz(t *testing.T) {
	admin := mustToken(t, RoleAdmin, time.Hour)
	viewer := mustToken(t, RoleViewer, time.Hour)
	expired := mustToken(t, RoleAdmin, -time.Minute)
	foreign, err := IssueToken([]byte("another-secret-another-secret-1234"), "x", RoleAdmin, time.Hour, time.Now())
	require.NoError(t, err)

	tests := []struct {
		name     string
		method   string
		path     string
		header   string
		wantCode int
	}{
		{"public without token", http.MethodGet, "/health", "", http.StatusOK},
		{"missing token", http.MethodGet, "/sources", "", http.StatusUnauthorized},
		{"not bearer", http.MethodGet, "/sources", "Basic YWRtaW46cGFzcw==", http.StatusUnauthorized},
		{"garbage token", http.MethodGet, "/sources", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"expired token", http.MethodGet, "/sources", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong secret", http.MethodGet, "/sources", "Bearer " + foreign, http.StatusUnauthorized},
		{"admin mutates", http.MethodPut, "/sources", "Bearer " + admin, http.StatusOK},
		{"admin polls", http.MethodPost, "/polling/start", "Bearer " + admin, http.StatusOK},
		{"viewer reads", http.MethodGet, "/feeds/search", "Bearer " + viewer, http.StatusOK},
		{"viewer mutates", http.MethodDelete, "/sources", "Bearer " + viewer, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			Authz(testSecret)(okHandler()).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestAuthz_StoresClaims(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/sources", nil)
	req.Header.Set("Authorization", "Bearer "+mustToken(t, RoleViewer, time.Hour))
	rec := httptest.NewRecorder()

	Authz(testSecret)(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, "viewer@example.com", rec.Header().Get("X-Subject"))
}

func TestValidateToken_RejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin@example.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tests := []struct {
		name   string
		method jwt.SigningMethod
		key    any
	}{
		{"none", jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType},
		{"HS512", jwt.SigningMethodHS512, testSecret},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signed, err := jwt.NewWithClaims(tt.method, claims).SignedString(tt.key)
			require.NoError(t, err)

			_, err = ValidateToken("Bearer "+signed, testSecret)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestValidateToken_RequiresKnownRoleAndExpiry(t *testing.T) {
	tests := []struct {
		name   string
		claims Claims
	}{
		{
			name: "unknown role",
			claims: Claims{Role: "root", RegisteredClaims: jwt.RegisteredClaims{
				Subject: "a", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			}},
		},
		{
			name:   "no expiry",
			claims: Claims{Role: RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{Subject: "a"}},
		},
		{
			name: "no subject",
			claims: Claims{Role: RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tt.claims).SignedString(testSecret)
			require.NoError(t, err)

			_, err = ValidateToken("Bearer "+signed, testSecret)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestValidateToken_Missing(t *testing.T) {
	_, err := ValidateToken("", testSecret)
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = ValidateToken("Bearer ", testSecret)
	assert.ErrorIs(t, err, ErrMissingToken)
}
