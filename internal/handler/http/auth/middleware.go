package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"feed-aggregator/internal/handler/http/respond"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey string

const ctxClaims ctxKey = "claims"

// FromContext returns the claims of the authenticated caller.
func FromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(ctxClaims).(*Claims)
	return c, ok
}

// Authz authenticates bearer tokens signed with secret and enforces RolePermissions.
// Public endpoints pass through untouched.
func Authz(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IsPublicEndpoint(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			claims, err := ValidateToken(r.Header.Get("Authorization"), secret)
			if err != nil {
				RecordAuthzDecision("none", r.Method, decisionUnauthenticated, time.Since(start))
				respond.SafeError(w, http.StatusUnauthorized, fmt.Errorf("unauthorized: %w", err))
				return
			}

			if !checkRolePermission(claims.Role, r.Method, r.URL.Path) {
				RecordAuthzDecision(claims.Role, r.Method, decisionForbidden, time.Since(start))
				respond.SafeError(w, http.StatusForbidden, errors.New("forbidden"))
				return
			}
			RecordAuthzDecision(claims.Role, r.Method, decisionAllowed, time.Since(start))

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxClaims, claims)))
		})
	}
}

// ValidateToken parses an "Authorization: Bearer <token>" header value.
func ValidateToken(authz string, secret []byte) (*Claims, error) {
	tokenString, ok := strings.CutPrefix(authz, "Bearer ")
	if !ok || tokenString == "" {
		return nil, ErrMissingToken
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" || !ValidRole(claims.Role) {
		return nil, fmt.Errorf("%w: bad subject or role", ErrInvalidToken)
	}
	return claims, nil
}
