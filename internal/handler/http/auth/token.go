package auth

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"feed-aggregator/internal/handler/http/requestid"
	"feed-aggregator/internal/handler/http/respond"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is how long issued tokens stay valid.
const DefaultTokenTTL = time.Hour

// Claims are the JWT claims issued and accepted by this package.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IssueToken signs an HS256 token for subject with the given role.
func IssueToken(secret []byte, subject, role string, ttl time.Duration, now time.Time) (string, error) {
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// TokenHandler exchanges a username and password for a bearer token (POST /auth/token).
func TokenHandler(users *Users, secret []byte, ttl time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger := slog.With(slog.String("request_id", requestid.FromContext(r.Context())))

		fail := func(role, outcome string, code int, err error) {
			logger.Warn("authentication failed",
				slog.String("reason", outcome),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()))
			RecordTokenRequest(role, outcome, time.Since(start))
			respond.SafeError(w, code, err)
		}

		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			fail("unknown", outcomeInvalidRequest, http.StatusBadRequest, fmt.Errorf("invalid request body"))
			return
		}

		role, err := users.Authenticate(req.Username, req.Password)
		if err != nil {
			fail("unknown", outcomeInvalidCredentials, http.StatusUnauthorized, fmt.Errorf("unauthorized: %w", err))
			return
		}

		expiresAt := start.Add(ttl)
		signed, err := IssueToken(secret, req.Username, role, ttl, start)
		if err != nil {
			fail(role, outcomeSigningFailed, http.StatusInternalServerError, err)
			return
		}

		logger.Info("authentication successful",
			slog.String("user", req.Username),
			slog.String("role", role),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()))
		RecordTokenRequest(role, outcomeIssued, time.Since(start))

		respond.JSON(w, http.StatusOK, tokenResponse{Token: signed, ExpiresAt: expiresAt.UTC()})
	}
}
