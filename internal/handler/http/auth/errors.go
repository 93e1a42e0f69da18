// Package auth implements JWT (HS256) bearer authentication with two roles:
// admin may call every endpoint, viewer may only read sources and feeds.
package auth

import "errors"

var (
	// ErrInvalidCredentials is returned when a username/password pair does not match a configured user.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrMissingToken indicates a request without an Authorization: Bearer header.
	ErrMissingToken = errors.New("missing bearer token")

	// ErrInvalidToken covers bad signatures, unexpected algorithms, expired tokens and bad claims.
	ErrInvalidToken = errors.New("invalid token")
)
