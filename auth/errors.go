package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrTokenInvalid       = errors.New("auth: invalid token")
	ErrTokenExpired       = errors.New("auth: token expired")
	ErrTokenRevoked       = errors.New("auth: token revoked")

	// ErrRevocationUnavailable marks a revocation-store failure. The request
	// authenticator treats it as an authentication failure: assuming "not
	// revoked" when the store is down would defeat revocation entirely.
	ErrRevocationUnavailable = errors.New("auth: revocation store unavailable")
)
