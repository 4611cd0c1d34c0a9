package client

import "errors"

var (
	// ErrRemoteUnavailable wraps transport failures reaching the status endpoint.
	ErrRemoteUnavailable = errors.New("client: status endpoint unavailable")

	// ErrUnauthenticated is returned when the status endpoint rejects the token.
	// Never retried and never masked by the cached fallback.
	ErrUnauthenticated = errors.New("client: unauthenticated")

	// ErrMissingEmail is returned when Status is called without an identity email.
	ErrMissingEmail = errors.New("client: missing email")
)
