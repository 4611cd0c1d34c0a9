package auth

import "errors"

var (
	// ErrUnauthenticated is returned for missing, invalid, expired, or
	// unverified credentials. The caller cannot distinguish which; the
	// provider response is logged, not surfaced.
	ErrUnauthenticated = errors.New("auth: unauthenticated")

	// ErrProviderUnavailable wraps transport failures reaching the identity provider.
	ErrProviderUnavailable = errors.New("auth: identity provider unavailable")
)
