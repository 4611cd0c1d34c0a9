package auth

import "context"

// Identity is a verified user identity. Email is the only field the rest of
// the system keys on; the others are carried for logging.
type Identity struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name,omitempty"`
}

// TokenVerifier validates a bearer access token with the identity provider
// and returns the identity it belongs to. The token is never trusted as-is;
// every verification round-trips to the provider unless a caching layer sits
// in front.
type TokenVerifier interface {
	Verify(ctx context.Context, accessToken string) (Identity, error)
}
