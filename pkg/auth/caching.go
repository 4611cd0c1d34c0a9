package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/dmitrymomot/entitlekit/pkg/cache"
)

// DefaultVerifyTTL bounds how long a verified identity is served without a
// fresh provider round-trip. Short on purpose: a revoked token stays usable
// for at most this window.
const DefaultVerifyTTL = 5 * time.Minute

// CachingVerifier wraps a TokenVerifier with a short-lived cache keyed by a
// hash of the token. Only successful verifications are cached; failures
// always hit the provider again.
type CachingVerifier struct {
	inner TokenVerifier
	cache cache.Cache[Identity]
	ttl   time.Duration
}

// NewCachingVerifier wraps inner with the given cache. Panics if either is nil.
func NewCachingVerifier(inner TokenVerifier, c cache.Cache[Identity], ttl time.Duration) *CachingVerifier {
	if inner == nil {
		panic("auth: inner verifier is required")
	}
	if c == nil {
		panic("auth: cache is required")
	}
	if ttl <= 0 {
		ttl = DefaultVerifyTTL
	}
	return &CachingVerifier{inner: inner, cache: c, ttl: ttl}
}

func (v *CachingVerifier) Verify(ctx context.Context, accessToken string) (Identity, error) {
	if accessToken == "" {
		return Identity{}, ErrUnauthenticated
	}

	// Raw tokens never become cache keys.
	sum := sha256.Sum256([]byte(accessToken))
	key := "token_" + hex.EncodeToString(sum[:])

	if identity, ok, err := v.cache.Get(ctx, key); err == nil && ok {
		return identity, nil
	}

	identity, err := v.inner.Verify(ctx, accessToken)
	if err != nil {
		return Identity{}, err
	}

	// Cache write failures are invisible to the caller; the next request
	// simply verifies again.
	_ = v.cache.Set(ctx, key, identity, v.ttl)
	return identity, nil
}

var _ TokenVerifier = (*CachingVerifier)(nil)
