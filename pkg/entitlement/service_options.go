package entitlement

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/entitlekit/pkg/cache"
)

// Option configures the entitlement service.
type Option func(*service)

// WithPaidSetCache replaces the default in-process paid-set cache, e.g. with
// a Redis-backed one shared between processes. The cached value is the list
// of paid emails.
func WithPaidSetCache(c cache.Cache[[]string]) Option {
	return func(s *service) {
		if c != nil {
			s.paidCache = c
		}
	}
}

// WithPaidSetTTL overrides how long the paid set may be served from cache.
func WithPaidSetTTL(ttl time.Duration) Option {
	return func(s *service) {
		if ttl > 0 {
			s.paidSetTTL = ttl
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(s *service) {
		if log != nil {
			s.log = log
		}
	}
}
