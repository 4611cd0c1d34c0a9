package client

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dmitrymomot/entitlekit/pkg/entitlement"
	"github.com/dmitrymomot/entitlekit/pkg/ledger"
	"github.com/dmitrymomot/entitlekit/pkg/logger"
)

// DefaultEntryTTL is how long a locally cached PAID decision is honored.
const DefaultEntryTTL = 24 * time.Hour

// RemoteResolver fetches a fresh entitlement decision from the backend.
type RemoteResolver interface {
	Resolve(ctx context.Context, accessToken string) (entitlement.Decision, error)
}

// StatusClient answers "is this user premium" on the client side. It trusts
// the local entry only under a compound gate and otherwise calls the backend
// with bounded retries, degrading to the last known decision rather than
// failing the UI.
type StatusClient struct {
	remote      RemoteResolver
	store       Store
	entryTTL    time.Duration
	maxAttempts int
	backoff     BackoffStrategy
	clock       func() time.Time
	sleep       func(context.Context, time.Duration) error
	log         *slog.Logger
}

// StatusOption configures the StatusClient.
type StatusOption func(*StatusClient)

// WithEntryTTL overrides how long a cached PAID entry is honored.
func WithEntryTTL(ttl time.Duration) StatusOption {
	return func(c *StatusClient) {
		if ttl > 0 {
			c.entryTTL = ttl
		}
	}
}

// WithMaxAttempts bounds remote calls per Status invocation, retries included.
func WithMaxAttempts(n int) StatusOption {
	return func(c *StatusClient) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithBackoff replaces the retry delay strategy.
func WithBackoff(strategy BackoffStrategy) StatusOption {
	return func(c *StatusClient) {
		if strategy != nil {
			c.backoff = strategy
		}
	}
}

// WithClock overrides the time source. Used in tests.
func WithClock(clock func() time.Time) StatusOption {
	return func(c *StatusClient) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithLogger sets the logger for fallback and retry events.
func WithLogger(log *slog.Logger) StatusOption {
	return func(c *StatusClient) {
		if log != nil {
			c.log = log
		}
	}
}

// NewStatusClient creates a client-side status gate. Panics if remote or
// store is nil.
func NewStatusClient(remote RemoteResolver, store Store, opts ...StatusOption) *StatusClient {
	if remote == nil {
		panic("client: remote resolver is required")
	}
	if store == nil {
		panic("client: store is required")
	}

	c := &StatusClient{
		remote:      remote,
		store:       store,
		entryTTL:    DefaultEntryTTL,
		maxAttempts: 3,
		backoff:     DefaultBackoffStrategy(),
		clock:       time.Now,
		sleep:       sleepCtx,
		log:         logger.Noop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Status resolves the entitlement decision for the signed-in identity.
//
// The locally cached entry is honored only when all of these hold: its email
// matches, its status is PAID, it is younger than the TTL, and no payment is
// pending. Any disqualifier forces a remote resolution. A remote failure
// falls back to the last cached decision for this email, else not_premium;
// the caller always gets a renderable decision.
func (c *StatusClient) Status(ctx context.Context, email, accessToken string) (entitlement.Decision, error) {
	email = ledger.NormalizeEmail(email)
	if email == "" {
		return entitlement.NotPremium(), ErrMissingEmail
	}

	pending, err := c.store.PendingPayment(ctx)
	if err != nil {
		pending = PendingNone
		c.log.WarnContext(ctx, "pending flag unreadable, treating as none", "error", err)
	}

	entry, ok, err := c.store.LoadEntry(ctx)
	if err != nil {
		ok = false
		c.log.WarnContext(ctx, "local entry unreadable", "error", err)
	}

	if ok && c.entryTrusted(entry, email, pending) {
		return entitlement.Decision{Status: entitlement.StatusPaid}, nil
	}

	decision, err := c.resolveRemote(ctx, accessToken)
	if err != nil {
		if errors.Is(err, ErrUnauthenticated) {
			// An invalid token must surface as signed-out, never as a
			// cached "paid".
			return entitlement.NotPremium(), err
		}
		return c.fallback(ctx, entry, ok, email, err), nil
	}

	if decision.Status == entitlement.StatusPaid {
		if err := c.store.SaveEntry(ctx, Entry{Email: email, Status: decision.Status, CachedAt: c.clock()}); err != nil {
			c.log.WarnContext(ctx, "failed to persist status entry", "error", err)
		}
		if pending == PendingPayment {
			if err := c.store.SetPendingPayment(ctx, PendingCompleted); err != nil {
				c.log.WarnContext(ctx, "failed to clear pending flag", "error", err)
			}
		}
	}

	// While a payment is pending the promo UI stays hidden: offering a
	// discount to someone who just paid is worse than a short delay.
	if pending == PendingPayment && decision.Status != entitlement.StatusPaid {
		decision.Promo = nil
	}

	return decision, nil
}

// MarkCheckoutStarted records that a checkout was initiated; until the
// payment is confirmed, the local cache is distrusted.
func (c *StatusClient) MarkCheckoutStarted(ctx context.Context) error {
	return c.store.SetPendingPayment(ctx, PendingPayment)
}

func (c *StatusClient) entryTrusted(entry Entry, email string, pending PendingState) bool {
	if pending == PendingPayment {
		return false
	}
	if ledger.NormalizeEmail(entry.Email) != email {
		return false
	}
	if entry.Status != entitlement.StatusPaid {
		return false
	}
	return c.clock().Sub(entry.CachedAt) < c.entryTTL
}

func (c *StatusClient) resolveRemote(ctx context.Context, accessToken string) (entitlement.Decision, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		decision, err := c.remote.Resolve(ctx, accessToken)
		if err == nil {
			return decision, nil
		}
		if errors.Is(err, ErrUnauthenticated) {
			return entitlement.NotPremium(), err
		}
		lastErr = err

		if attempt < c.maxAttempts {
			c.log.DebugContext(ctx, "status call failed, retrying",
				"attempt", attempt, "error", err)
			if err := c.sleep(ctx, c.backoff.NextInterval(attempt)); err != nil {
				return entitlement.NotPremium(), lastErr
			}
		}
	}
	return entitlement.NotPremium(), lastErr
}

func (c *StatusClient) fallback(ctx context.Context, entry Entry, ok bool, email string, cause error) entitlement.Decision {
	if ok && ledger.NormalizeEmail(entry.Email) == email {
		c.log.WarnContext(ctx, "status endpoint unreachable, serving last known decision",
			"status", entry.Status, "error", cause)
		return entitlement.Decision{Status: entry.Status}
	}
	c.log.WarnContext(ctx, "status endpoint unreachable, defaulting to not_premium", "error", cause)
	return entitlement.NotPremium()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
