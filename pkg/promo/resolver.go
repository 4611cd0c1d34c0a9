package promo

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/entitlekit/pkg/cache"
	"github.com/dmitrymomot/entitlekit/pkg/logger"
)

const (
	// DecisionCacheKey is the fixed cache key for the resolved promotion.
	// The decision is global, not per-user, so a single key suffices.
	DecisionCacheKey = "active_promo"

	// DefaultDecisionTTL bounds table reads under load. Edits to the
	// promotion table may stay invisible for up to this long; that is the
	// documented staleness budget, not a bug.
	DefaultDecisionTTL = 10 * time.Minute
)

// Decision wraps the scan outcome so "no active promotion" is cacheable too.
type Decision struct {
	Active *Snapshot `json:"active"`
}

// Resolver evaluates the promotion table and caches the outcome.
type Resolver struct {
	source Source
	cache  cache.Cache[Decision]
	ttl    time.Duration
	now    func() time.Time
	log    *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithCache replaces the default in-process decision cache, e.g. with a
// Redis-backed one shared between processes.
func WithCache(c cache.Cache[Decision]) ResolverOption {
	return func(r *Resolver) {
		if c != nil {
			r.cache = c
		}
	}
}

// WithDecisionTTL overrides how long a resolved decision is served from cache.
func WithDecisionTTL(ttl time.Duration) ResolverOption {
	return func(r *Resolver) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) ResolverOption {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

func WithLogger(log *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// NewResolver creates a promotion resolver over the given table source.
// Panics if source is nil to fail fast during initialization.
func NewResolver(source Source, opts ...ResolverOption) *Resolver {
	if source == nil {
		panic("promo: Source is required")
	}

	r := &Resolver{
		source: source,
		cache:  cache.NewTTLCache[Decision](),
		ttl:    DefaultDecisionTTL,
		now:    time.Now,
		log:    logger.Noop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Active returns the currently active promotion, or nil when none is active.
// The outcome, active or not, is cached for the decision TTL so the table is
// read at most once per window under load.
func (r *Resolver) Active(ctx context.Context) (*Snapshot, error) {
	if cached, ok, err := r.cache.Get(ctx, DecisionCacheKey); err == nil && ok {
		return cached.Active, nil
	} else if err != nil {
		// A broken cache backend degrades to a direct table read.
		r.log.WarnContext(ctx, "promo decision cache read failed", slog.Any("error", err))
	}

	windows, err := r.source.Load(ctx)
	if err != nil {
		return nil, err
	}

	snapshot := r.scan(windows)

	if err := r.cache.Set(ctx, DecisionCacheKey, Decision{Active: snapshot}, r.ttl); err != nil {
		r.log.WarnContext(ctx, "promo decision cache write failed", slog.Any("error", err))
	}

	return snapshot, nil
}

// scan walks rows in stored order and returns the first still-active window.
// Row order is the documented tie-break for overlapping windows.
func (r *Resolver) scan(windows []Window) *Snapshot {
	today := dayStart(r.now())

	for _, w := range windows {
		if w.ActiveUntil.IsZero() {
			continue
		}

		// The end date is inclusive through its whole day.
		endOfDay := dayStart(w.ActiveUntil).Add(24 * time.Hour)
		if !endOfDay.After(today) {
			continue
		}

		return &Snapshot{
			HasPromo:          true,
			Type:              w.Type,
			PromoCodeID:       w.PromoCodeID,
			Message:           w.Message,
			ButtonText:        w.ButtonText,
			SalePriceText:     w.SalePriceText,
			OriginalPriceText: w.OriginalPriceText,
			DaysLeft:          int(endOfDay.Sub(today) / (24 * time.Hour)),
		}
	}
	return nil
}

// dayStart strips the time of day; promotion comparisons are day-granular.
func dayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
