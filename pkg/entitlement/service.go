package entitlement

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/entitlekit/pkg/cache"
	"github.com/dmitrymomot/entitlekit/pkg/ledger"
	"github.com/dmitrymomot/entitlekit/pkg/logger"
	"github.com/dmitrymomot/entitlekit/pkg/promo"
)

const (
	// PaidSetCacheKey is the fixed key under which the paid-email set is
	// cached. The set is global, so one key covers every resolution.
	PaidSetCacheKey = "paid_emails"

	// DefaultPaidSetTTL is how long the paid set may be served from cache.
	// The webhook path deletes the entry the instant a payment lands, so the
	// TTL only bounds drift from out-of-band ledger edits.
	DefaultPaidSetTTL = time.Hour
)

// Service resolves entitlement decisions for verified emails.
type Service interface {
	// Resolve returns the decision for the email. An email absent from the
	// ledger is a normal outcome, not an error.
	Resolve(ctx context.Context, email string) (Decision, error)

	// InvalidatePaidSet removes the cached paid set so the next Resolve
	// re-reads the ledger. Called by the webhook ingestor after an append.
	InvalidatePaidSet(ctx context.Context) error
}

type service struct {
	store      ledger.Store
	promos     *promo.Resolver
	paidCache  cache.Cache[[]string]
	paidSetTTL time.Duration
	log        *slog.Logger
}

// NewService creates an entitlement resolver.
// Panics if store or promos is nil to fail fast during initialization.
func NewService(store ledger.Store, promos *promo.Resolver, opts ...Option) Service {
	if store == nil {
		panic("entitlement: ledger.Store is required")
	}
	if promos == nil {
		panic("entitlement: promo.Resolver is required")
	}

	s := &service{
		store:      store,
		promos:     promos,
		paidCache:  cache.NewTTLCache[[]string](),
		paidSetTTL: DefaultPaidSetTTL,
		log:        logger.Noop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Resolve(ctx context.Context, email string) (Decision, error) {
	email = ledger.NormalizeEmail(email)

	paid, err := s.isPaid(ctx, email)
	if err != nil {
		return Decision{}, err
	}
	if paid {
		// Paid users get no promo payload; there is nothing left to offer.
		return Decision{Status: StatusPaid}, nil
	}

	snapshot, err := s.promos.Active(ctx)
	if err != nil {
		return Decision{}, err
	}

	switch {
	case snapshot == nil:
		return Decision{Status: StatusNotPremium}, nil
	case snapshot.Type == promo.TypeFree:
		return Decision{Status: StatusFreePromo, Promo: snapshot}, nil
	default:
		// A discount does not change the status; the snapshot rides along so
		// the client can render the discounted offer.
		return Decision{Status: StatusNotPremium, Promo: snapshot}, nil
	}
}

func (s *service) InvalidatePaidSet(ctx context.Context) error {
	return s.paidCache.Delete(ctx, PaidSetCacheKey)
}

// isPaid checks the cached paid set, loading it from the ledger on a miss.
// On a cache hit no ledger read happens at all.
func (s *service) isPaid(ctx context.Context, email string) (bool, error) {
	cached, ok, err := s.paidCache.Get(ctx, PaidSetCacheKey)
	if err != nil {
		// A broken cache backend degrades to a direct ledger read.
		s.log.WarnContext(ctx, "paid set cache read failed", slog.Any("error", err))
	}
	if ok {
		for _, e := range cached {
			if e == email {
				return true, nil
			}
		}
		return false, nil
	}

	emails, err := s.store.Emails(ctx)
	if err != nil {
		return false, err
	}

	list := make([]string, 0, len(emails))
	for e := range emails {
		list = append(list, e)
	}
	if err := s.paidCache.Set(ctx, PaidSetCacheKey, list, s.paidSetTTL); err != nil {
		s.log.WarnContext(ctx, "paid set cache write failed", slog.Any("error", err))
	}

	_, paid := emails[email]
	return paid, nil
}
