package billing

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/entitlekit/pkg/ledger"
	"github.com/dmitrymomot/entitlekit/pkg/logger"
	"github.com/dmitrymomot/entitlekit/pkg/promo"
)

// InitiatorConfig carries the product and redirect settings applied to every
// checkout session.
type InitiatorConfig struct {
	PriceID    string `env:"BILLING_PRICE_ID,required"`
	SuccessURL string `env:"BILLING_SUCCESS_URL"`
	CancelURL  string `env:"BILLING_CANCEL_URL"`
}

// Initiator creates checkout sessions for verified users, attaching the
// currently-active discount when one exists.
type Initiator interface {
	// CreateCheckoutSession builds a hosted checkout for the given purchaser
	// email. The email is also used as the reconciliation token so the
	// completion webhook can attribute the payment without extra lookups.
	CreateCheckoutSession(ctx context.Context, email string) (*CheckoutSession, error)
}

type initiator struct {
	provider Provider
	promos   *promo.Resolver
	config   InitiatorConfig
	log      *slog.Logger
}

// InitiatorOption configures the checkout initiator.
type InitiatorOption func(*initiator)

// WithPromoResolver enables automatic discount attachment from the active
// promotion table. Without it sessions are created at full price.
func WithPromoResolver(r *promo.Resolver) InitiatorOption {
	return func(i *initiator) {
		if r != nil {
			i.promos = r
		}
	}
}

// WithLogger sets the logger used for non-fatal promo lookup failures.
func WithLogger(log *slog.Logger) InitiatorOption {
	return func(i *initiator) {
		if log != nil {
			i.log = log
		}
	}
}

// NewInitiator creates a checkout initiator backed by the given provider.
// Panics if provider is nil.
func NewInitiator(provider Provider, config InitiatorConfig, opts ...InitiatorOption) Initiator {
	if provider == nil {
		panic("billing: provider is required")
	}

	i := &initiator{
		provider: provider,
		config:   config,
		log:      logger.Noop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *initiator) CreateCheckoutSession(ctx context.Context, email string) (*CheckoutSession, error) {
	email = ledger.NormalizeEmail(email)
	if email == "" {
		return nil, ErrMissingEmail
	}

	req := CheckoutRequest{
		PriceID:           i.config.PriceID,
		Email:             email,
		ClientReferenceID: email,
		SuccessURL:        i.config.SuccessURL,
		CancelURL:         i.config.CancelURL,
	}

	// A failed promo lookup must not block the purchase; worst case the
	// customer checks out at full price.
	if i.promos != nil {
		snapshot, err := i.promos.Active(ctx)
		switch {
		case err != nil:
			i.log.WarnContext(ctx, "promo lookup failed, creating full-price checkout", "error", err)
		case snapshot != nil && snapshot.Type == promo.TypeDiscount && snapshot.PromoCodeID != "":
			req.PromoCodeID = snapshot.PromoCodeID
		}
	}

	return i.provider.CreateCheckoutSession(ctx, req)
}
