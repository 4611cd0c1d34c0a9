package billing

import (
	"context"
	"errors"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

// StripeConfig holds configuration for the Stripe provider.
type StripeConfig struct {
	APIKey string `env:"STRIPE_API_KEY,required"`
}

// StripeProvider implements Provider on Stripe Checkout in one-time payment
// mode. The purchaser email doubles as the client_reference_id so the
// completion webhook can attribute the payment.
type StripeProvider struct {
	api *client.API
}

// NewStripeProvider creates a Stripe-backed checkout provider.
func NewStripeProvider(cfg StripeConfig) (*StripeProvider, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	api := &client.API{}
	api.Init(cfg.APIKey, nil)

	return &StripeProvider{api: api}, nil
}

// CreateCheckoutSession creates a hosted Stripe Checkout session.
func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	if req.PriceID == "" {
		return nil, ErrMissingPriceID
	}
	if req.Email == "" {
		return nil, ErrMissingEmail
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Price:    stripe.String(req.PriceID),
			Quantity: stripe.Int64(1),
		}},
		CustomerEmail:     stripe.String(req.Email),
		ClientReferenceID: stripe.String(req.ClientReferenceID),
	}
	params.Context = ctx

	if req.SuccessURL != "" {
		params.SuccessURL = stripe.String(req.SuccessURL)
	}
	if req.CancelURL != "" {
		params.CancelURL = stripe.String(req.CancelURL)
	}
	if req.PromoCodeID != "" {
		params.Discounts = []*stripe.CheckoutSessionDiscountParams{{
			PromotionCode: stripe.String(req.PromoCodeID),
		}}
	}

	sess, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, errors.Join(ErrProviderUnavailable, err)
	}
	if sess.URL == "" {
		return nil, ErrNoCheckoutURL
	}

	expiresAt := time.Unix(sess.ExpiresAt, 0)
	if sess.ExpiresAt == 0 {
		// Stripe checkout sessions expire after 24 hours by default.
		expiresAt = time.Now().Add(24 * time.Hour)
	}

	return &CheckoutSession{
		URL:       sess.URL,
		ID:        sess.ID,
		ExpiresAt: expiresAt,
	}, nil
}
