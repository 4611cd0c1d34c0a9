package billing

import (
	"context"
	"time"
)

// Provider is the minimal interface a payment processor must satisfy. The
// processor hosts the checkout page itself; this module only creates the
// session and hands the URL back to the client.
//
// Implementations should use the official provider SDK and keep provider
// quirks internal (e.g. Stripe's promotion codes vs Paddle's discount IDs).
type Provider interface {
	// CreateCheckoutSession creates a hosted one-time-payment checkout.
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
}

// CheckoutRequest carries everything needed to build a checkout session.
type CheckoutRequest struct {
	PriceID           string // Provider's price identifier for the product
	Email             string // Purchaser email, pre-filled at checkout
	ClientReferenceID string // Reconciliation token echoed back in the webhook
	SuccessURL        string // Redirect after successful payment
	CancelURL         string // Redirect if the customer backs out
	PromoCodeID       string // Optional provider discount reference
}

// CheckoutSession is a hosted checkout the user can be sent to.
type CheckoutSession struct {
	URL       string
	ID        string
	ExpiresAt time.Time
}
