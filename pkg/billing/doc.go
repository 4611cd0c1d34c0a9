// Package billing creates hosted one-time-payment checkout sessions.
//
// The payment provider (Stripe or Paddle) hosts the checkout page; this
// package only opens the session and returns its URL. The purchaser's email
// is attached to the session as the reconciliation token, which the
// completion webhook later echoes back, closing the loop without any local
// order state.
//
// The Initiator sits above the raw Provider: it normalizes the email, asks
// the promotion resolver for an active discount, and attaches the provider
// discount reference when one applies. Promo lookup failures degrade to a
// full-price session rather than blocking the purchase.
package billing
