package entitlement

import "github.com/dmitrymomot/entitlekit/pkg/promo"

// Status is the binary entitlement outcome, modulated by at most one active
// promotion.
type Status string

const (
	// StatusPaid means the email has at least one completed payment.
	StatusPaid Status = "paid"
	// StatusFreePromo means a FREE promotion window currently grants access.
	StatusFreePromo Status = "free_promo"
	// StatusNotPremium means no payment and no free window; a discount
	// snapshot may still accompany it so the client can render the offer.
	StatusNotPremium Status = "not_premium"
)

// Decision is what the resolver returns for one email at one instant.
type Decision struct {
	Status Status          `json:"status"`
	Promo  *promo.Snapshot `json:"promoData"`
}

// NotPremium is the safe default decision used when resolution fails and no
// cached decision exists.
func NotPremium() Decision {
	return Decision{Status: StatusNotPremium}
}
