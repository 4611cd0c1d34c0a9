package promo

import "time"

// Type distinguishes how an active promotion alters the offer.
type Type string

const (
	// TypeFree grants premium access without payment while the window lasts.
	TypeFree Type = "FREE"
	// TypeDiscount keeps the paid flow but attaches a discount code.
	TypeDiscount Type = "DISCOUNT"
)

// Window is one row of the promotion table. Rows are evaluated in stored
// order and the first row whose end date has not passed wins.
type Window struct {
	ActiveUntil       time.Time `yaml:"active_until" json:"active_until"`
	Type              Type      `yaml:"type" json:"type"`
	PromoCodeID       string    `yaml:"promo_code_id" json:"promo_code_id"`
	Message           string    `yaml:"message" json:"message"`
	ButtonText        string    `yaml:"button_text" json:"button_text"`
	SalePriceText     string    `yaml:"sale_price_text" json:"sale_price_text"`
	OriginalPriceText string    `yaml:"original_price_text" json:"original_price_text"`
}

// Snapshot is the resolved view of the active promotion handed to clients.
// HasPromo is always true on a non-nil snapshot; it exists so clients can
// branch on the flag without a null check.
type Snapshot struct {
	HasPromo          bool   `json:"hasPromo"`
	Type              Type   `json:"type"`
	PromoCodeID       string `json:"promoCodeId"`
	Message           string `json:"message"`
	ButtonText        string `json:"buttonText"`
	SalePriceText     string `json:"salePriceText"`
	OriginalPriceText string `json:"originalPrice"`
	DaysLeft          int    `json:"daysLeft"`
}
