package promo

import "errors"

var (
	ErrSourceUnavailable = errors.New("promo: promotion table unavailable")
	ErrMalformedTable    = errors.New("promo: malformed promotion table")
)
