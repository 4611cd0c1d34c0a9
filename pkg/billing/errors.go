package billing

import "errors"

var (
	// ErrMissingAPIKey is returned when a provider is constructed without credentials.
	ErrMissingAPIKey = errors.New("billing: missing API key")

	// ErrInvalidEnvironment is returned for an unrecognized provider environment.
	ErrInvalidEnvironment = errors.New("billing: invalid environment")

	// ErrMissingPriceID is returned when a checkout is requested without a price.
	ErrMissingPriceID = errors.New("billing: missing price ID")

	// ErrMissingEmail is returned when a checkout is requested without a purchaser email.
	ErrMissingEmail = errors.New("billing: missing email")

	// ErrProviderUnavailable wraps transport or API failures from the payment provider.
	ErrProviderUnavailable = errors.New("billing: provider unavailable")

	// ErrNoCheckoutURL is returned when the provider created a session but
	// returned no hosted checkout URL. The session is unusable without one.
	ErrNoCheckoutURL = errors.New("billing: no checkout URL returned")

	// ErrEncodeQR wraps QR code generation failures.
	ErrEncodeQR = errors.New("billing: failed to encode QR code")
)
