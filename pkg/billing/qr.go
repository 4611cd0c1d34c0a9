package billing

import (
	"errors"

	skipqrcode "github.com/skip2/go-qrcode"
)

const (
	// defaultQRSize is the size in pixels used when no size is specified.
	defaultQRSize = 256

	// MaxQRSize caps the rendered image edge. The encoder allocates a
	// size×size RGBA buffer, so the size is clamped before it reaches the
	// encoder rather than trusted from the caller.
	MaxQRSize = 1024
)

// CheckoutQR renders the session's checkout URL as a PNG QR code, for flows
// where the purchase happens on a phone instead of in the browser. Sizes
// outside (0, MaxQRSize] are clamped.
func CheckoutQR(session *CheckoutSession, size int) ([]byte, error) {
	if session == nil || session.URL == "" {
		return nil, ErrNoCheckoutURL
	}
	if size <= 0 {
		size = defaultQRSize
	}
	if size > MaxQRSize {
		size = MaxQRSize
	}
	png, err := skipqrcode.Encode(session.URL, skipqrcode.Medium, size)
	if err != nil {
		return nil, errors.Join(ErrEncodeQR, err)
	}
	return png, nil
}
