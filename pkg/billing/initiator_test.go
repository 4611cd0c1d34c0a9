package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/entitlekit/pkg/billing"
	"github.com/dmitrymomot/entitlekit/pkg/promo"
)

type fakeProvider struct {
	lastReq billing.CheckoutRequest
	session *billing.CheckoutSession
	err     error
}

func (p *fakeProvider) CreateCheckoutSession(_ context.Context, req billing.CheckoutRequest) (*billing.CheckoutSession, error) {
	p.lastReq = req
	if p.err != nil {
		return nil, p.err
	}
	return p.session, nil
}

type failingSource struct{}

func (failingSource) Load(context.Context) ([]promo.Window, error) {
	return nil, promo.ErrSourceUnavailable
}

func TestInitiator_CreateCheckoutSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	cfg := billing.InitiatorConfig{
		PriceID:    "price_123",
		SuccessURL: "https://example.com/thanks",
		CancelURL:  "https://example.com/cancel",
	}

	t.Run("email doubles as reconciliation token", func(t *testing.T) {
		t.Parallel()
		provider := &fakeProvider{session: &billing.CheckoutSession{URL: "https://pay.example.com/s1", ID: "cs_1"}}
		init := billing.NewInitiator(provider, cfg)

		session, err := init.CreateCheckoutSession(ctx, "  Buyer@X.com ")
		require.NoError(t, err)
		assert.Equal(t, "https://pay.example.com/s1", session.URL)
		assert.Equal(t, "buyer@x.com", provider.lastReq.Email)
		assert.Equal(t, "buyer@x.com", provider.lastReq.ClientReferenceID)
		assert.Equal(t, "price_123", provider.lastReq.PriceID)
		assert.Empty(t, provider.lastReq.PromoCodeID)
	})

	t.Run("active discount attaches its promo code", func(t *testing.T) {
		t.Parallel()
		provider := &fakeProvider{session: &billing.CheckoutSession{URL: "https://pay.example.com/s2", ID: "cs_2"}}
		discount := promo.NewResolver(promo.NewInMemSource(promo.Window{
			ActiveUntil: now.AddDate(0, 0, 5),
			Type:        promo.TypeDiscount,
			PromoCodeID: "promo_50off",
		}), promo.WithClock(func() time.Time { return now }))

		init := billing.NewInitiator(provider, cfg, billing.WithPromoResolver(discount))
		_, err := init.CreateCheckoutSession(ctx, "buyer@x.com")
		require.NoError(t, err)
		assert.Equal(t, "promo_50off", provider.lastReq.PromoCodeID)
	})

	t.Run("free promo window does not discount checkout", func(t *testing.T) {
		t.Parallel()
		provider := &fakeProvider{session: &billing.CheckoutSession{URL: "https://pay.example.com/s3", ID: "cs_3"}}
		free := promo.NewResolver(promo.NewInMemSource(promo.Window{
			ActiveUntil: now.AddDate(0, 0, 5),
			Type:        promo.TypeFree,
		}), promo.WithClock(func() time.Time { return now }))

		init := billing.NewInitiator(provider, cfg, billing.WithPromoResolver(free))
		_, err := init.CreateCheckoutSession(ctx, "buyer@x.com")
		require.NoError(t, err)
		assert.Empty(t, provider.lastReq.PromoCodeID)
	})

	t.Run("promo lookup failure degrades to full price", func(t *testing.T) {
		t.Parallel()
		provider := &fakeProvider{session: &billing.CheckoutSession{URL: "https://pay.example.com/s4", ID: "cs_4"}}
		broken := promo.NewResolver(failingSource{})

		init := billing.NewInitiator(provider, cfg, billing.WithPromoResolver(broken))
		session, err := init.CreateCheckoutSession(ctx, "buyer@x.com")
		require.NoError(t, err)
		assert.NotNil(t, session)
		assert.Empty(t, provider.lastReq.PromoCodeID)
	})

	t.Run("empty email is rejected", func(t *testing.T) {
		t.Parallel()
		init := billing.NewInitiator(&fakeProvider{}, cfg)
		_, err := init.CreateCheckoutSession(ctx, "   ")
		require.ErrorIs(t, err, billing.ErrMissingEmail)
	})

	t.Run("provider failure propagates", func(t *testing.T) {
		t.Parallel()
		provider := &fakeProvider{err: billing.ErrProviderUnavailable}
		init := billing.NewInitiator(provider, cfg)
		_, err := init.CreateCheckoutSession(ctx, "buyer@x.com")
		require.ErrorIs(t, err, billing.ErrProviderUnavailable)
	})
}

func TestCheckoutQR(t *testing.T) {
	t.Parallel()

	t.Run("renders a PNG for the checkout URL", func(t *testing.T) {
		t.Parallel()
		png, err := billing.CheckoutQR(&billing.CheckoutSession{URL: "https://pay.example.com/s1"}, 128)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
	})

	t.Run("nil session is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := billing.CheckoutQR(nil, 128)
		require.ErrorIs(t, err, billing.ErrNoCheckoutURL)
	})

	t.Run("oversized request is clamped to the maximum", func(t *testing.T) {
		t.Parallel()
		session := &billing.CheckoutSession{URL: "https://pay.example.com/s1"}

		capped, err := billing.CheckoutQR(session, billing.MaxQRSize)
		require.NoError(t, err)

		huge, err := billing.CheckoutQR(session, 100_000)
		require.NoError(t, err)
		assert.Equal(t, capped, huge)
	})

	t.Run("non-positive size falls back to the default", func(t *testing.T) {
		t.Parallel()
		session := &billing.CheckoutSession{URL: "https://pay.example.com/s1"}

		fallback, err := billing.CheckoutQR(session, -5)
		require.NoError(t, err)

		png, err := billing.CheckoutQR(session, 0)
		require.NoError(t, err)
		assert.Equal(t, fallback, png)
	})
}

func TestNewInitiator_RequiresProvider(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() {
		billing.NewInitiator(nil, billing.InitiatorConfig{})
	})
}
