package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/entitlekit/handler"
	"github.com/dmitrymomot/entitlekit/pkg/auth"
	"github.com/dmitrymomot/entitlekit/pkg/billing"
	"github.com/dmitrymomot/entitlekit/pkg/entitlement"
	"github.com/dmitrymomot/entitlekit/pkg/ledger"
	"github.com/dmitrymomot/entitlekit/pkg/promo"
	"github.com/dmitrymomot/entitlekit/pkg/webhook"
)

type staticVerifier struct {
	identity auth.Identity
	err      error
}

func (v staticVerifier) Verify(_ context.Context, token string) (auth.Identity, error) {
	if v.err != nil {
		return auth.Identity{}, v.err
	}
	return v.identity, nil
}

type staticProvider struct {
	session *billing.CheckoutSession
	err     error
}

func (p staticProvider) CreateCheckoutSession(context.Context, billing.CheckoutRequest) (*billing.CheckoutSession, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.session, nil
}

type testAPI struct {
	http.Handler
	store *ledger.MemoryStore
}

func newTestAPI(t *testing.T, verifier auth.TokenVerifier, provider billing.Provider) *testAPI {
	t.Helper()

	store := ledger.NewMemoryStore()
	entitlements := entitlement.NewService(store, promo.NewResolver(promo.NewInMemSource()))
	checkout := billing.NewInitiator(provider, billing.InitiatorConfig{PriceID: "price_1"})
	ingestor := webhook.NewIngestor(store, entitlements)

	h := handler.New(handler.Config{WebhookSecret: "s3cret"}, handler.Deps{
		Verifier:     verifier,
		Entitlements: entitlements,
		Checkout:     checkout,
		Ingestor:     ingestor,
	})
	return &testAPI{Handler: h, store: store}
}

func doRequest(t *testing.T, h http.Handler, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestStatusEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("missing token", func(t *testing.T) {
		t.Parallel()
		api := newTestAPI(t, staticVerifier{}, staticProvider{})
		rec := doRequest(t, api, http.MethodGet, "/v1/status", "", "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.NotEmpty(t, body["error"])
	})

	t.Run("invalid token", func(t *testing.T) {
		t.Parallel()
		api := newTestAPI(t, staticVerifier{err: auth.ErrUnauthenticated}, staticProvider{})
		rec := doRequest(t, api, http.MethodGet, "/v1/status", "tok_bad", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("paid user", func(t *testing.T) {
		t.Parallel()
		api := newTestAPI(t, staticVerifier{identity: auth.Identity{Email: "a@x.com"}}, staticProvider{})
		require.NoError(t, api.store.Append(context.Background(),
			ledger.NewRecord("a@x.com", "evt_1", time.Now())))

		rec := doRequest(t, api, http.MethodGet, "/v1/status", "tok_1", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var decision entitlement.Decision
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decision))
		assert.Equal(t, entitlement.StatusPaid, decision.Status)
		assert.Nil(t, decision.Promo)
	})

	t.Run("unpaid user", func(t *testing.T) {
		t.Parallel()
		api := newTestAPI(t, staticVerifier{identity: auth.Identity{Email: "a@x.com"}}, staticProvider{})
		rec := doRequest(t, api, http.MethodGet, "/v1/status", "tok_1", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var decision entitlement.Decision
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decision))
		assert.Equal(t, entitlement.StatusNotPremium, decision.Status)
	})
}

func TestCheckoutEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("returns the hosted checkout URL", func(t *testing.T) {
		t.Parallel()
		api := newTestAPI(t,
			staticVerifier{identity: auth.Identity{Email: "a@x.com"}},
			staticProvider{session: &billing.CheckoutSession{URL: "https://pay.example.com/s1"}})

		rec := doRequest(t, api, http.MethodPost, "/v1/checkout", "tok_1", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "https://pay.example.com/s1", body["checkoutUrl"])
	})

	t.Run("provider failure is surfaced as an error", func(t *testing.T) {
		t.Parallel()
		api := newTestAPI(t,
			staticVerifier{identity: auth.Identity{Email: "a@x.com"}},
			staticProvider{err: billing.ErrProviderUnavailable})

		rec := doRequest(t, api, http.MethodPost, "/v1/checkout", "tok_1", "")
		assert.Equal(t, http.StatusBadGateway, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.NotEmpty(t, body["error"])
	})

	t.Run("QR variant renders a PNG", func(t *testing.T) {
		t.Parallel()
		api := newTestAPI(t,
			staticVerifier{identity: auth.Identity{Email: "a@x.com"}},
			staticProvider{session: &billing.CheckoutSession{URL: "https://pay.example.com/s1"}})

		rec := doRequest(t, api, http.MethodGet, "/v1/checkout/qr?size=128", "tok_1", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, rec.Body.Bytes()[:4])
	})

	t.Run("QR variant rejects a non-numeric size", func(t *testing.T) {
		t.Parallel()
		api := newTestAPI(t,
			staticVerifier{identity: auth.Identity{Email: "a@x.com"}},
			staticProvider{session: &billing.CheckoutSession{URL: "https://pay.example.com/s1"}})

		rec := doRequest(t, api, http.MethodGet, "/v1/checkout/qr?size=abc", "tok_1", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.NotEmpty(t, body["error"])
	})

	t.Run("QR variant clamps an absurd size instead of allocating it", func(t *testing.T) {
		t.Parallel()
		api := newTestAPI(t,
			staticVerifier{identity: auth.Identity{Email: "a@x.com"}},
			staticProvider{session: &billing.CheckoutSession{URL: "https://pay.example.com/s1"}})

		rec := doRequest(t, api, http.MethodGet, "/v1/checkout/qr?size=100000", "tok_1", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	})
}

func TestWebhookEndpoint(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	payload := `{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"client_reference_id":"b@x.com"}}}`

	t.Run("wrong secret is rejected", func(t *testing.T) {
		t.Parallel()
		api := newTestAPI(t, staticVerifier{}, staticProvider{})
		rec := doRequest(t, api, http.MethodPost, "/v1/webhook?key=wrong", "", payload)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		records, err := api.store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("valid delivery appends and acknowledges", func(t *testing.T) {
		t.Parallel()
		api := newTestAPI(t, staticVerifier{}, staticProvider{})
		rec := doRequest(t, api, http.MethodPost, "/v1/webhook?key=s3cret", "", payload)
		assert.Equal(t, http.StatusOK, rec.Code)

		record, err := api.store.FindByEventID(ctx, "evt_1")
		require.NoError(t, err)
		assert.Equal(t, "b@x.com", record.Email)
	})

	t.Run("redelivery is acknowledged without a second row", func(t *testing.T) {
		t.Parallel()
		api := newTestAPI(t, staticVerifier{}, staticProvider{})

		for range 3 {
			rec := doRequest(t, api, http.MethodPost, "/v1/webhook?key=s3cret", "", payload)
			assert.Equal(t, http.StatusOK, rec.Code)
		}

		records, err := api.store.List(ctx)
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("malformed payload is still acknowledged", func(t *testing.T) {
		t.Parallel()
		api := newTestAPI(t, staticVerifier{}, staticProvider{})
		rec := doRequest(t, api, http.MethodPost, "/v1/webhook?key=s3cret", "", `{"id":`)
		assert.Equal(t, http.StatusOK, rec.Code)

		records, err := api.store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}
