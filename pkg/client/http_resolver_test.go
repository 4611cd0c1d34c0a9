package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/entitlekit/pkg/client"
	"github.com/dmitrymomot/entitlekit/pkg/entitlement"
)

func TestHTTPResolver_Resolve(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("decodes a status response", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/status", r.URL.Path)
			assert.Equal(t, "Bearer tok_1", r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"not_premium","promoData":{"type":"DISCOUNT","promoCodeId":"P1","daysLeft":6}}`))
		}))
		t.Cleanup(srv.Close)

		r := client.NewHTTPResolver(srv.URL, nil)
		decision, err := r.Resolve(ctx, "tok_1")
		require.NoError(t, err)
		assert.Equal(t, entitlement.StatusNotPremium, decision.Status)
		require.NotNil(t, decision.Promo)
		assert.Equal(t, "P1", decision.Promo.PromoCodeID)
		assert.Equal(t, 6, decision.Promo.DaysLeft)
	})

	t.Run("401 maps to unauthenticated", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		t.Cleanup(srv.Close)

		r := client.NewHTTPResolver(srv.URL, nil)
		_, err := r.Resolve(ctx, "tok_bad")
		require.ErrorIs(t, err, client.ErrUnauthenticated)
	})

	t.Run("5xx maps to remote unavailable", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		t.Cleanup(srv.Close)

		r := client.NewHTTPResolver(srv.URL, nil)
		_, err := r.Resolve(ctx, "tok_1")
		require.ErrorIs(t, err, client.ErrRemoteUnavailable)
	})
}
