package handler

import (
	"net/http"
	"strconv"

	"github.com/dmitrymomot/entitlekit/pkg/billing"
)

type checkoutResponse struct {
	CheckoutURL string `json:"checkoutUrl"`
}

// checkout creates a checkout session for the verified identity and returns
// its hosted URL. Failures surface as a user-visible error with no silent
// retry loop; the client decides whether to try again.
func (h *api) checkout(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	session, err := h.deps.Checkout.CreateCheckoutSession(r.Context(), identity.Email)
	if err != nil {
		h.deps.Log.ErrorContext(r.Context(), "checkout session creation failed",
			"email", identity.Email, "error", err)
		respondError(w, http.StatusBadGateway, "failed to create checkout session")
		return
	}

	respondJSON(w, http.StatusOK, checkoutResponse{CheckoutURL: session.URL})
}

// checkoutQR creates a checkout session and renders its URL as a PNG QR code
// for purchase flows that move to a phone.
func (h *api) checkoutQR(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	size := 0
	if s := r.URL.Query().Get("size"); s != "" {
		parsed, err := strconv.Atoi(s)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid size parameter")
			return
		}
		size = parsed
	}

	session, err := h.deps.Checkout.CreateCheckoutSession(r.Context(), identity.Email)
	if err != nil {
		h.deps.Log.ErrorContext(r.Context(), "checkout session creation failed",
			"email", identity.Email, "error", err)
		respondError(w, http.StatusBadGateway, "failed to create checkout session")
		return
	}

	png, err := billing.CheckoutQR(session, size)
	if err != nil {
		h.deps.Log.ErrorContext(r.Context(), "QR rendering failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to render QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
