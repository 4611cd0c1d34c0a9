package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrymomot/entitlekit/pkg/auth"
)

// bearerToken extracts the access token from the Authorization header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// identity verifies the request's bearer token, writing the error response
// itself when verification fails.
func (h *api) identity(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	token := bearerToken(r)
	if token == "" {
		respondError(w, http.StatusUnauthorized, "missing bearer token")
		return auth.Identity{}, false
	}

	identity, err := h.deps.Verifier.Verify(r.Context(), token)
	switch {
	case err == nil:
		return identity, true
	case errors.Is(err, auth.ErrUnauthenticated):
		respondError(w, http.StatusUnauthorized, "invalid or expired token")
	default:
		h.deps.Log.ErrorContext(r.Context(), "identity verification failed", "error", err)
		respondError(w, http.StatusBadGateway, "identity provider unavailable")
	}
	return auth.Identity{}, false
}

// status answers {status, promoData} for the verified identity.
func (h *api) status(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	decision, err := h.deps.Entitlements.Resolve(r.Context(), identity.Email)
	if err != nil {
		h.deps.Log.ErrorContext(r.Context(), "entitlement resolution failed",
			"email", identity.Email, "error", err)
		respondError(w, http.StatusInternalServerError, "entitlement resolution failed")
		return
	}

	respondJSON(w, http.StatusOK, decision)
}
