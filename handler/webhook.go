package handler

import (
	"crypto/subtle"
	"io"
	"net/http"
)

// maxWebhookBody caps the payload read from the provider. Real checkout
// events are a few kilobytes.
const maxWebhookBody = 1 << 20

// webhookIngest receives payment provider notifications.
//
// The channel is authenticated by a shared secret in the query string, not a
// payload signature, because the hosting environment does not reliably expose
// signature headers. A wrong secret is the one case that is NOT acknowledged:
// it isn't the provider talking.
//
// Every authenticated delivery is acknowledged with 200 regardless of what
// processing did; the acknowledgment layer never reflects internal failures.
func (h *api) webhookIngest(w http.ResponseWriter, r *http.Request) {
	secret := r.URL.Query().Get("key")
	if subtle.ConstantTimeCompare([]byte(secret), []byte(h.cfg.WebhookSecret)) != 1 {
		respondError(w, http.StatusUnauthorized, "invalid webhook key")
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		h.deps.Log.ErrorContext(r.Context(), "webhook body read failed", "error", err)
		w.WriteHeader(http.StatusOK)
		return
	}

	result, err := h.deps.Ingestor.Process(r.Context(), payload)
	if err != nil {
		h.deps.Log.ErrorContext(r.Context(), "webhook processing failed",
			"result", string(result), "error", err)
	}

	w.WriteHeader(http.StatusOK)
}
