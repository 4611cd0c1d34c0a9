package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/entitlekit/pkg/auth"
	"github.com/dmitrymomot/entitlekit/pkg/billing"
	"github.com/dmitrymomot/entitlekit/pkg/entitlement"
	"github.com/dmitrymomot/entitlekit/pkg/logger"
	"github.com/dmitrymomot/entitlekit/pkg/requestid"
	"github.com/dmitrymomot/entitlekit/pkg/webhook"
)

// Config holds the HTTP-facing settings.
type Config struct {
	// WebhookSecret authenticates the payment provider's webhook channel.
	// It travels as a query parameter because the hosting environment does
	// not reliably expose signature headers.
	WebhookSecret string `env:"WEBHOOK_SECRET,required"`
}

// Deps are the services the API routes over.
type Deps struct {
	Verifier     auth.TokenVerifier
	Entitlements entitlement.Service
	Checkout     billing.Initiator
	Ingestor     webhook.Ingestor
	Log          *slog.Logger
}

// New builds the API router:
//
//	GET  /v1/status       - entitlement decision for the bearer identity
//	POST /v1/checkout     - create a checkout session
//	GET  /v1/checkout/qr  - same session rendered as a QR PNG
//	POST /v1/webhook      - payment provider notifications (secret-gated)
func New(cfg Config, deps Deps) http.Handler {
	if deps.Verifier == nil {
		panic("handler: token verifier is required")
	}
	if deps.Entitlements == nil {
		panic("handler: entitlement service is required")
	}
	if deps.Checkout == nil {
		panic("handler: checkout initiator is required")
	}
	if deps.Ingestor == nil {
		panic("handler: webhook ingestor is required")
	}
	if deps.Log == nil {
		deps.Log = logger.Noop()
	}

	h := &api{cfg: cfg, deps: deps}

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/status", h.status)
		r.Post("/checkout", h.checkout)
		r.Get("/checkout/qr", h.checkoutQR)
		r.Post("/webhook", h.webhookIngest)
	})

	return r
}

type api struct {
	cfg  Config
	deps Deps
}
