package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/xavierca1/ligue-onboarding/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-onboarding/internal/infra/http/middleware"
)

type routes struct {
	checkout   *handlers.CheckoutHandler
	webhook    *handlers.WebhookHandler
	verify     *handlers.VerifyPaymentHandler
	validation *handlers.ValidationHandler
	lead       *handlers.LeadHandler
	health     *handlers.HealthHandler
}

func newRouter(logger zerolog.Logger, h routes, limiter *middleware.RateLimiter, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(hlog.NewHandler(logger))
	r.Use(hlog.RequestIDHandler("request_id", "X-Request-Id"))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))
	// Metrics fica por fora do Recover para contar os 500 de panic
	r.Use(middleware.Metrics)
	r.Use(middleware.Recover)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", h.health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	// Superfícies públicas do formulário passam pelo rate limit
	r.Group(func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Post("/checkout", h.checkout.Handle)
		r.Post("/validate-email", h.validation.Handle)
		r.Post("/leads", h.lead.CaptureLead)
	})

	r.Get("/verify-payment", h.verify.Handle)
	r.Post("/webhooks/payment", h.webhook.Handle)

	return r
}
