package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Routes(m *Middleware, corsOrigins []string, rateLimitRPM int) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(m.RequestID)
	r.Use(m.RequestLogger)
	r.Use(m.Recoverer)
	r.Use(m.SecurityHeaders)
	r.Use(m.Compress)
	// A launch makes three upstream round trips, so the budget is generous.
	r.Use(m.Timeout(60 * time.Second))
	r.Use(middleware.Heartbeat("/ping"))

	r.Use(m.CORS(corsOrigins))
	r.Use(m.RateLimit(rateLimitRPM))

	// Health endpoints
	r.Get("/healthz", h.Healthz)
	r.Get("/readyz", h.Readyz)

	// v1 API routes
	r.Route("/v1", func(r chi.Router) {
		// JSON-RPC endpoint
		r.Post("/jsonrpc", h.HandleJSONRPC)

		// Token launch
		r.Route("/tokens", func(r chi.Router) {
			r.Post("/launch", h.LaunchToken)
		})

		// On-chain validation
		r.Route("/validate", func(r chi.Router) {
			r.Post("/address", h.ValidateAddress)
			r.Post("/coin-type", h.ValidateCoinType)
		})
	})

	return r
}
