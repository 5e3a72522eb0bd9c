// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// art studio API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"artstudio/internal/handlers"
	"artstudio/internal/middleware"
)

// Options tune the router for its deployment.
type Options struct {
	// Secure marks cookies Secure.
	Secure bool

	// TrustProxy takes the client address from X-Forwarded-For and
	// X-Real-IP. Enable only behind a proxy that sets them.
	TrustProxy bool
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. aiLimiter throttles the routes that call the
// AI provider.
func New(studios middleware.StudioLoader, h *handlers.Studio, aiLimiter *middleware.RateLimiter, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	if opts.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check: no session, no CSRF.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NewCSRF(opts.Secure))
		r.Use(middleware.LoadStudio(studios))

		r.Get("/studio", h.Snapshot)
		r.Put("/studio/name", h.SetName)
		r.Patch("/entries/{id}", h.UpdatePrompt)
		r.Get("/stats", h.Stats)
		r.Get("/export", h.Export)

		// The key settings act on this session's own key only.
		r.Get("/settings/credential", h.CredentialStatus)
		r.Put("/settings/credential", h.CredentialSave)

		// Routes that reach the AI provider.
		r.Group(func(r chi.Router) {
			r.Use(aiLimiter.Middleware)
			r.Post("/entries", h.Upload)
			r.Post("/chat", h.Chat)
			r.Post("/theme", h.Theme)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
