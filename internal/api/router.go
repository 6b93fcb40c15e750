// Progressus - Learning Platform Profile Analytics
// Copyright 2026 Sara A. (saralmv)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/saralmv/progressus

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router wires the handler and middleware into the chi route tree.
type Router struct {
	handler *Handler
	mw      *Middleware
}

// NewRouter creates a router from an assembled handler and middleware
// configuration.
func NewRouter(handler *Handler, mwConfig *MiddlewareConfig) *Router {
	return &Router{
		handler: handler,
		mw:      NewMiddleware(mwConfig),
	}
}

// Setup builds the HTTP route tree.
//
// The login endpoint carries its own strict rate limit; everything
// else under /api/v1 shares the general limit. CORS is global so
// OPTIONS preflight requests are answered everywhere.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.mw.CORS())

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(PrometheusMetrics)

		r.With(router.mw.RateLimitLogin()).Post("/login", router.handler.Login)
		r.Post("/logout", router.handler.Logout)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.mw.RateLimit())
		r.Use(PrometheusMetrics)

		r.Get("/session", router.handler.Session)
		r.Get("/profile", router.handler.Profile)
		r.Get("/stats", router.handler.Stats)
		r.Get("/area", router.handler.Area)
		r.Put("/area", router.handler.SetArea)
		r.Get("/xp-display", router.handler.XPDisplay)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
