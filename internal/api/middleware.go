// Progressus - Learning Platform Profile Analytics
// Copyright 2026 Sara A. (saralmv)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/saralmv/progressus

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/saralmv/progressus/internal/logging"
	"github.com/saralmv/progressus/internal/metrics"
)

// MiddlewareConfig holds the configuration for the router's CORS and
// rate-limiting middleware.
type MiddlewareConfig struct {
	// CORSAllowedOrigins is empty by default, requiring explicit
	// configuration before cross-origin callers are allowed.
	CORSAllowedOrigins []string

	// RateLimitRequests / RateLimitWindow bound general API traffic
	// per client IP.
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// LoginRateLimit / LoginRateWindow bound login attempts per
	// client IP. Kept much stricter than the general limit.
	LoginRateLimit  int
	LoginRateWindow time.Duration
}

// DefaultMiddlewareConfig returns secure defaults: no CORS origins,
// 100 requests per minute, 5 login attempts per 5 minutes.
func DefaultMiddlewareConfig() *MiddlewareConfig {
	return &MiddlewareConfig{
		CORSAllowedOrigins: []string{},
		RateLimitRequests:  100,
		RateLimitWindow:    time.Minute,
		LoginRateLimit:     5,
		LoginRateWindow:    5 * time.Minute,
	}
}

// Middleware bundles the chi-compatible middleware factories.
type Middleware struct {
	config *MiddlewareConfig
	cors   func(http.Handler) http.Handler
}

// NewMiddleware builds the middleware set from configuration.
func NewMiddleware(config *MiddlewareConfig) *Middleware {
	if config == nil {
		config = DefaultMiddlewareConfig()
	}

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   config.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           86400,
	})

	return &Middleware{config: config, cors: corsHandler}
}

// CORS returns the go-chi/cors handler. Applied globally so OPTIONS
// preflight requests are answered on every route.
func (m *Middleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimit returns the general per-IP limiter for API routes.
func (m *Middleware) RateLimit() func(http.Handler) http.Handler {
	return httprate.LimitByIP(m.config.RateLimitRequests, m.config.RateLimitWindow)
}

// RateLimitLogin returns the strict per-IP limiter for the login
// endpoint.
func (m *Middleware) RateLimitLogin() func(http.Handler) http.Handler {
	return httprate.LimitByIP(m.config.LoginRateLimit, m.config.LoginRateWindow)
}

// RequestIDWithLogging attaches an X-Request-ID header and threads the
// ID through the logging context, so every log line within a request
// carries request_id.
func RequestIDWithLogging() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		chiRequestID := chimiddleware.RequestID(next)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = logging.GenerateRequestID()
				r.Header.Set("X-Request-ID", requestID)
			}
			w.Header().Set("X-Request-ID", requestID)

			ctx := logging.ContextWithRequestID(r.Context(), requestID)
			chiRequestID.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrometheusMetrics records per-route request duration, labeled with
// chi's route pattern rather than the raw path to keep cardinality
// bounded.
func PrometheusMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		pattern := chi.RouteContext(r.Context()).RoutePattern()
		if pattern == "" {
			pattern = "unmatched"
		}
		metrics.ObserveHTTPRequest(r.Method, pattern, ww.Status(), start)
	})
}
