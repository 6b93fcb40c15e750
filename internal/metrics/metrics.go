// Progressus - Learning Platform Profile Analytics
// Copyright 2026 Sara A. (saralmv)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/saralmv/progressus

// Package metrics provides Prometheus instrumentation for the
// data-retrieval pipeline: platform query latency and errors, circuit
// breaker state, session lifecycle events, and the outward HTTP
// surface. Metrics are exposed on /metrics by the API router.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// QueryDuration tracks platform GraphQL call latency per operation.
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "platform_query_duration_seconds",
			Help:    "Duration of platform GraphQL queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// QueryErrors counts platform GraphQL failures by error class.
	QueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "platform_query_errors_total",
			Help: "Total number of platform GraphQL query errors",
		},
		[]string{"operation", "error_type"},
	)

	// SessionTerminations counts forced and voluntary session teardowns.
	// Reasons: "logout", "http_status", "server_error", "revalidation".
	SessionTerminations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_terminations_total",
			Help: "Total number of session terminations by reason",
		},
		[]string{"reason"},
	)

	// LoginAttempts counts credential exchanges by outcome.
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "login_attempts_total",
			Help: "Total number of login attempts by outcome",
		},
		[]string{"outcome"},
	)

	// CircuitBreakerState reports breaker state (0=closed, 1=half-open, 2=open).
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// CircuitBreakerRequests counts breaker-wrapped requests by outcome.
	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total requests through the circuit breaker by outcome",
		},
		[]string{"name", "outcome"},
	)

	// CircuitBreakerTransitions counts breaker state changes.
	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// HTTPRequestDuration tracks the outward API surface latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// ObserveQuery records one platform query outcome.
func ObserveQuery(operation string, start time.Time, errType string) {
	QueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if errType != "" {
		QueryErrors.WithLabelValues(operation, errType).Inc()
	}
}

// ObserveHTTPRequest records one outward API request.
func ObserveHTTPRequest(method, path string, status int, start time.Time) {
	HTTPRequestDuration.
		WithLabelValues(method, path, strconv.Itoa(status)).
		Observe(time.Since(start).Seconds())
}
