// Progressus - Learning Platform Profile Analytics
// Copyright 2026 Sara A. (saralmv)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/saralmv/progressus

package query

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/saralmv/progressus/internal/logging"
	"github.com/saralmv/progressus/internal/metrics"
)

// BreakerClient wraps a Client with a circuit breaker so a platform
// outage fails fast instead of piling up blocked profile loads.
//
// Only transport-level failures count toward opening the circuit.
// Application errors (QueryError) and fatal session events
// (ErrSessionExpired) are answers from a healthy upstream, not signs
// of an outage, and must not trip the breaker.
//
// NOTE: the breaker uses real time for its interval and timeout
// bookkeeping. Unit tests should exercise the wrapped Client directly.
type BreakerClient struct {
	client *Client
	cb     *gobreaker.CircuitBreaker[json.RawMessage]
	name   string
}

// NewBreakerClient wraps client with a circuit breaker that opens at a
// 60% failure rate over a minimum of 10 requests, and probes again
// after two minutes.
func NewBreakerClient(client *Client) *BreakerClient {
	const cbName = "platform-graphql"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[json.RawMessage](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			if failureRatio >= 0.6 {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("Opening platform query circuit")
				return true
			}
			return false
		},

		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var qerr *QueryError
			return errors.As(err, &qerr) || errors.Is(err, ErrSessionExpired)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("Platform query circuit state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &BreakerClient{client: client, cb: cb, name: cbName}
}

// Execute implements Executor through the breaker.
func (b *BreakerClient) Execute(ctx context.Context, operation, gql string, variables map[string]any) (json.RawMessage, error) {
	result, err := b.cb.Execute(func() (json.RawMessage, error) {
		return b.client.Execute(ctx, operation, gql, variables)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			logging.Warn().Err(err).Str("operation", operation).Msg("Platform query rejected by open circuit")
			return nil, &TransportError{Status: 0, Message: "platform temporarily unavailable"}
		}
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	return result, nil
}

// stateToFloat converts breaker state to the gauge encoding.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts breaker state to a label value.
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
