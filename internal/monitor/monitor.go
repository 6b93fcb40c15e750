// Progressus - Learning Platform Profile Analytics
// Copyright 2026 Sara A. (saralmv)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/saralmv/progressus

// Package monitor periodically revalidates the stored session token
// and terminates the session the moment it expires, instead of waiting
// for the next upstream request to fail.
package monitor

import (
	"context"
	"time"

	"github.com/saralmv/progressus/internal/logging"
	"github.com/saralmv/progressus/internal/session"
)

// Terminator ends the current session. Satisfied by *auth.Gateway.
type Terminator interface {
	Terminate(ctx context.Context, reason string)
}

// Monitor re-checks the stored token on a fixed interval and on
// demand via Wake. It implements suture.Service.
type Monitor struct {
	store    session.Store
	term     Terminator
	interval time.Duration
	wake     chan struct{}
}

// New creates a session monitor. A non-positive interval falls back
// to 30 seconds.
func New(store session.Store, term Terminator, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Monitor{
		store:    store,
		term:     term,
		interval: interval,
		wake:     make(chan struct{}, 1),
	}
}

// Wake requests an immediate revalidation, ahead of the next tick.
// Safe to call from any goroutine; coalesces concurrent requests.
func (m *Monitor) Wake() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// Serve implements suture.Service. It blocks until the context is
// canceled, revalidating on every tick and every Wake call.
func (m *Monitor) Serve(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	logging.Debug().Dur("interval", m.interval).Msg("Session monitor started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.check(ctx)
		case <-m.wake:
			m.check(ctx)
		}
	}
}

// check terminates the session when a stored token is present but no
// longer valid. An absent token is not an error: the user is simply
// logged out.
func (m *Monitor) check(ctx context.Context) {
	token, err := m.store.Token(ctx)
	if err != nil {
		logging.Warn().Err(err).Msg("Session monitor: failed to read token")
		return
	}
	if token == "" {
		return
	}
	if session.IsValid(token, time.Now()) {
		return
	}

	logging.Info().Msg("Stored session token expired, terminating session")
	m.term.Terminate(ctx, "revalidation")
}

// String implements fmt.Stringer for supervision logging.
func (m *Monitor) String() string {
	return "session-monitor"
}
