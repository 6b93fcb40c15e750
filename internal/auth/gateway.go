// Progressus - Learning Platform Profile Analytics
// Copyright 2026 Sara A. (saralmv)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/saralmv/progressus

// Package auth performs the credential exchange with the learning
// platform and owns session teardown.
package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/saralmv/progressus/internal/config"
	"github.com/saralmv/progressus/internal/logging"
	"github.com/saralmv/progressus/internal/metrics"
	"github.com/saralmv/progressus/internal/session"
)

// ErrInvalidCredentials is returned for any failed login attempt. The
// message is intentionally generic and never echoes upstream detail.
var ErrInvalidCredentials = errors.New("invalid credentials, please try again")

// Navigator is the narrow signal interface to the external view layer.
// ToLogin tells it to return to the unauthenticated entry view.
type Navigator interface {
	ToLogin()
}

// NopNavigator discards navigation signals. Useful in tests and for
// headless invocations.
type NopNavigator struct{}

// ToLogin implements Navigator.
func (NopNavigator) ToLogin() {}

// maxTokenBodySize bounds how much of the sign-in response body is
// read when falling back to the raw body as the token value.
const maxTokenBodySize = 64 * 1024

// Gateway performs login and logout against the platform's sign-in
// endpoint and persists the resulting session token.
type Gateway struct {
	signinURL string
	store     session.Store
	nav       Navigator
	client    *http.Client
}

// NewGateway creates a Gateway from platform configuration.
func NewGateway(cfg *config.PlatformConfig, store session.Store, nav Navigator) *Gateway {
	return &Gateway{
		signinURL: cfg.SigninURL(),
		store:     store,
		nav:       nav,
		client:    &http.Client{Timeout: cfg.Timeout},
	}
}

// Login exchanges credentials for a session token and persists it.
//
// The identifier and secret are submitted as an HTTP Basic credential,
// base64(identifier:secret). Any non-success status maps to
// ErrInvalidCredentials without detail. On success the token value is
// extracted from the response body via extractToken and stored.
func (g *Gateway) Login(ctx context.Context, identifier, secret string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.signinURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("failed to create signin request: %w", err)
	}
	credential := base64.StdEncoding.EncodeToString([]byte(identifier + ":" + secret))
	req.Header.Set("Authorization", "Basic "+credential)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("signin request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		logging.Warn().Int("status", resp.StatusCode).Msg("Login rejected by platform")
		return "", ErrInvalidCredentials
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTokenBodySize))
	if err != nil {
		return "", fmt.Errorf("failed to read signin response: %w", err)
	}

	token := extractToken(body)
	if token == "" {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		return "", ErrInvalidCredentials
	}

	if err := g.store.SetToken(ctx, token); err != nil {
		return "", fmt.Errorf("failed to persist session token: %w", err)
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	logging.Info().Msg("Login succeeded")
	return token, nil
}

// extractToken pulls the token value out of the sign-in response body.
//
// The platform's response contract is not strictly typed: the token has
// been observed under "token", "jwt" and "accessToken", and some
// deployments return the bare token as the whole body. The fallback
// order is a compatibility contract; preserve it.
func extractToken(body []byte) string {
	var fields struct {
		Token       string `json:"token"`
		JWT         string `json:"jwt"`
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(body, &fields); err == nil {
		switch {
		case fields.Token != "":
			return fields.Token
		case fields.JWT != "":
			return fields.JWT
		case fields.AccessToken != "":
			return fields.AccessToken
		}
	}

	// Bare JSON string body.
	var s string
	if err := json.Unmarshal(body, &s); err == nil {
		return strings.TrimSpace(s)
	}

	return strings.TrimSpace(string(body))
}

// Logout clears the persisted session token and the cached last-area
// value, then signals the navigation collaborator to return to the
// entry view.
//
// Idempotent: logging out with no session is a no-op plus the same
// navigation signal.
func (g *Gateway) Logout(ctx context.Context) {
	g.Terminate(ctx, "logout")
}

// Terminate is Logout with an explicit reason label for the session
// termination metric. The session monitor uses it to distinguish
// expiry-driven teardown from a user-initiated logout.
func (g *Gateway) Terminate(ctx context.Context, reason string) {
	if err := g.store.Clear(ctx); err != nil {
		// The navigation signal still fires; the caller is logged out
		// from the process's point of view either way.
		logging.Err(err).Msg("Failed to clear session store on logout")
	}
	metrics.SessionTerminations.WithLabelValues(reason).Inc()
	g.nav.ToLogin()
}
