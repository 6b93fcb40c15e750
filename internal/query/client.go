// Progressus - Learning Platform Profile Analytics
// Copyright 2026 Sara A. (saralmv)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/saralmv/progressus

// Package query executes authenticated GraphQL queries against the
// learning platform and classifies failures into a uniform error
// taxonomy (errors.go). It is the single chokepoint for all data
// access, and the only place where a data call can force session
// termination.
package query

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/saralmv/progressus/internal/auth"
	"github.com/saralmv/progressus/internal/config"
	"github.com/saralmv/progressus/internal/logging"
	"github.com/saralmv/progressus/internal/metrics"
	"github.com/saralmv/progressus/internal/session"
)

// maxResponseBodySize bounds response body reads. Record sets for a
// single user fit comfortably; anything larger is upstream misbehavior.
const maxResponseBodySize = 8 << 20 // 8MB

// Executor is the interface the record fetchers are built on. The
// operation name only labels metrics and logs; it is not transmitted.
type Executor interface {
	Execute(ctx context.Context, operation, gql string, variables map[string]any) (json.RawMessage, error)
}

// Client executes GraphQL queries with bearer authentication.
//
// Safe for concurrent use. Concurrent calls that each detect a fatal
// session event race benignly: session teardown is idempotent.
type Client struct {
	endpoint string
	store    session.Store
	nav      auth.Navigator
	client   *http.Client
	limiter  *rate.Limiter
}

// NewClient creates a query client for the configured platform.
func NewClient(platform *config.PlatformConfig, queryCfg *config.QueryConfig, store session.Store, nav auth.Navigator) *Client {
	limit := rate.Inf
	burst := 0
	if queryCfg.RatePerSecond > 0 {
		limit = rate.Limit(queryCfg.RatePerSecond)
		burst = queryCfg.Burst
		if burst < 1 {
			burst = 1
		}
	}
	return &Client{
		endpoint: platform.GraphQLURL(),
		store:    store,
		nav:      nav,
		client:   &http.Client{Timeout: platform.Timeout},
		limiter:  rate.NewLimiter(limit, burst),
	}
}

// graphqlRequest is the wire shape of a query submission.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// graphqlResponse is the wire shape of the platform's reply.
type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []ServerError   `json:"errors"`
}

// Execute submits one query with the current session token attached.
//
// Failure classification, in evaluation order:
//  1. 401/403 responses are fatal session events: the session is
//     cleared, the navigation collaborator is signaled, and
//     ErrSessionExpired is returned regardless of body content.
//  2. Other non-success statuses return *TransportError, carrying the
//     joined server messages when the body had any.
//  3. A body that fails to decode returns ErrMalformedResponse when
//     the HTTP status was success, *TransportError otherwise.
//  4. An application-level error list (even with HTTP 200) returns
//     *QueryError; when classified auth-related the session is also
//     terminated, but the surfaced error stays *QueryError.
func (c *Client) Execute(ctx context.Context, operation, gql string, variables map[string]any) (json.RawMessage, error) {
	start := time.Now()
	data, err := c.execute(ctx, operation, gql, variables)
	metrics.ObserveQuery(operation, start, errorType(err))
	return data, err
}

// errorType maps an Execute error onto a metrics label.
func errorType(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSessionExpired):
		return "session_expired"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed"
	default:
		var qerr *QueryError
		if errors.As(err, &qerr) {
			return "query_error"
		}
		var terr *TransportError
		if errors.As(err, &terr) {
			return "transport"
		}
		return "network"
	}
}

func (c *Client) execute(ctx context.Context, operation, gql string, variables map[string]any) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	if variables == nil {
		variables = map[string]any{}
	}
	payload, err := json.Marshal(graphqlRequest{Query: gql, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s request: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")

	token, err := c.store.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read session token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", operation, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", operation, err)
	}

	success := resp.StatusCode >= 200 && resp.StatusCode < 300

	// Decode is attempted on every body; a failed decode is only
	// meaningful in combination with the HTTP status below.
	var decoded graphqlResponse
	decodeErr := error(nil)
	if len(bytes.TrimSpace(body)) > 0 {
		decodeErr = json.Unmarshal(body, &decoded)
	}

	// Fatal session event: unauthorized or forbidden, regardless of
	// what the body says (it may be empty or malformed).
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		c.terminateSession(ctx, "http_status")
		return nil, ErrSessionExpired
	}

	if !success {
		terr := &TransportError{Status: resp.StatusCode}
		if decodeErr == nil && len(decoded.Errors) > 0 {
			terr.Message = strings.Join(joinMessages(decoded.Errors), "; ")
		}
		return nil, terr
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, operation)
	}

	if len(decoded.Errors) > 0 {
		qerr := &QueryError{
			Messages:    joinMessages(decoded.Errors),
			AuthRelated: classifyServerErrors(decoded.Errors),
		}
		if qerr.AuthRelated {
			// Terminate, but keep surfacing QueryError: the caller sees
			// what the server said; the session state is already gone.
			c.terminateSession(ctx, "server_error")
		}
		return nil, qerr
	}

	return decoded.Data, nil
}

// terminateSession clears persisted session state and signals the
// navigation collaborator. Idempotent; safe to invoke from concurrent
// in-flight calls.
func (c *Client) terminateSession(ctx context.Context, reason string) {
	if err := c.store.Clear(ctx); err != nil {
		logging.Err(err).Msg("Failed to clear session after fatal session event")
	}
	metrics.SessionTerminations.WithLabelValues(reason).Inc()
	logging.Warn().Str("reason", reason).Msg("Session terminated by query client")
	c.nav.ToLogin()
}
