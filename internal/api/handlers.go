// Progressus - Learning Platform Profile Analytics
// Copyright 2026 Sara A. (saralmv)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/saralmv/progressus

// Package api exposes the profile and stats data over HTTP for the
// rendering layer. Routing uses chi; every response uses the uniform
// envelope from internal/models.
package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/saralmv/progressus/internal/auth"
	"github.com/saralmv/progressus/internal/fetch"
	"github.com/saralmv/progressus/internal/logging"
	"github.com/saralmv/progressus/internal/session"
	"github.com/saralmv/progressus/internal/stats"
)

// validate is the shared validator instance for request binding.
var validate = validator.New()

// maxRequestBodySize bounds inbound JSON bodies.
const maxRequestBodySize = 1 << 20

// Waker nudges the session monitor to revalidate ahead of schedule.
// Satisfied by *monitor.Monitor.
type Waker interface {
	Wake()
}

// NopWaker discards wake signals, for tests and configurations
// without a monitor.
type NopWaker struct{}

// Wake implements Waker.
func (NopWaker) Wake() {}

// Handler serves the API endpoints.
type Handler struct {
	gateway *auth.Gateway
	store   session.Store
	fetcher *fetch.Fetcher
	waker   Waker
}

// NewHandler creates the API handler. A nil waker is replaced with a
// no-op.
func NewHandler(gateway *auth.Gateway, store session.Store, fetcher *fetch.Fetcher, waker Waker) *Handler {
	if waker == nil {
		waker = NopWaker{}
	}
	return &Handler{
		gateway: gateway,
		store:   store,
		fetcher: fetcher,
		waker:   waker,
	}
}

// HealthLive reports process liveness.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondData(w, http.StatusOK, map[string]string{"status": "alive"})
}

// HealthReady reports readiness: the session store must be reachable.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if _, err := h.store.Token(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, codeInternal, "session store unavailable", err)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"status": "ready"})
}

// loginRequest is the login endpoint's body. The identifier may be a
// username or an email address.
type loginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password"   validate:"required"`
}

// Login exchanges credentials for a platform session.
//
// Failures answer 401 with a deliberately generic message; the
// upstream rejection detail is never echoed.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	body := http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, "invalid request body", err)
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, "identifier and password are required", nil)
		return
	}

	if _, err := h.gateway.Login(r.Context(), req.Identifier, req.Password); err != nil {
		writeQueryError(w, err)
		return
	}

	respondData(w, http.StatusOK, map[string]bool{"authenticated": true})
}

// Logout tears down the current session. Idempotent.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.gateway.Logout(r.Context())
	respondData(w, http.StatusOK, map[string]bool{"authenticated": false})
}

// sessionInfo is the Session endpoint's payload.
type sessionInfo struct {
	Authenticated bool  `json:"authenticated"`
	UserID        int64 `json:"user_id,omitempty"`
}

// Session reports whether a valid session is present, and the subject
// ID when the token carries one.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	h.waker.Wake()

	token, err := h.store.Token(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to read session", err)
		return
	}
	if token == "" || !session.IsValid(token, time.Now()) {
		respondData(w, http.StatusOK, sessionInfo{Authenticated: false})
		return
	}

	info := sessionInfo{Authenticated: true}
	if uid, ok := session.ExtractSubjectID(token); ok {
		info.UserID = uid
	}
	respondData(w, http.StatusOK, info)
}

// userID resolves the current user's numeric ID: from the stored
// token's claims when possible, otherwise by asking the platform.
func (h *Handler) userID(ctx context.Context) (int64, bool, error) {
	token, err := h.store.Token(ctx)
	if err != nil || token == "" {
		return 0, false, err
	}
	if uid, ok := session.ExtractSubjectID(token); ok {
		return uid, true, nil
	}
	uid, err := h.fetcher.UserID(ctx)
	if err != nil {
		return 0, false, err
	}
	return uid, true, nil
}

// Profile returns the user's raw records: identity, XP, levels,
// skills and progress.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	h.waker.Wake()

	uid, ok, err := h.userID(r.Context())
	if err != nil {
		writeQueryError(w, err)
		return
	}
	if !ok {
		respondError(w, http.StatusUnauthorized, codeNoSession, "no active session", nil)
		return
	}

	data, err := h.fetcher.LoadProfile(r.Context(), uid)
	if err != nil {
		writeQueryError(w, err)
		return
	}

	respondData(w, http.StatusOK, data)
}

// Stats returns the derived statistics view.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	h.waker.Wake()

	uid, ok, err := h.userID(r.Context())
	if err != nil {
		writeQueryError(w, err)
		return
	}
	if !ok {
		respondError(w, http.StatusUnauthorized, codeNoSession, "no active session", nil)
		return
	}

	start := time.Now()
	data, err := h.fetcher.LoadProfile(r.Context(), uid)
	if err != nil {
		writeQueryError(w, err)
		return
	}

	derived := stats.Compute(data.User, data.XP, data.Levels, data.Skills, data.Progress)
	logging.Ctx(r.Context()).Debug().
		Int64("user_id", uid).
		Dur("elapsed", time.Since(start)).
		Msg("Derived stats computed")

	respondData(w, http.StatusOK, derived)
}

// areaRequest is the body for updating the remembered dashboard area.
type areaRequest struct {
	Area string `json:"area" validate:"required,max=128"`
}

// Area returns the last dashboard area the user viewed, defaulting to
// empty when none has been recorded.
func (h *Handler) Area(w http.ResponseWriter, r *http.Request) {
	area, err := h.store.LastArea(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to read last area", err)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"area": area})
}

// SetArea records the dashboard area the user is viewing, so the next
// session can resume there.
func (h *Handler) SetArea(w http.ResponseWriter, r *http.Request) {
	var req areaRequest
	body := http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, "invalid request body", err)
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, "area is required and at most 128 characters", nil)
		return
	}

	// Best effort: a failed write loses a convenience, not data.
	if err := h.store.SetLastArea(r.Context(), req.Area); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Failed to persist last area")
	}
	respondData(w, http.StatusOK, map[string]string{"area": req.Area})
}

// XPDisplay formats an XP amount through the same units the stats use.
// Exposed for the rendering layer's ad-hoc formatting needs.
func (h *Handler) XPDisplay(w http.ResponseWriter, r *http.Request) {
	var amount float64
	if raw := r.URL.Query().Get("amount"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, codeValidation, "amount must be a number", nil)
			return
		}
		amount = parsed
	}
	respondData(w, http.StatusOK, map[string]string{"display": stats.FormatXP(amount)})
}
