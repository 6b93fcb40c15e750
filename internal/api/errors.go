// Progressus - Learning Platform Profile Analytics
// Copyright 2026 Sara A. (saralmv)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/saralmv/progressus

package api

import (
	"errors"
	"net/http"

	"github.com/saralmv/progressus/internal/auth"
	"github.com/saralmv/progressus/internal/query"
)

// Error codes returned in the response envelope.
const (
	codeValidation      = "VALIDATION_ERROR"
	codeInvalidLogin    = "INVALID_CREDENTIALS"
	codeSessionExpired  = "SESSION_EXPIRED"
	codeNoSession       = "NO_SESSION"
	codeUpstreamError   = "UPSTREAM_ERROR"
	codeUpstreamRefused = "UPSTREAM_REFUSED"
	codeMalformedData   = "MALFORMED_DATA"
	codeInternal        = "INTERNAL_ERROR"
)

// writeQueryError maps a data-retrieval error onto an HTTP status and
// error code.
//
// Session expiry becomes 401 so the caller knows to re-authenticate.
// Upstream query rejections pass through as 502: the platform answered
// but refused the operation. Everything else is a 500.
func writeQueryError(w http.ResponseWriter, err error) {
	var (
		transportErr *query.TransportError
		queryErr     *query.QueryError
	)

	switch {
	case errors.Is(err, query.ErrSessionExpired):
		respondError(w, http.StatusUnauthorized, codeSessionExpired, query.ErrSessionExpired.Error(), nil)
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, codeInvalidLogin, auth.ErrInvalidCredentials.Error(), nil)
	case errors.Is(err, query.ErrMalformedResponse):
		respondError(w, http.StatusBadGateway, codeMalformedData, "platform returned an unreadable response", err)
	case errors.As(err, &queryErr):
		respondError(w, http.StatusBadGateway, codeUpstreamRefused, queryErr.Error(), err)
	case errors.As(err, &transportErr):
		respondError(w, http.StatusBadGateway, codeUpstreamError, transportErr.Error(), err)
	default:
		respondError(w, http.StatusInternalServerError, codeInternal, "internal error", err)
	}
}
