// Progressus - Learning Platform Profile Analytics
// Copyright 2026 Sara A. (saralmv)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/saralmv/progressus

package query

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the query error taxonomy. Callers classify with
// errors.Is / errors.As; none of these wrap upstream detail beyond
// what their own fields carry.
var (
	// ErrSessionExpired is returned after a fatal session event. The
	// session has already been torn down locally when this surfaces;
	// callers must still treat it as an error, not rely on the side
	// effect alone.
	ErrSessionExpired = errors.New("session expired, please log in again")

	// ErrMalformedResponse is returned when a success response body
	// does not decode as the expected structure.
	ErrMalformedResponse = errors.New("malformed response body")
)

// TransportError is an HTTP-level failure that is not auth-related.
type TransportError struct {
	// Status is the HTTP status code of the failed response.
	Status int

	// Message carries joined server-reported error messages when the
	// body had any, otherwise "".
	Message string
}

func (e *TransportError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

// QueryError is an application-level error list returned by the API,
// possibly alongside a success HTTP status. AuthRelated records whether
// the messages were classified as an auth failure; when true the
// session has already been terminated as a side effect, but the error
// surfaced is still QueryError, not ErrSessionExpired. That asymmetry
// is part of the contract.
type QueryError struct {
	Messages    []string
	AuthRelated bool
}

func (e *QueryError) Error() string {
	return strings.Join(e.Messages, "; ")
}
