// Progressus - Learning Platform Profile Analytics
// Copyright 2026 Sara A. (saralmv)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/saralmv/progressus

package query

import "strings"

// ServerError is one entry of the API's application-level error list.
type ServerError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

// codeInvalidJWT is the structured error code the platform attaches to
// token rejections.
const codeInvalidJWT = "invalid-jwt"

// authErrorMarkers are the message substrings that mark an error as
// auth-related. Matching human-readable text is brittle, which is why
// the heuristic lives in exactly one place; evolve it here.
var authErrorMarkers = []string{"denied", "unauthorized", "invalid"}

// classifyServerErrors reports whether any server error is
// auth-related, by case-insensitive substring match on the message or
// by structured error code.
func classifyServerErrors(errs []ServerError) bool {
	for _, e := range errs {
		if e.Extensions.Code == codeInvalidJWT {
			return true
		}
		msg := strings.ToLower(e.Message)
		for _, marker := range authErrorMarkers {
			if strings.Contains(msg, marker) {
				return true
			}
		}
	}
	return false
}

// joinMessages joins server error messages for display.
func joinMessages(errs []ServerError) []string {
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, e.Message)
	}
	return messages
}
