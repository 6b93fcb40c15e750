// Progressus - Learning Platform Profile Analytics
// Copyright 2026 Sara A. (saralmv)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/saralmv/progressus

package session

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Subject claim fallback paths, tried in order. The platform's token
// contract is not strictly typed: different upstream versions put the
// numeric user ID under different claims, so the order here is a
// compatibility contract and must not be reordered.
const (
	claimSubject      = "sub"
	claimHasuraNS     = "https://hasura.io/jwt/claims"
	claimHasuraUserID = "x-hasura-user-id"
	claimLegacyUserID = "user_id"
	claimLegacyID     = "id"
)

// parser decodes without verifying the signature. Progressus is a
// client of the platform; the signature is checked by the issuer on
// every API call, while we only need structural and temporal validity.
var parser = jwt.NewParser()

// decodeClaims parses the token payload without signature verification.
// Returns false for anything that is not a three-segment token with a
// decodable payload.
func decodeClaims(token string) (jwt.MapClaims, bool) {
	if token == "" {
		return nil, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	return claims, true
}

// IsValid reports whether the token is structurally valid and, when an
// expiry claim is present, not yet expired at now.
//
// A token without an expiry claim is treated as valid indefinitely.
// This mirrors the platform's own behavior and is a documented
// weakness, not an oversight: the platform rejects such tokens
// server-side when it chooses to.
func IsValid(token string, now time.Time) bool {
	claims, ok := decodeClaims(token)
	if !ok {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return false
	}
	if exp == nil {
		return true
	}
	return exp.Time.After(now)
}

// ExtractSubjectID returns the numeric user identity from the token,
// trying the primary subject claim, the platform's nested custom-claims
// path, then two legacy claim names, in that order. Returns false when
// the token is undecodable or no claim yields a number. Never panics.
func ExtractSubjectID(token string) (int64, bool) {
	claims, ok := decodeClaims(token)
	if !ok {
		return 0, false
	}

	if id, ok := coerceID(claims[claimSubject]); ok {
		return id, true
	}
	if nested, ok := claims[claimHasuraNS].(map[string]any); ok {
		if id, ok := coerceID(nested[claimHasuraUserID]); ok {
			return id, true
		}
	}
	if id, ok := coerceID(claims[claimLegacyUserID]); ok {
		return id, true
	}
	if id, ok := coerceID(claims[claimLegacyID]); ok {
		return id, true
	}

	return 0, false
}

// coerceID converts a claim value to an int64 user ID. JSON numbers
// arrive as float64; the hasura claim is a decimal string.
func coerceID(v any) (int64, bool) {
	switch val := v.(type) {
	case float64:
		return int64(val), true
	case int64:
		return val, true
	case string:
		if val == "" {
			return 0, false
		}
		if id, err := strconv.ParseInt(val, 10, 64); err == nil {
			return id, true
		}
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return int64(f), true
		}
		return 0, false
	default:
		return 0, false
	}
}
