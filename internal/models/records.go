// Progressus - Learning Platform Profile Analytics
// Copyright 2026 Sara A. (saralmv)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/saralmv/progressus

// Package models defines the record types fetched from the learning
// platform and the derived statistics handed to the rendering layer.
package models

import (
	"time"

	"github.com/goccy/go-json"
)

// TransactionRecord is an atomic ledger entry scoped to one user. The
// Type field distinguishes XP grants ("xp"), level grants ("level") and
// skill-percentage grants ("skill_<name>"). Records are immutable once
// fetched.
type TransactionRecord struct {
	Type      string    `json:"type,omitempty"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"createdAt"`
	Path      string    `json:"path,omitempty"`
}

// ProgressRecord marks completion of a unit of work identified by Path.
type ProgressRecord struct {
	Grade     float64   `json:"grade"`
	CreatedAt time.Time `json:"createdAt"`
	Path      string    `json:"path"`
	ObjectID  int64     `json:"objectId"`
}

// UserProfile is the platform's user record. Attrs is an opaque
// key-value map whose schema is owned by the platform.
type UserProfile struct {
	ID         int64          `json:"id"`
	Login      string         `json:"login"`
	FirstName  string         `json:"firstName"`
	LastName   string         `json:"lastName"`
	Email      string         `json:"email"`
	Attrs      map[string]any `json:"attrs"`
	AuditRatio float64        `json:"auditRatio"`
	TotalUp    float64        `json:"totalUp"`
	TotalDown  float64        `json:"totalDown"`
}

// ParseAttrs normalizes the platform's attrs payload, which arrives
// either as a JSON object or as a string-encoded JSON object depending
// on upstream version. Returns an empty map on any decode failure.
func ParseAttrs(raw json.RawMessage) map[string]any {
	if len(raw) == 0 {
		return map[string]any{}
	}

	attrs := map[string]any{}
	if err := json.Unmarshal(raw, &attrs); err == nil {
		return attrs
	}

	// String-encoded variant: unwrap, then decode the inner object.
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		inner := map[string]any{}
		if err := json.Unmarshal([]byte(s), &inner); err == nil {
			return inner
		}
	}

	return map[string]any{}
}
