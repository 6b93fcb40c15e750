// Progressus - Learning Platform Profile Analytics
// Copyright 2026 Sara A. (saralmv)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/saralmv/progressus

// Package fetch defines the fixed query templates for each record set
// and binds them to a query.Executor. Each fetcher returns the relevant
// record slice (or single profile), defaulting to empty when the server
// returns no data for the key.
package fetch

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/saralmv/progressus/internal/models"
	"github.com/saralmv/progressus/internal/query"
)

// Query templates. The variables binder is always {"uid": <user id>}
// except for userIDQuery, which identifies the caller from the token.
const (
	userIDQuery = `{ user { id } }`

	userProfileQuery = `query($uid: Int!) {
  user(where: { id: { _eq: $uid } }) {
    id login firstName lastName email attrs auditRatio totalUp totalDown
  }
}`

	xpTransactionsQuery = `query($uid: Int!) {
  transaction(where: { userId: { _eq: $uid }, type: { _eq: "xp" } }, order_by: { createdAt: asc }) {
    amount createdAt path
  }
}`

	levelTransactionsQuery = `query($uid: Int!) {
  transaction(where: { userId: { _eq: $uid }, type: { _eq: "level" } }, order_by: { createdAt: asc }) {
    amount createdAt
  }
}`

	progressQuery = `query($uid: Int!) {
  progress(where: { userId: { _eq: $uid } }) {
    grade createdAt path objectId
  }
}`

	skillTransactionsQuery = `query($uid: Int!) {
  transaction(where: { userId: { _eq: $uid }, type: { _like: "skill_%" } }) {
    type amount createdAt path
  }
}`
)

// Fetcher executes the record queries for one user.
type Fetcher struct {
	exec query.Executor
}

// NewFetcher binds the query templates to an executor.
func NewFetcher(exec query.Executor) *Fetcher {
	return &Fetcher{exec: exec}
}

func uidVars(uid int64) map[string]any {
	return map[string]any{"uid": uid}
}

// UserID resolves the caller's user ID from the API. This is the
// fallback path when the session token carries no usable subject claim.
func (f *Fetcher) UserID(ctx context.Context) (int64, error) {
	data, err := f.exec.Execute(ctx, "user_id", userIDQuery, nil)
	if err != nil {
		return 0, err
	}

	var payload struct {
		User []struct {
			ID int64 `json:"id"`
		} `json:"user"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return 0, fmt.Errorf("%w: user_id", query.ErrMalformedResponse)
	}
	if len(payload.User) == 0 || payload.User[0].ID == 0 {
		return 0, fmt.Errorf("%w: user_id payload empty", query.ErrMalformedResponse)
	}
	return payload.User[0].ID, nil
}

// UserProfile fetches the user record, nil when the server returns no
// matching user.
func (f *Fetcher) UserProfile(ctx context.Context, uid int64) (*models.UserProfile, error) {
	data, err := f.exec.Execute(ctx, "user_profile", userProfileQuery, uidVars(uid))
	if err != nil {
		return nil, err
	}

	// Attrs is decoded separately because the platform has shipped it
	// both as an object and as a string-encoded object.
	var payload struct {
		User []struct {
			models.UserProfile
			Attrs json.RawMessage `json:"attrs"`
		} `json:"user"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: user_profile", query.ErrMalformedResponse)
	}
	if len(payload.User) == 0 {
		return nil, nil
	}

	profile := payload.User[0].UserProfile
	profile.Attrs = models.ParseAttrs(payload.User[0].Attrs)
	return &profile, nil
}

// XPTransactions fetches the user's XP ledger, ascending by time, with
// the piscine deduplication filter applied.
func (f *Fetcher) XPTransactions(ctx context.Context, uid int64) ([]models.TransactionRecord, error) {
	records, err := f.transactions(ctx, "xp_transactions", xpTransactionsQuery, uid)
	if err != nil {
		return nil, err
	}
	return filterPiscine(records), nil
}

// LevelTransactions fetches the user's level grants, ascending by time.
func (f *Fetcher) LevelTransactions(ctx context.Context, uid int64) ([]models.TransactionRecord, error) {
	return f.transactions(ctx, "level_transactions", levelTransactionsQuery, uid)
}

// SkillTransactions fetches the user's skill-percentage grants.
func (f *Fetcher) SkillTransactions(ctx context.Context, uid int64) ([]models.TransactionRecord, error) {
	return f.transactions(ctx, "skill_transactions", skillTransactionsQuery, uid)
}

// Progress fetches the user's completion markers.
func (f *Fetcher) Progress(ctx context.Context, uid int64) ([]models.ProgressRecord, error) {
	data, err := f.exec.Execute(ctx, "progress", progressQuery, uidVars(uid))
	if err != nil {
		return nil, err
	}

	var payload struct {
		Progress []models.ProgressRecord `json:"progress"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: progress", query.ErrMalformedResponse)
	}
	if payload.Progress == nil {
		return []models.ProgressRecord{}, nil
	}
	return payload.Progress, nil
}

// transactions runs one of the transaction query templates.
func (f *Fetcher) transactions(ctx context.Context, operation, gql string, uid int64) ([]models.TransactionRecord, error) {
	data, err := f.exec.Execute(ctx, operation, gql, uidVars(uid))
	if err != nil {
		return nil, err
	}

	var payload struct {
		Transaction []models.TransactionRecord `json:"transaction"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %s", query.ErrMalformedResponse, operation)
	}
	if payload.Transaction == nil {
		return []models.TransactionRecord{}, nil
	}
	return payload.Transaction, nil
}

// filterPiscine drops XP records from inside a piscine while keeping
// the piscine root entry itself. The upstream ledger records both an
// aggregate piscine entry and per-exercise entries beneath it; only the
// aggregate counts toward top-level XP. A record is kept when its path
// has no further '/' after the "piscine" marker.
func filterPiscine(records []models.TransactionRecord) []models.TransactionRecord {
	kept := make([]models.TransactionRecord, 0, len(records))
	for _, r := range records {
		path := strings.ToLower(r.Path)
		idx := strings.Index(path, "piscine")
		if idx == -1 || !strings.Contains(path[idx+len("piscine"):], "/") {
			kept = append(kept, r)
		}
	}
	return kept
}
