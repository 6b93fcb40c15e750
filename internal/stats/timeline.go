// Progressus - Learning Platform Profile Analytics
// Copyright 2026 Sara A. (saralmv)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/saralmv/progressus

package stats

import (
	"github.com/saralmv/progressus/internal/models"
)

// ComputeMonthlyCompletions buckets finished work by calendar month.
// Every XP transaction whose project key matches a progress record
// counts once, in the month of that project's latest progress entry
// (UTC). Keys are "YYYY-MM". Returns nil when nothing correlates, so
// callers can tell "no activity" apart from an empty month set.
func ComputeMonthlyCompletions(xp []models.TransactionRecord, progress []models.ProgressRecord) map[string]int {
	latest := make(map[string]models.ProgressRecord)
	for _, p := range progress {
		key := JoinKey(p.Path)
		if cur, ok := latest[key]; !ok || p.CreatedAt.After(cur.CreatedAt) {
			latest[key] = p
		}
	}

	var months map[string]int
	for _, t := range xp {
		p, ok := latest[JoinKey(t.Path)]
		if !ok {
			continue
		}
		if months == nil {
			months = make(map[string]int)
		}
		months[p.CreatedAt.UTC().Format("2006-01")]++
	}
	return months
}
