// Progressus - Learning Platform Profile Analytics
// Copyright 2026 Sara A. (saralmv)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/saralmv/progressus

package stats

import (
	"sort"
	"time"

	"github.com/saralmv/progressus/internal/models"
)

// ComputeProjectXP groups XP transactions by project key and pairs
// each group with the latest completion time drawn from progress
// records sharing the same key. Entries whose summed XP is not
// positive are dropped, and the result is ordered by completion time
// descending. Projects with XP but no correlated progress record keep
// a zero FinishedAt and sort last.
func ComputeProjectXP(xp []models.TransactionRecord, progress []models.ProgressRecord) []models.ProjectXP {
	type agg struct {
		xp       float64
		finished time.Time
		order    int
	}

	groups := make(map[string]*agg)
	var keys []string
	for _, t := range xp {
		key := JoinKey(t.Path)
		g, ok := groups[key]
		if !ok {
			g = &agg{order: len(keys)}
			groups[key] = g
			keys = append(keys, key)
		}
		g.xp += t.Amount
	}

	for _, p := range progress {
		g, ok := groups[JoinKey(p.Path)]
		if !ok {
			continue
		}
		if p.CreatedAt.After(g.finished) {
			g.finished = p.CreatedAt
		}
	}

	out := make([]models.ProjectXP, 0, len(keys))
	for _, key := range keys {
		g := groups[key]
		if g.xp <= 0 {
			continue
		}
		out = append(out, models.ProjectXP{Key: key, XP: g.xp, FinishedAt: g.finished})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FinishedAt.After(out[j].FinishedAt)
	})
	return out
}
