// Progressus - Learning Platform Profile Analytics
// Copyright 2026 Sara A. (saralmv)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/saralmv/progressus

package models

import "time"

// AuditRatio summarizes the user's audit standing. Descriptor is the
// human-readable classification bucket derived from Ratio.
type AuditRatio struct {
	Ratio      float64 `json:"ratio"`
	Up         float64 `json:"up"`
	Down       float64 `json:"down"`
	Descriptor string  `json:"descriptor"`
}

// Totals holds the headline numbers of a profile.
type Totals struct {
	TotalXP    float64    `json:"totalXP"`
	Level      int        `json:"level"`
	AuditRatio AuditRatio `json:"auditRatio"`
}

// ProjectXP is one row of the per-project XP ranking. FinishedAt is
// the latest correlated progress timestamp, zero when no progress
// record shares the project's join key.
type ProjectXP struct {
	Key        string    `json:"key"`
	XP         float64   `json:"xp"`
	FinishedAt time.Time `json:"finishedAt"`
}

// SkillEntry is one named skill with its best recorded value.
type SkillEntry struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// SkillDistribution is the fixed 12-slot skill ranking. All always has
// exactly 12 entries, padded with zero-valued placeholders; TopHalf and
// BottomHalf are its two 6-slot views. Top is the highest-ranked entry
// with a strictly positive value, nil when none exists.
type SkillDistribution struct {
	All        []SkillEntry `json:"all"`
	TopHalf    []SkillEntry `json:"topHalf"`
	BottomHalf []SkillEntry `json:"bottomHalf"`
	Top        *SkillEntry  `json:"top,omitempty"`
}

// DerivedStats is the full statistics document recomputed fresh on
// every profile load and handed to the rendering layer. It is a pure
// function of the fetched record sets and is never persisted.
type DerivedStats struct {
	TotalXP            float64           `json:"totalXP"`
	TotalXPDisplay     string            `json:"totalXPDisplay"`
	Level              int               `json:"level"`
	AuditRatio         AuditRatio        `json:"auditRatio"`
	Projects           []ProjectXP       `json:"projects"`
	ProjectCount       int               `json:"projectCount"`
	MonthlyCompletions map[string]int    `json:"monthlyCompletions,omitempty"`
	Skills             SkillDistribution `json:"skills"`
}
