// Progressus - Learning Platform Profile Analytics
// Copyright 2026 Sara A. (saralmv)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/saralmv/progressus

package stats

import (
	"math"

	"github.com/saralmv/progressus/internal/models"
)

// xpPerFallbackLevel is the divisor used to estimate a level when no
// level transaction exists.
const xpPerFallbackLevel = 1000

// ComputeTotals derives the headline numbers: total XP, level and
// audit ratio.
//
// Level comes from the earliest level transaction when any exists (the
// list arrives ascending by time), floored at 1; otherwise it falls
// back to floor(totalXP/1000), also floored at 1. A nil profile yields
// zeroed audit numbers rather than a panic.
func ComputeTotals(profile *models.UserProfile, xp, levels []models.TransactionRecord) models.Totals {
	var totalXP float64
	for _, t := range xp {
		totalXP += t.Amount
	}

	level := 1
	if len(levels) > 0 {
		level = int(levels[0].Amount)
	} else {
		level = int(math.Floor(totalXP / xpPerFallbackLevel))
	}
	if level < 1 {
		level = 1
	}

	ratio := models.AuditRatio{}
	if profile != nil {
		ratio.Ratio = profile.AuditRatio
		ratio.Up = profile.TotalUp
		ratio.Down = profile.TotalDown
	}
	ratio.Descriptor = auditDescriptor(ratio.Ratio)

	return models.Totals{TotalXP: totalXP, Level: level, AuditRatio: ratio}
}

// auditDescriptor classifies an audit ratio into its display bucket.
// Boundaries are inclusive on the lower bound, exclusive on the upper.
func auditDescriptor(ratio float64) string {
	switch {
	case ratio < 0.5:
		return "Insufficient"
	case ratio < 1.0:
		return "Meets Min"
	case ratio < 1.5:
		return "Strong"
	default:
		return "Excellent"
	}
}
