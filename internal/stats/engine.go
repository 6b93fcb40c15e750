// Progressus - Learning Platform Profile Analytics
// Copyright 2026 Sara A. (saralmv)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/saralmv/progressus

package stats

import (
	"github.com/saralmv/progressus/internal/models"
)

// Compute assembles the full derived view from a user's raw records.
// It is a pure function of its inputs.
func Compute(profile *models.UserProfile, xp, levels, skills []models.TransactionRecord, progress []models.ProgressRecord) models.DerivedStats {
	totals := ComputeTotals(profile, xp, levels)
	projects := ComputeProjectXP(xp, progress)

	return models.DerivedStats{
		TotalXP:            totals.TotalXP,
		TotalXPDisplay:     FormatXP(totals.TotalXP),
		Level:              totals.Level,
		AuditRatio:         totals.AuditRatio,
		Projects:           projects,
		ProjectCount:       len(projects),
		MonthlyCompletions: ComputeMonthlyCompletions(xp, progress),
		Skills:             ComputeSkillDistribution(skills, progress),
	}
}
