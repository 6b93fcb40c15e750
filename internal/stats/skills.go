// Progressus - Learning Platform Profile Analytics
// Copyright 2026 Sara A. (saralmv)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/saralmv/progressus

package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/saralmv/progressus/internal/models"
)

const (
	skillTypePrefix = "skill_"
	skillSlots      = 12
)

// ComputeSkillDistribution builds the fixed 12-slot skill chart.
//
// Transactions typed "skill_<name>" contribute their highest amount
// per skill. When no such transaction exists, the fallback counts
// progress records by the second path segment (or the first, or
// "general" when the path is empty). Ties keep first-seen order, the
// list is padded with zero-valued placeholders up to 12 slots, and Top
// points at the first entry with a positive value.
func ComputeSkillDistribution(skills []models.TransactionRecord, progress []models.ProgressRecord) models.SkillDistribution {
	entries := collectSkillAmounts(skills)
	if len(entries) == 0 {
		entries = collectPathCounts(progress)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Value > entries[j].Value
	})

	if len(entries) > skillSlots {
		entries = entries[:skillSlots]
	}
	for i := len(entries); i < skillSlots; i++ {
		entries = append(entries, models.SkillEntry{Name: fmt.Sprintf("Skill %d", i+1)})
	}

	dist := models.SkillDistribution{
		All:        entries,
		TopHalf:    entries[:skillSlots/2],
		BottomHalf: entries[skillSlots/2:],
	}
	for i := range entries {
		if entries[i].Value > 0 {
			dist.Top = &entries[i]
			break
		}
	}
	return dist
}

// collectSkillAmounts keeps the maximum amount seen per "skill_" typed
// transaction, preserving first-seen skill order.
func collectSkillAmounts(skills []models.TransactionRecord) []models.SkillEntry {
	idx := make(map[string]int)
	var entries []models.SkillEntry
	for _, t := range skills {
		if !strings.HasPrefix(t.Type, skillTypePrefix) {
			continue
		}
		name := strings.TrimPrefix(t.Type, skillTypePrefix)
		if name == "" {
			continue
		}
		i, ok := idx[name]
		if !ok {
			idx[name] = len(entries)
			entries = append(entries, models.SkillEntry{Name: name, Value: t.Amount})
			continue
		}
		if t.Amount > entries[i].Value {
			entries[i].Value = t.Amount
		}
	}
	return entries
}

// collectPathCounts is the fallback when no skill-typed transaction is
// present: count the user's progress records by a coarse path category.
func collectPathCounts(progress []models.ProgressRecord) []models.SkillEntry {
	idx := make(map[string]int)
	var entries []models.SkillEntry
	for _, p := range progress {
		name := pathCategory(p.Path)
		i, ok := idx[name]
		if !ok {
			idx[name] = len(entries)
			entries = append(entries, models.SkillEntry{Name: name, Value: 1})
			continue
		}
		entries[i].Value++
	}
	return entries
}

func pathCategory(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	switch {
	case len(parts) > 1 && parts[1] != "":
		return parts[1]
	case len(parts) > 0 && parts[0] != "":
		return parts[0]
	default:
		return "general"
	}
}
