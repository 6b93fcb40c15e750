// Progressus - Learning Platform Profile Analytics
// Copyright 2026 Sara A. (saralmv)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/saralmv/progressus

package stats

import (
	"testing"
	"time"

	"github.com/saralmv/progressus/internal/models"
)

func tx(amount float64, path string) models.TransactionRecord {
	return models.TransactionRecord{Type: "xp", Amount: amount, Path: path}
}

func TestJoinKey(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/bahrain/bh-module/ascii-art", "ascii-art"},
		{"/bahrain/bh-module/ascii-art/", "ascii-art"},
		{"ascii-art", "ascii-art"},
		{"", "unknown"},
		{"///", "unknown"},
	}

	for _, tt := range tests {
		if got := JoinKey(tt.path); got != tt.want {
			t.Errorf("JoinKey(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestComputeTotals(t *testing.T) {
	t.Run("level from earliest level transaction", func(t *testing.T) {
		levels := []models.TransactionRecord{
			{Type: "level", Amount: 5},
			{Type: "level", Amount: 7},
		}
		got := ComputeTotals(nil, nil, levels)
		if got.Level != 5 {
			t.Errorf("Level = %d, want 5", got.Level)
		}
	})

	t.Run("level floors at one", func(t *testing.T) {
		levels := []models.TransactionRecord{{Type: "level", Amount: 0}}
		if got := ComputeTotals(nil, nil, levels); got.Level != 1 {
			t.Errorf("Level = %d, want 1", got.Level)
		}
	})

	t.Run("fallback from xp", func(t *testing.T) {
		xp := []models.TransactionRecord{tx(2500, "/a/b/c")}
		got := ComputeTotals(nil, xp, nil)
		if got.TotalXP != 2500 {
			t.Errorf("TotalXP = %v, want 2500", got.TotalXP)
		}
		if got.Level != 2 {
			t.Errorf("Level = %d, want 2", got.Level)
		}
	})

	t.Run("fallback never below one", func(t *testing.T) {
		xp := []models.TransactionRecord{tx(350, "/a/b/c")}
		if got := ComputeTotals(nil, xp, nil); got.Level != 1 {
			t.Errorf("Level = %d, want 1", got.Level)
		}
	})

	t.Run("profile audit numbers carried over", func(t *testing.T) {
		profile := &models.UserProfile{AuditRatio: 1.2, TotalUp: 600, TotalDown: 500}
		got := ComputeTotals(profile, nil, nil)
		if got.AuditRatio.Ratio != 1.2 || got.AuditRatio.Up != 600 || got.AuditRatio.Down != 500 {
			t.Errorf("AuditRatio = %+v", got.AuditRatio)
		}
		if got.AuditRatio.Descriptor != "Strong" {
			t.Errorf("Descriptor = %q, want Strong", got.AuditRatio.Descriptor)
		}
	})
}

func TestAuditDescriptor(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{0, "Insufficient"},
		{0.49, "Insufficient"},
		{0.5, "Meets Min"},
		{0.99, "Meets Min"},
		{1.0, "Strong"},
		{1.49, "Strong"},
		{1.5, "Excellent"},
		{3.2, "Excellent"},
	}

	for _, tt := range tests {
		if got := auditDescriptor(tt.ratio); got != tt.want {
			t.Errorf("auditDescriptor(%v) = %q, want %q", tt.ratio, got, tt.want)
		}
	}
}

func TestComputeProjectXP(t *testing.T) {
	jan := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)

	xp := []models.TransactionRecord{
		tx(100, "/x/m/alpha"),
		tx(50, "/x/m/alpha"),
		tx(200, "/x/m/beta"),
		tx(0, "/x/m/gamma"),
	}
	progress := []models.ProgressRecord{
		{Path: "/x/m/alpha", CreatedAt: jan},
		{Path: "/x/m/alpha", CreatedAt: feb},
		{Path: "/x/m/beta", CreatedAt: jan},
		{Path: "/x/m/unrelated", CreatedAt: feb},
	}

	got := ComputeProjectXP(xp, progress)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (zero-XP project dropped)", len(got))
	}

	// alpha finished later (Feb), so it ranks first.
	if got[0].Key != "alpha" || got[0].XP != 150 || !got[0].FinishedAt.Equal(feb) {
		t.Errorf("got[0] = %+v", got[0])
	}
	if got[1].Key != "beta" || got[1].XP != 200 || !got[1].FinishedAt.Equal(jan) {
		t.Errorf("got[1] = %+v", got[1])
	}
}

func TestComputeProjectXPNoProgress(t *testing.T) {
	got := ComputeProjectXP([]models.TransactionRecord{tx(100, "/x/m/alpha")}, nil)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if !got[0].FinishedAt.IsZero() {
		t.Errorf("FinishedAt = %v, want zero", got[0].FinishedAt)
	}
}

func TestComputeMonthlyCompletions(t *testing.T) {
	jan := time.Date(2026, 1, 10, 23, 30, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)

	t.Run("counts per transaction", func(t *testing.T) {
		xp := []models.TransactionRecord{
			tx(100, "/x/m/alpha"),
			tx(50, "/x/m/alpha"),
			tx(200, "/x/m/beta"),
			tx(10, "/x/m/orphan"),
		}
		progress := []models.ProgressRecord{
			{Path: "/x/m/alpha", CreatedAt: jan},
			{Path: "/x/m/beta", CreatedAt: feb},
		}

		got := ComputeMonthlyCompletions(xp, progress)
		if got["2026-01"] != 2 {
			t.Errorf("2026-01 = %d, want 2", got["2026-01"])
		}
		if got["2026-02"] != 1 {
			t.Errorf("2026-02 = %d, want 1", got["2026-02"])
		}
		if len(got) != 2 {
			t.Errorf("months = %v", got)
		}
	})

	t.Run("nil when nothing correlates", func(t *testing.T) {
		xp := []models.TransactionRecord{tx(10, "/x/m/orphan")}
		progress := []models.ProgressRecord{{Path: "/x/m/other", CreatedAt: jan}}
		if got := ComputeMonthlyCompletions(xp, progress); got != nil {
			t.Errorf("got %v, want nil", got)
		}
	})

	t.Run("latest progress entry decides the month", func(t *testing.T) {
		xp := []models.TransactionRecord{tx(100, "/x/m/alpha")}
		progress := []models.ProgressRecord{
			{Path: "/x/m/alpha", CreatedAt: jan},
			{Path: "/x/m/alpha", CreatedAt: feb},
		}
		got := ComputeMonthlyCompletions(xp, progress)
		if got["2026-02"] != 1 || len(got) != 1 {
			t.Errorf("got %v, want map[2026-02:1]", got)
		}
	})
}

func skill(name string, amount float64) models.TransactionRecord {
	return models.TransactionRecord{Type: "skill_" + name, Amount: amount}
}

func TestComputeSkillDistribution(t *testing.T) {
	t.Run("max per skill, sorted descending", func(t *testing.T) {
		got := ComputeSkillDistribution([]models.TransactionRecord{
			skill("go", 30),
			skill("go", 55),
			skill("go", 40),
			skill("js", 70),
			skill("sql", 20),
		}, nil)

		if len(got.All) != 12 {
			t.Fatalf("len(All) = %d, want 12", len(got.All))
		}
		if got.All[0].Name != "js" || got.All[0].Value != 70 {
			t.Errorf("All[0] = %+v", got.All[0])
		}
		if got.All[1].Name != "go" || got.All[1].Value != 55 {
			t.Errorf("All[1] = %+v", got.All[1])
		}
		if got.All[2].Name != "sql" || got.All[2].Value != 20 {
			t.Errorf("All[2] = %+v", got.All[2])
		}
		if got.All[3].Name != "Skill 4" || got.All[3].Value != 0 {
			t.Errorf("All[3] = %+v, want padded placeholder", got.All[3])
		}
		if got.Top == nil || got.Top.Name != "js" {
			t.Errorf("Top = %+v, want js", got.Top)
		}
	})

	t.Run("halves are six slots each", func(t *testing.T) {
		got := ComputeSkillDistribution([]models.TransactionRecord{skill("go", 10)}, nil)
		if len(got.TopHalf) != 6 || len(got.BottomHalf) != 6 {
			t.Errorf("halves = %d/%d, want 6/6", len(got.TopHalf), len(got.BottomHalf))
		}
	})

	t.Run("ties keep first-seen order", func(t *testing.T) {
		got := ComputeSkillDistribution([]models.TransactionRecord{
			skill("go", 50),
			skill("js", 50),
			skill("sql", 50),
		}, nil)
		if got.All[0].Name != "go" || got.All[1].Name != "js" || got.All[2].Name != "sql" {
			t.Errorf("tie order = %s,%s,%s", got.All[0].Name, got.All[1].Name, got.All[2].Name)
		}
	})

	t.Run("more than twelve skills truncated", func(t *testing.T) {
		var in []models.TransactionRecord
		for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m", "n"} {
			in = append(in, skill(name, 10))
		}
		got := ComputeSkillDistribution(in, nil)
		if len(got.All) != 12 {
			t.Errorf("len(All) = %d, want 12", len(got.All))
		}
	})

	t.Run("no skill transactions falls back to progress path categories", func(t *testing.T) {
		got := ComputeSkillDistribution(nil, []models.ProgressRecord{
			{Path: "/bahrain/bh-module/a"},
			{Path: "/bahrain/bh-module/b"},
			{Path: "/bahrain/piscine-go/c"},
			{Path: ""},
		})
		if got.All[0].Name != "bh-module" || got.All[0].Value != 2 {
			t.Errorf("All[0] = %+v", got.All[0])
		}
		if got.All[1].Name != "piscine-go" || got.All[1].Value != 1 {
			t.Errorf("All[1] = %+v", got.All[1])
		}
		found := false
		for _, e := range got.All {
			if e.Name == "general" && e.Value == 1 {
				found = true
			}
		}
		if !found {
			t.Errorf("empty path not bucketed as general: %+v", got.All)
		}
		if got.Top == nil || got.Top.Name != "bh-module" {
			t.Errorf("Top = %+v, want bh-module", got.Top)
		}
	})

	t.Run("skill transactions win over the progress fallback", func(t *testing.T) {
		got := ComputeSkillDistribution(
			[]models.TransactionRecord{skill("go", 10)},
			[]models.ProgressRecord{{Path: "/bahrain/bh-module/a"}},
		)
		if got.All[0].Name != "go" {
			t.Errorf("All[0] = %+v, want skill entry go", got.All[0])
		}
	})

	t.Run("no input yields all placeholders and nil top", func(t *testing.T) {
		got := ComputeSkillDistribution(nil, nil)
		if len(got.All) != 12 {
			t.Fatalf("len(All) = %d, want 12", len(got.All))
		}
		if got.All[0].Name != "Skill 1" {
			t.Errorf("All[0] = %+v", got.All[0])
		}
		if got.Top != nil {
			t.Errorf("Top = %+v, want nil", got.Top)
		}
	})
}

func TestFormatXP(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "0 B"},
		{999, "999 B"},
		{1000, "1.0 KB"},
		{155500, "155.5 KB"},
		{999999, "1000.0 KB"},
		{1000000, "1.00 MB"},
		{2345000, "2.35 MB"},
	}

	for _, tt := range tests {
		if got := FormatXP(tt.amount); got != tt.want {
			t.Errorf("FormatXP(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestCompute(t *testing.T) {
	jan := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	profile := &models.UserProfile{AuditRatio: 0.4}
	xp := []models.TransactionRecord{tx(1500, "/x/m/alpha")}
	levels := []models.TransactionRecord{{Type: "level", Amount: 3}}
	skills := []models.TransactionRecord{skill("go", 40)}
	progress := []models.ProgressRecord{{Path: "/x/m/alpha", CreatedAt: jan}}

	got := Compute(profile, xp, levels, skills, progress)

	if got.TotalXP != 1500 {
		t.Errorf("TotalXP = %v", got.TotalXP)
	}
	if got.TotalXPDisplay != "1.5 KB" {
		t.Errorf("TotalXPDisplay = %q", got.TotalXPDisplay)
	}
	if got.Level != 3 {
		t.Errorf("Level = %d", got.Level)
	}
	if got.AuditRatio.Descriptor != "Insufficient" {
		t.Errorf("Descriptor = %q", got.AuditRatio.Descriptor)
	}
	if got.ProjectCount != 1 || len(got.Projects) != 1 {
		t.Errorf("Projects = %+v", got.Projects)
	}
	if got.MonthlyCompletions["2026-01"] != 1 {
		t.Errorf("MonthlyCompletions = %v", got.MonthlyCompletions)
	}
	if got.Skills.Top == nil || got.Skills.Top.Name != "go" {
		t.Errorf("Skills.Top = %+v", got.Skills.Top)
	}
}

func TestComputeSkillsFromProgressOnly(t *testing.T) {
	progress := []models.ProgressRecord{
		{Path: "/bahrain/bh-module/a"},
		{Path: "/bahrain/bh-module/b"},
		{Path: "/bahrain/piscine-go/c"},
	}

	got := Compute(nil, nil, nil, nil, progress)

	if got.Skills.All[0].Name != "bh-module" || got.Skills.All[0].Value != 2 {
		t.Errorf("Skills.All[0] = %+v, want bh-module=2", got.Skills.All[0])
	}
	if got.Skills.All[1].Name != "piscine-go" || got.Skills.All[1].Value != 1 {
		t.Errorf("Skills.All[1] = %+v, want piscine-go=1", got.Skills.All[1])
	}
}
