// Progressus - Learning Platform Profile Analytics
// Copyright 2026 Sara A. (saralmv)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/saralmv/progressus

package stats

import "fmt"

// FormatXP renders an XP amount in the platform's decimal units:
// bytes below 1000, one-decimal KB below a million, two-decimal MB
// above.
func FormatXP(amount float64) string {
	switch {
	case amount < 1000:
		return fmt.Sprintf("%d B", int(amount))
	case amount < 1000000:
		return fmt.Sprintf("%.1f KB", amount/1000)
	default:
		return fmt.Sprintf("%.2f MB", amount/1000000)
	}
}
