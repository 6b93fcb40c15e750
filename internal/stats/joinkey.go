// Progressus - Learning Platform Profile Analytics
// Copyright 2026 Sara A. (saralmv)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/saralmv/progressus

// Package stats derives profile statistics from fetched record sets.
// Every function here is pure, total and deterministic: no I/O, no
// panics, identical inputs give identical outputs.
package stats

import "strings"

// unknownKey is the join key used for records with an empty path.
const unknownKey = "unknown"

// JoinKey returns the last slash-delimited segment of a record path.
//
// Transaction and progress records carry no foreign key; the final
// path segment is the only correlation between an XP grant and the
// progress event that completed the same unit of work. It is a
// best-effort join, not a guaranteed 1:1 relation, and this function
// is its single definition.
func JoinKey(path string) string {
	key := unknownKey
	for _, segment := range strings.Split(path, "/") {
		if segment != "" {
			key = segment
		}
	}
	return key
}
