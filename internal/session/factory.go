// Progressus - Learning Platform Profile Analytics
// Copyright 2026 Sara A. (saralmv)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/saralmv/progressus

package session

import (
	"fmt"

	"github.com/saralmv/progressus/internal/config"
)

// StoreType selects the session storage backend.
type StoreType string

const (
	// StoreMemory uses in-memory storage (not persistent).
	StoreMemory StoreType = "memory"

	// StoreBadger uses BadgerDB for persistent session storage.
	StoreBadger StoreType = "badger"
)

// NewStore creates a Store from configuration. Unknown store types are
// rejected here rather than silently falling back, so a typo in config
// cannot downgrade persistence.
func NewStore(cfg *config.SessionConfig) (Store, error) {
	switch StoreType(cfg.Store) {
	case StoreMemory, "":
		return NewMemoryStore(), nil
	case StoreBadger:
		return NewBadgerStore(cfg.StorePath)
	default:
		return nil, fmt.Errorf("unknown session store type %q", cfg.Store)
	}
}
