// Progressus - Learning Platform Profile Analytics
// Copyright 2026 Sara A. (saralmv)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/saralmv/progressus

// Package session owns the persisted session state: the bearer token
// issued by the platform and the cosmetic "last viewed area" string.
// It also provides offline token validation (validator.go).
//
// There is exactly one session per process. The rendering layer never
// reaches into the store directly; it goes through the auth gateway
// and the validator.
package session

import (
	"context"
	"sync"
)

// Well-known storage keys. These match the upstream web client so a
// shared BadgerDB directory round-trips cleanly.
const (
	// TokenKey is the storage key for the session bearer token.
	TokenKey = "jwt"

	// LastAreaKey is the storage key for the last viewed dashboard area.
	LastAreaKey = "lastArea"
)

// Store is the persistence boundary for session state.
//
// All methods are safe for concurrent use. Clear removes both the
// token and the last-area value and is idempotent: clearing an empty
// store is a no-op, and concurrent Clear calls are benign.
type Store interface {
	// Token returns the persisted session token, or "" when absent.
	Token(ctx context.Context) (string, error)

	// SetToken persists the session token.
	SetToken(ctx context.Context, token string) error

	// LastArea returns the persisted last viewed area, or "" when absent.
	LastArea(ctx context.Context) (string, error)

	// SetLastArea persists the last viewed area. Callers treat failures
	// as best-effort; the value is cosmetic.
	SetLastArea(ctx context.Context, area string) error

	// Clear removes the token and last-area values together.
	Clear(ctx context.Context) error

	// Close releases any underlying resources.
	Close() error
}

// MemoryStore is an in-memory Store. Suitable for development and
// tests; session state does not survive a restart.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Token returns the persisted session token, or "" when absent.
func (s *MemoryStore) Token(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[TokenKey], nil
}

// SetToken persists the session token.
func (s *MemoryStore) SetToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[TokenKey] = token
	return nil
}

// LastArea returns the persisted last viewed area, or "" when absent.
func (s *MemoryStore) LastArea(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[LastAreaKey], nil
}

// SetLastArea persists the last viewed area.
func (s *MemoryStore) SetLastArea(_ context.Context, area string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[LastAreaKey] = area
	return nil
}

// Clear removes the token and last-area values together.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, TokenKey)
	delete(s.values, LastAreaKey)
	return nil
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error {
	return nil
}
