// Progressus - Learning Platform Profile Analytics
// Copyright 2026 Sara A. (saralmv)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/saralmv/progressus

package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// badgerKeyPrefix namespaces session values inside the BadgerDB.
const badgerKeyPrefix = "session:"

// BadgerStore is a BadgerDB-backed Store. The session survives process
// restarts, matching the web client's localStorage behavior.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens a BadgerDB at path and returns a store over it.
func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Suppress BadgerDB's own logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for session: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) get(key string) (string, error) {
	var value string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerKeyPrefix + key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get %s: %w", key, err)
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	return value, err
}

func (s *BadgerStore) set(key, value string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(badgerKeyPrefix+key), []byte(value)); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
		return nil
	})
}

// Token returns the persisted session token, or "" when absent.
func (s *BadgerStore) Token(_ context.Context) (string, error) {
	return s.get(TokenKey)
}

// SetToken persists the session token.
func (s *BadgerStore) SetToken(_ context.Context, token string) error {
	return s.set(TokenKey, token)
}

// LastArea returns the persisted last viewed area, or "" when absent.
func (s *BadgerStore) LastArea(_ context.Context) (string, error) {
	return s.get(LastAreaKey)
}

// SetLastArea persists the last viewed area.
func (s *BadgerStore) SetLastArea(_ context.Context, area string) error {
	return s.set(LastAreaKey, area)
}

// Clear removes the token and last-area values in one transaction.
// Deleting absent keys is not an error, so Clear is idempotent.
func (s *BadgerStore) Clear(_ context.Context) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(badgerKeyPrefix + TokenKey)); err != nil {
			return fmt.Errorf("delete token: %w", err)
		}
		if err := txn.Delete([]byte(badgerKeyPrefix + LastAreaKey)); err != nil {
			return fmt.Errorf("delete last area: %w", err)
		}
		return nil
	})
}

// Close closes the underlying BadgerDB.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
