// Progressus - Learning Platform Profile Analytics
// Copyright 2026 Sara A. (saralmv)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/saralmv/progressus

package session

import (
	"context"
	"testing"

	"github.com/saralmv/progressus/internal/config"
)

// storeContract exercises the Store behavior every backend must
// satisfy.
func storeContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("empty on start", func(t *testing.T) {
		token, err := store.Token(ctx)
		if err != nil {
			t.Fatalf("Token() error: %v", err)
		}
		if token != "" {
			t.Errorf("Token() = %q, want empty", token)
		}

		area, err := store.LastArea(ctx)
		if err != nil {
			t.Fatalf("LastArea() error: %v", err)
		}
		if area != "" {
			t.Errorf("LastArea() = %q, want empty", area)
		}
	})

	t.Run("set and get", func(t *testing.T) {
		if err := store.SetToken(ctx, "tok-123"); err != nil {
			t.Fatalf("SetToken() error: %v", err)
		}
		if err := store.SetLastArea(ctx, "skills"); err != nil {
			t.Fatalf("SetLastArea() error: %v", err)
		}

		token, err := store.Token(ctx)
		if err != nil {
			t.Fatalf("Token() error: %v", err)
		}
		if token != "tok-123" {
			t.Errorf("Token() = %q, want tok-123", token)
		}

		area, err := store.LastArea(ctx)
		if err != nil {
			t.Fatalf("LastArea() error: %v", err)
		}
		if area != "skills" {
			t.Errorf("LastArea() = %q, want skills", area)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		if err := store.SetToken(ctx, "tok-456"); err != nil {
			t.Fatalf("SetToken() error: %v", err)
		}
		token, _ := store.Token(ctx)
		if token != "tok-456" {
			t.Errorf("Token() = %q, want tok-456", token)
		}
	})

	t.Run("clear removes both values", func(t *testing.T) {
		if err := store.Clear(ctx); err != nil {
			t.Fatalf("Clear() error: %v", err)
		}
		token, _ := store.Token(ctx)
		if token != "" {
			t.Errorf("Token() after Clear = %q, want empty", token)
		}
		area, _ := store.LastArea(ctx)
		if area != "" {
			t.Errorf("LastArea() after Clear = %q, want empty", area)
		}
	})

	t.Run("clear is idempotent", func(t *testing.T) {
		if err := store.Clear(ctx); err != nil {
			t.Errorf("second Clear() error: %v", err)
		}
	})
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore())
}

func TestBadgerStore(t *testing.T) {
	store, err := NewBadgerStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewBadgerStore() error: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close() error: %v", err)
		}
	})

	storeContract(t, store)
}

func TestBadgerStorePersistence(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewBadgerStore(dir)
	if err != nil {
		t.Fatalf("NewBadgerStore() error: %v", err)
	}
	if err := store.SetToken(ctx, "survives-restart"); err != nil {
		t.Fatalf("SetToken() error: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	reopened, err := NewBadgerStore(dir)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer reopened.Close()

	token, err := reopened.Token(ctx)
	if err != nil {
		t.Fatalf("Token() error: %v", err)
	}
	if token != "survives-restart" {
		t.Errorf("Token() after reopen = %q, want survives-restart", token)
	}
}

func TestNewStore(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.SessionConfig
		wantErr bool
	}{
		{name: "memory", cfg: config.SessionConfig{Store: "memory"}},
		{name: "empty defaults to memory", cfg: config.SessionConfig{}},
		{name: "unknown type rejected", cfg: config.SessionConfig{Store: "cookie"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewStore(&tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewStore() error = %v, wantErr %v", err, tt.wantErr)
			}
			if store != nil {
				store.Close()
			}
		})
	}
}
