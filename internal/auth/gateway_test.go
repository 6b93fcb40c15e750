// Progressus - Learning Platform Profile Analytics
// Copyright 2026 Sara A. (saralmv)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/saralmv/progressus

package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/saralmv/progressus/internal/config"
	"github.com/saralmv/progressus/internal/session"
)

// recordingNavigator counts navigation signals.
type recordingNavigator struct {
	toLogin int
}

func (n *recordingNavigator) ToLogin() { n.toLogin++ }

func newTestGateway(t *testing.T, server *httptest.Server) (*Gateway, session.Store, *recordingNavigator) {
	t.Helper()
	store := session.NewMemoryStore()
	nav := &recordingNavigator{}
	cfg := &config.PlatformConfig{
		BaseURL:    server.URL,
		SigninPath: "/api/auth/signin",
		Timeout:    5 * time.Second,
	}
	return NewGateway(cfg, store, nav), store, nav
}

func TestLoginSendsBasicCredential(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"token":"tok"}`))
	}))
	defer server.Close()

	gw, _, _ := newTestGateway(t, server)
	if _, err := gw.Login(context.Background(), "alice", "s3cret"); err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	want := "Basic " + base64.StdEncoding.EncodeToString([]byte("alice:s3cret"))
	if gotAuth != want {
		t.Errorf("Authorization = %q, want %q", gotAuth, want)
	}
}

func TestLoginTokenExtraction(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "token field", body: `{"token":"aaa"}`, want: "aaa"},
		{name: "jwt field", body: `{"jwt":"bbb"}`, want: "bbb"},
		{name: "accessToken field", body: `{"accessToken":"ccc"}`, want: "ccc"},
		{name: "token wins over jwt", body: `{"token":"aaa","jwt":"bbb"}`, want: "aaa"},
		{name: "bare JSON string", body: `"ddd"`, want: "ddd"},
		{name: "raw body fallback", body: "eee\n", want: "eee"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			gw, store, _ := newTestGateway(t, server)
			token, err := gw.Login(context.Background(), "u", "p")
			if err != nil {
				t.Fatalf("Login() error: %v", err)
			}
			if token != tt.want {
				t.Errorf("Login() token = %q, want %q", token, tt.want)
			}

			stored, _ := store.Token(context.Background())
			if stored != tt.want {
				t.Errorf("stored token = %q, want %q", stored, tt.want)
			}
		})
	}
}

func TestLoginRejectionIsGeneric(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"user alice does not exist in realm internal"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	gw, store, _ := newTestGateway(t, server)
	_, err := gw.Login(context.Background(), "alice", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Login() error = %v, want ErrInvalidCredentials", err)
	}

	// The upstream detail must not leak through the error.
	if got := err.Error(); got != ErrInvalidCredentials.Error() {
		t.Errorf("error message = %q, leaked upstream detail", got)
	}

	token, _ := store.Token(context.Background())
	if token != "" {
		t.Errorf("token stored after failed login: %q", token)
	}
}

func TestLoginEmptyBodyFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	gw, _, _ := newTestGateway(t, server)
	if _, err := gw.Login(context.Background(), "u", "p"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Login() error = %v, want ErrInvalidCredentials", err)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	store := session.NewMemoryStore()
	nav := &recordingNavigator{}
	cfg := &config.PlatformConfig{BaseURL: "http://unused", SigninPath: "/signin", Timeout: time.Second}
	gw := NewGateway(cfg, store, nav)

	ctx := context.Background()
	if err := store.SetToken(ctx, "tok"); err != nil {
		t.Fatal(err)
	}
	if err := store.SetLastArea(ctx, "xp"); err != nil {
		t.Fatal(err)
	}

	gw.Logout(ctx)

	if token, _ := store.Token(ctx); token != "" {
		t.Errorf("token after logout = %q, want empty", token)
	}
	if area, _ := store.LastArea(ctx); area != "" {
		t.Errorf("last area after logout = %q, want empty", area)
	}
	if nav.toLogin != 1 {
		t.Errorf("ToLogin calls = %d, want 1", nav.toLogin)
	}

	// Second logout with no session: still signals navigation.
	gw.Logout(ctx)
	if nav.toLogin != 2 {
		t.Errorf("ToLogin calls after second logout = %d, want 2", nav.toLogin)
	}
}
