// Progressus - Learning Platform Profile Analytics
// Copyright 2026 Sara A. (saralmv)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/saralmv/progressus

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PLATFORM_BASE_URL", "https://learn.example.org")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Platform.SigninPath != "/api/auth/signin" {
		t.Errorf("SigninPath = %q", cfg.Platform.SigninPath)
	}
	if cfg.Platform.GraphQLPath != "/api/graphql-engine/v1/graphql" {
		t.Errorf("GraphQLPath = %q", cfg.Platform.GraphQLPath)
	}
	if cfg.Server.Port != 8473 {
		t.Errorf("Port = %d", cfg.Server.Port)
	}
	if cfg.Session.Store != "memory" {
		t.Errorf("Session.Store = %q", cfg.Session.Store)
	}
	if !cfg.Query.BreakerEnabled {
		t.Error("BreakerEnabled = false, want true")
	}
	if cfg.Monitor.Interval != 30*time.Second {
		t.Errorf("Monitor.Interval = %s", cfg.Monitor.Interval)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PLATFORM_BASE_URL", "https://learn.example.org")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("SESSION_STORE", "badger")
	t.Setenv("SESSION_STORE_PATH", t.TempDir())
	t.Setenv("MONITOR_INTERVAL", "90s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Session.Store != "badger" {
		t.Errorf("Session.Store = %q, want badger", cfg.Session.Store)
	}
	if cfg.Monitor.Interval != 90*time.Second {
		t.Errorf("Monitor.Interval = %s, want 90s", cfg.Monitor.Interval)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadCORSOriginsFromEnv(t *testing.T) {
	t.Setenv("PLATFORM_BASE_URL", "https://learn.example.org")
	t.Setenv("CORS_ORIGINS", "https://a.example.org, https://b.example.org")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := []string{"https://a.example.org", "https://b.example.org"}
	if len(cfg.Server.CORSOrigins) != len(want) {
		t.Fatalf("CORSOrigins = %v, want %v", cfg.Server.CORSOrigins, want)
	}
	for i, origin := range want {
		if cfg.Server.CORSOrigins[i] != origin {
			t.Errorf("CORSOrigins[%d] = %q, want %q", i, cfg.Server.CORSOrigins[i], origin)
		}
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := strings.Join([]string{
		"platform:",
		"  base_url: https://learn.example.org",
		"server:",
		"  port: 7100",
		"logging:",
		"  format: console",
	}, "\n")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 7100 {
		t.Errorf("Port = %d, want 7100", cfg.Server.Port)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("Logging.Format = %q, want console", cfg.Logging.Format)
	}
}

func TestLoadEnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "platform:\n  base_url: https://learn.example.org\nserver:\n  port: 7100\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("HTTP_PORT", "7200")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 7200 {
		t.Errorf("Port = %d, want 7200 (env over file)", cfg.Server.Port)
	}
}

func TestLoadMissingBaseURL(t *testing.T) {
	if _, err := Load(); err == nil {
		t.Fatal("Load() succeeded without PLATFORM_BASE_URL")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := defaultConfig()
		cfg.Platform.BaseURL = "https://learn.example.org"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{
			name:    "relative base url",
			mutate:  func(c *Config) { c.Platform.BaseURL = "learn.example.org" },
			wantErr: true,
		},
		{
			name:    "ftp scheme",
			mutate:  func(c *Config) { c.Platform.BaseURL = "ftp://learn.example.org" },
			wantErr: true,
		},
		{
			name:    "signin path without slash",
			mutate:  func(c *Config) { c.Platform.SigninPath = "api/auth/signin" },
			wantErr: true,
		},
		{
			name:    "zero platform timeout",
			mutate:  func(c *Config) { c.Platform.Timeout = 0 },
			wantErr: true,
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "unknown session store",
			mutate:  func(c *Config) { c.Session.Store = "cookie" },
			wantErr: true,
		},
		{
			name: "badger store requires path",
			mutate: func(c *Config) {
				c.Session.Store = "badger"
				c.Session.StorePath = ""
			},
			wantErr: true,
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "unknown log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPlatformURLs(t *testing.T) {
	p := PlatformConfig{
		BaseURL:     "https://learn.example.org/",
		SigninPath:  "/api/auth/signin",
		GraphQLPath: "/api/graphql-engine/v1/graphql",
	}
	if got := p.SigninURL(); got != "https://learn.example.org/api/auth/signin" {
		t.Errorf("SigninURL() = %q", got)
	}
	if got := p.GraphQLURL(); got != "https://learn.example.org/api/graphql-engine/v1/graphql" {
		t.Errorf("GraphQLURL() = %q", got)
	}
}
