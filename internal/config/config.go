// Progressus - Learning Platform Profile Analytics
// Copyright 2026 Sara A. (saralmv)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/saralmv/progressus

// Package config provides layered configuration loading for Progressus.
//
// Configuration is resolved in precedence order ENV > YAML file >
// built-in defaults, using koanf v2. See koanf.go for the loader and
// the environment variable mapping table.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config is the root configuration for the Progressus service.
type Config struct {
	Platform PlatformConfig `koanf:"platform"`
	Server   ServerConfig   `koanf:"server"`
	Session  SessionConfig  `koanf:"session"`
	Query    QueryConfig    `koanf:"query"`
	Monitor  MonitorConfig  `koanf:"monitor"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// PlatformConfig describes the upstream learning platform.
type PlatformConfig struct {
	// BaseURL is the platform origin, e.g. https://learn.reboot01.com.
	BaseURL string `koanf:"base_url"`

	// SigninPath is the credential exchange endpoint path.
	SigninPath string `koanf:"signin_path"`

	// GraphQLPath is the query endpoint path.
	GraphQLPath string `koanf:"graphql_path"`

	// Timeout is the per-request HTTP timeout for platform calls.
	Timeout time.Duration `koanf:"timeout"`
}

// SigninURL returns the absolute credential exchange URL.
func (p *PlatformConfig) SigninURL() string {
	return strings.TrimRight(p.BaseURL, "/") + p.SigninPath
}

// GraphQLURL returns the absolute query endpoint URL.
func (p *PlatformConfig) GraphQLURL() string {
	return strings.TrimRight(p.BaseURL, "/") + p.GraphQLPath
}

// ServerConfig holds the outward HTTP surface configuration.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`

	// CORSOrigins lists allowed origins for the rendering layer.
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitReqs / RateLimitWindow bound general API traffic.
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// LoginRateLimit / LoginRateWindow bound login attempts separately
	// (brute force prevention).
	LoginRateLimit  int           `koanf:"login_rate_limit"`
	LoginRateWindow time.Duration `koanf:"login_rate_window"`
}

// SessionConfig selects the token store backend.
type SessionConfig struct {
	// Store is "memory" or "badger".
	Store string `koanf:"store"`

	// StorePath is the BadgerDB directory when Store is "badger".
	StorePath string `koanf:"store_path"`
}

// QueryConfig tunes the GraphQL query client.
type QueryConfig struct {
	// RatePerSecond / Burst pace outgoing platform calls.
	RatePerSecond float64 `koanf:"rate_per_second"`
	Burst         int     `koanf:"burst"`

	// BreakerEnabled wraps the client in a circuit breaker.
	BreakerEnabled bool `koanf:"breaker_enabled"`
}

// MonitorConfig tunes the session revalidation loop.
type MonitorConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Interval time.Duration `koanf:"interval"`
}

// LoggingConfig mirrors logging.Config for the loader.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validatePlatform(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSession(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePlatform() error {
	if c.Platform.BaseURL == "" {
		return fmt.Errorf("PLATFORM_BASE_URL is required")
	}
	u, err := url.Parse(c.Platform.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("PLATFORM_BASE_URL must be an absolute URL: %q", c.Platform.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("PLATFORM_BASE_URL scheme must be http or https, got %q", u.Scheme)
	}
	if !strings.HasPrefix(c.Platform.SigninPath, "/") {
		return fmt.Errorf("platform signin_path must start with /, got %q", c.Platform.SigninPath)
	}
	if !strings.HasPrefix(c.Platform.GraphQLPath, "/") {
		return fmt.Errorf("platform graphql_path must start with /, got %q", c.Platform.GraphQLPath)
	}
	if c.Platform.Timeout <= 0 {
		return fmt.Errorf("platform timeout must be positive, got %s", c.Platform.Timeout)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.RateLimitReqs < 0 || c.Server.LoginRateLimit < 0 {
		return fmt.Errorf("rate limits must not be negative")
	}
	return nil
}

func (c *Config) validateSession() error {
	switch c.Session.Store {
	case "memory":
		return nil
	case "badger":
		if c.Session.StorePath == "" {
			return fmt.Errorf("SESSION_STORE_PATH is required when SESSION_STORE=badger")
		}
		return nil
	default:
		return fmt.Errorf("SESSION_STORE must be \"memory\" or \"badger\", got %q", c.Session.Store)
	}
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "", "trace", "debug", "info", "warn", "warning", "error", "fatal", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace/debug/info/warn/error/fatal, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be \"json\" or \"console\", got %q", c.Logging.Format)
	}
	return nil
}
