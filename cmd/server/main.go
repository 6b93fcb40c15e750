// Progressus - Learning Platform Profile Analytics
// Copyright 2026 Sara A. (saralmv)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/saralmv/progressus

// Package main is the entry point for the Progressus server.
//
// Progressus logs into a 01-edu learning platform with the user's
// credentials, pulls their XP, level, skill and progress records over
// GraphQL, derives profile statistics from them, and serves both the
// raw records and the derived view as JSON for a rendering layer.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: environment variables and config file (Koanf v2)
//  2. Session store: in-memory or BadgerDB-backed token persistence
//  3. Auth gateway: Basic-auth credential exchange with the platform
//  4. Query client: rate-limited GraphQL client, optionally wrapped in
//     a circuit breaker
//  5. Session monitor: periodic token revalidation (supervised)
//  6. HTTP server: the JSON API for the rendering layer (supervised)
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (PLATFORM_BASE_URL, SESSION_STORE, ...)
//   - Config file (config.yaml)
//   - Built-in defaults
//
// Minimal example:
//
//	export PLATFORM_BASE_URL=https://learn.reboot01.com
//	export SESSION_STORE=badger
//	export SESSION_STORE_PATH=/var/lib/progressus/session
//	./progressus
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: the
// supervisor tree stops its services, the HTTP server drains in-flight
// requests within the shutdown timeout, and the session store is
// closed last.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/saralmv/progressus/internal/api"
	"github.com/saralmv/progressus/internal/auth"
	"github.com/saralmv/progressus/internal/config"
	"github.com/saralmv/progressus/internal/fetch"
	"github.com/saralmv/progressus/internal/logging"
	"github.com/saralmv/progressus/internal/monitor"
	"github.com/saralmv/progressus/internal/query"
	"github.com/saralmv/progressus/internal/session"
	"github.com/saralmv/progressus/internal/supervisor"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("platform", cfg.Platform.BaseURL).
		Str("session_store", cfg.Session.Store).
		Bool("breaker", cfg.Query.BreakerEnabled).
		Msg("Starting Progressus")

	store, err := session.NewStore(&cfg.Session)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize session store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing session store")
		}
	}()

	// The rendering layer reacts to session teardown through the API's
	// session endpoint; no in-process navigation target exists here.
	nav := auth.NopNavigator{}

	gateway := auth.NewGateway(&cfg.Platform, store, nav)

	client := query.NewClient(&cfg.Platform, &cfg.Query, store, nav)
	var exec query.Executor = client
	if cfg.Query.BreakerEnabled {
		exec = query.NewBreakerClient(client)
	}
	fetcher := fetch.NewFetcher(exec)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())

	var waker api.Waker
	if cfg.Monitor.Enabled {
		mon := monitor.New(store, gateway, cfg.Monitor.Interval)
		tree.AddSessionService(mon)
		waker = mon
		logging.Info().Dur("interval", cfg.Monitor.Interval).Msg("Session monitor added to supervisor tree")
	}

	handler := api.NewHandler(gateway, store, fetcher, waker)
	router := api.NewRouter(handler, &api.MiddlewareConfig{
		CORSAllowedOrigins: cfg.Server.CORSOrigins,
		RateLimitRequests:  cfg.Server.RateLimitReqs,
		RateLimitWindow:    cfg.Server.RateLimitWindow,
		LoginRateLimit:     cfg.Server.LoginRateLimit,
		LoginRateWindow:    cfg.Server.LoginRateWindow,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}
	tree.AddAPIService(supervisor.NewHTTPService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain the error channel until the supervisor finishes
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
