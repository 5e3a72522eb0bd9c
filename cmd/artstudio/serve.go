// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"artstudio/internal/ai"
	"artstudio/internal/handlers"
	"artstudio/internal/middleware"
	"artstudio/internal/router"
	"artstudio/internal/session"
	"artstudio/internal/studio"
	"artstudio/internal/theme"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the studio HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"credential_store", cfg.CredentialStore,
		"max_sessions", cfg.MaxSessions,
		"trust_proxy", cfg.TrustProxy,
	)

	slot, closeSlot, err := openSlot(cfg)
	if err != nil {
		return err
	}
	defer closeSlot()

	registry, err := newRegistry(cfg)
	if err != nil {
		return err
	}
	shared := newCredentials(cfg, registry, slot)

	// Each session layers its own key over the shared one, so every studio
	// gets its own gateway and pipeline.
	newSessionStudio := func() *studio.Studio {
		creds := shared.Session()
		gateway := ai.NewGateway(registry, creds)
		return studio.New(gateway, theme.NewPipeline(gateway), studio.WithCredentials(creds))
	}

	sessionLimiter := middleware.NewRateLimiter(cfg.SessionRateLimit, time.Minute)
	defer sessionLimiter.Stop()

	// In non-development environments, mark cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessions := session.NewManager(session.Config{
		TTL:         cfg.SessionTTL,
		Secure:      secureCookies,
		MaxSessions: cfg.MaxSessions,
		Admit:       sessionLimiter.Allow,
	}, newSessionStudio)
	defer sessions.Close()

	aiLimiter := middleware.NewRateLimiter(cfg.AIRateLimit, time.Minute)
	defer aiLimiter.Stop()

	r := router.New(sessions, handlers.NewStudio(), aiLimiter, router.Options{
		Secure:     secureCookies,
		TrustProxy: cfg.TrustProxy,
	})

	// WriteTimeout must accommodate AI endpoints that wait on model
	// responses (typically 10-30s, up to 60s for image descriptions).
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	slog.Info("server stopped gracefully", "sessions", sessions.Len())
	return nil
}
