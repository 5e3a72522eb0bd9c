// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the art studio server and its
// companion commands.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"artstudio/internal/config"
)

// cfg is loaded once before any subcommand runs.
var cfg *config.Config

// providerFlag overrides AI_PROVIDER for one invocation.
var providerFlag string

var rootCmd = &cobra.Command{
	Use:           "artstudio",
	Short:         "AI art portfolio builder for young students",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		setupLogger(cfg)
		return nil
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&providerFlag, "provider", "", "AI provider to use (gemini, openai, claude, mistral); overrides AI_PROVIDER")
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newThemeCmd())
	rootCmd.AddCommand(newCredentialCmd())

	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// setupLogger installs the default structured logger: text at debug level
// in development, JSON at info level otherwise. Logs go to stderr so
// command output on stdout stays machine-readable.
func setupLogger(cfg *config.Config) {
	var handler slog.Handler
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))
}
