// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"
	"log/slog"

	"artstudio/internal/ai"
	"artstudio/internal/cache"
	"artstudio/internal/config"
	"artstudio/internal/credential"
	"artstudio/internal/database"
	"artstudio/internal/store"
)

// newRegistry builds the AI provider registry from configuration. The
// --provider flag, when given, overrides AI_PROVIDER.
func newRegistry(cfg *config.Config) (*ai.Registry, error) {
	registry := ai.NewRegistry(cfg.AIProvider, map[string]ai.ProviderConfig{
		"gemini":  {APIKey: cfg.GeminiKey, Model: cfg.GeminiModel, BaseURL: cfg.GeminiBaseURL},
		"openai":  {APIKey: cfg.OpenAIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIBaseURL},
		"claude":  {APIKey: cfg.ClaudeKey, Model: cfg.ClaudeModel, BaseURL: cfg.ClaudeBaseURL},
		"mistral": {APIKey: cfg.MistralKey, Model: cfg.MistralModel, BaseURL: cfg.MistralBaseURL},
	})

	if providerFlag != "" {
		if err := registry.SetActive(providerFlag); err != nil {
			return nil, fmt.Errorf("--provider: %w", err)
		}
	}

	slog.Info("ai providers initialized",
		"active", registry.ActiveName(),
		"available", registry.Available(),
	)
	return registry, nil
}

// openSlot connects the durable credential slot selected by
// CREDENTIAL_STORE. The returned close function releases its connection.
func openSlot(cfg *config.Config) (credential.Slot, func(), error) {
	switch cfg.CredentialStore {
	case config.StorePostgres:
		db, err := database.Connect(cfg.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		if err := database.Migrate(db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate database: %w", err)
		}
		slog.Info("credential slot", "store", "postgres")
		return store.NewCredentialSlot(store.NewSettingStore(db)), func() { db.Close() }, nil

	case config.StoreValkey:
		client, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			return nil, nil, fmt.Errorf("connect valkey: %w", err)
		}
		slog.Info("credential slot", "store", "valkey")
		return cache.NewCredentialSlot(client), func() { client.Close() }, nil

	default:
		slog.Info("credential slot", "store", "memory")
		return credential.NewMemorySlot(), func() {}, nil
	}
}

// newCredentials resolves the deployment key from the active provider's
// configuration and the operator key from slot. Sessions layer their own
// key on top with Session.
func newCredentials(cfg *config.Config, registry *ai.Registry, slot credential.Slot) *credential.Provider {
	sealer := credential.NewSealer(cfg.CredentialSecret)
	if sealer == nil && cfg.CredentialStore != config.StoreMemory {
		slog.Warn("CREDENTIAL_SECRET not set, stored key is kept in plaintext")
	}
	return credential.NewProvider(registry.DeploymentKey, slot, sealer)
}
