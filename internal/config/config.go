// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables and an optional YAML secrets file. It provides a centralized
// Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Credential slot backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreValkey   = "valkey"
)

const defaultDBPassword = "changeme"

// Config holds all application configuration values.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// AI provider settings
	AIProvider     string // "gemini", "openai", "claude", "mistral"
	GeminiKey      string
	GeminiModel    string
	GeminiBaseURL  string
	OpenAIKey      string
	OpenAIModel    string
	OpenAIBaseURL  string
	ClaudeKey      string
	ClaudeModel    string
	ClaudeBaseURL  string
	MistralKey     string
	MistralModel   string
	MistralBaseURL string

	// Credential slot
	CredentialStore  string // "memory", "postgres", "valkey"
	CredentialSecret string

	// Sessions and limits
	SessionTTL       time.Duration
	MaxSessions      int  // live studios held in memory
	SessionRateLimit int  // new sessions per client per minute
	AIRateLimit      int  // AI requests per client per minute
	TrustProxy       bool // take the client address from forwarding headers
	SettingsFile     string
}

// Secrets is the layout of the optional YAML secrets file. Non-empty
// values fill provider keys the environment left unset.
type Secrets struct {
	Gemini  ProviderSecret `yaml:"gemini"`
	OpenAI  ProviderSecret `yaml:"openai"`
	Claude  ProviderSecret `yaml:"claude"`
	Mistral ProviderSecret `yaml:"mistral"`
}

// ProviderSecret holds one provider's API key.
type ProviderSecret struct {
	APIKey string `yaml:"api_key"`
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing or malformed.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "artstudio"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", defaultDBPassword),
		DBName:     envOrDefault("POSTGRES_DB", "artstudio"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		AIProvider:     envOrDefault("AI_PROVIDER", "gemini"),
		GeminiKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    envOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiBaseURL:  os.Getenv("GEMINI_BASE_URL"),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:    envOrDefault("OPENAI_MODEL", "gpt-4o"),
		OpenAIBaseURL:  envOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		ClaudeKey:      os.Getenv("CLAUDE_API_KEY"),
		ClaudeModel:    envOrDefault("CLAUDE_MODEL", "claude-sonnet-4-6"),
		ClaudeBaseURL:  envOrDefault("CLAUDE_BASE_URL", "https://api.anthropic.com"),
		MistralKey:     os.Getenv("MISTRAL_API_KEY"),
		MistralModel:   envOrDefault("MISTRAL_MODEL", "mistral-large-latest"),
		MistralBaseURL: envOrDefault("MISTRAL_BASE_URL", "https://api.mistral.ai/v1"),

		CredentialStore:  envOrDefault("CREDENTIAL_STORE", StoreMemory),
		CredentialSecret: os.Getenv("CREDENTIAL_SECRET"),

		SettingsFile: os.Getenv("SETTINGS_FILE"),
	}

	ttl, err := time.ParseDuration(envOrDefault("SESSION_TTL", "24h"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be a positive duration, got %q", os.Getenv("SESSION_TTL"))
	}
	cfg.SessionTTL = ttl

	for _, n := range []struct {
		env, def string
		dst      *int
	}{
		{"AI_RATE_LIMIT", "20", &cfg.AIRateLimit},
		{"MAX_SESSIONS", "1000", &cfg.MaxSessions},
		{"SESSION_RATE_LIMIT", "10", &cfg.SessionRateLimit},
	} {
		v, err := strconv.Atoi(envOrDefault(n.env, n.def))
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer, got %q", n.env, os.Getenv(n.env))
		}
		*n.dst = v
	}

	trust, err := strconv.ParseBool(envOrDefault("TRUST_PROXY", "false"))
	if err != nil {
		return nil, fmt.Errorf("TRUST_PROXY must be a boolean, got %q", os.Getenv("TRUST_PROXY"))
	}
	cfg.TrustProxy = trust

	switch cfg.CredentialStore {
	case StoreMemory, StorePostgres, StoreValkey:
	default:
		return nil, fmt.Errorf("CREDENTIAL_STORE must be memory, postgres or valkey, got %q", cfg.CredentialStore)
	}

	if cfg.SettingsFile != "" {
		secrets, err := LoadSecrets(cfg.SettingsFile)
		if err != nil {
			return nil, err
		}
		cfg.applySecrets(secrets)
	}

	if cfg.Env == "production" && cfg.CredentialStore == StorePostgres {
		if cfg.DBPassword == defaultDBPassword {
			return nil, errors.New("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// LoadSecrets reads the YAML secrets file at path.
func LoadSecrets(path string) (*Secrets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}

	var s Secrets
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse settings file %s: %w", path, err)
	}
	return &s, nil
}

// applySecrets fills provider keys that the environment did not set.
func (c *Config) applySecrets(s *Secrets) {
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&c.GeminiKey, s.Gemini.APIKey)
	fill(&c.OpenAIKey, s.OpenAI.APIKey)
	fill(&c.ClaudeKey, s.Claude.APIKey)
	fill(&c.MistralKey, s.Mistral.APIKey)
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
