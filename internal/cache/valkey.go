// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package cache provides the Valkey (Redis-compatible) client and the
// Valkey-backed credential slot.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// CredentialKey is the Valkey key holding the stored AI credential.
const CredentialKey = "artstudio:credential"

// ConnectValkey creates a Valkey client and verifies the connection with a ping.
func ConnectValkey(host, port, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("valkey ping: %w", err)
	}

	slog.Info("valkey connected", "addr", fmt.Sprintf("%s:%s", host, port))
	return client, nil
}

// CredentialSlot stores the credential under a single key with no expiry.
type CredentialSlot struct {
	client *redis.Client
	key    string
}

// NewCredentialSlot returns a slot over CredentialKey.
func NewCredentialSlot(client *redis.Client) *CredentialSlot {
	return &CredentialSlot{client: client, key: CredentialKey}
}

// Get returns the stored value, or "" when the key does not exist.
func (s *CredentialSlot) Get(ctx context.Context) (string, error) {
	val, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("valkey get: %w", err)
	}
	return val, nil
}

// Set writes value; an empty value removes the key.
func (s *CredentialSlot) Set(ctx context.Context, value string) error {
	if value == "" {
		if err := s.client.Del(ctx, s.key).Err(); err != nil {
			return fmt.Errorf("valkey del: %w", err)
		}
		return nil
	}
	if err := s.client.Set(ctx, s.key, value, 0).Err(); err != nil {
		return fmt.Errorf("valkey set: %w", err)
	}
	return nil
}
