// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package credential supplies the API credential used by the AI gateway.
// A value configured at deployment wins, then the value an operator saved
// in the durable slot, then the key a client saved in its own session;
// otherwise the credential is absent.
package credential

import (
	"context"
	"fmt"
	"log/slog"
)

// Source tells where a resolved credential came from.
type Source string

const (
	SourceDeployment Source = "deployment"
	SourceStored     Source = "stored"
	SourceSession    Source = "session"
	SourceNone       Source = "none"
)

// Status describes the credential without revealing it.
type Status struct {
	Present bool   `json:"present"`
	Source  Source `json:"source"`
}

// Slot is a single durable key-value cell holding the operator-supplied
// credential. Get returns "" with a nil error when nothing is stored.
type Slot interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, value string) error
}

// Provider resolves the process-wide credential: deployment value, then
// the durable slot. It is safe for concurrent use as long as the slot is.
// Clients get their own layer with Session.
type Provider struct {
	deployment func() string
	slot       Slot
	sealer     *Sealer
}

// NewProvider creates a provider. deployment returns the value configured
// at deploy time ("" when none) and is consulted on every call so a
// provider switch takes effect immediately. slot may be nil when no
// durable slot is configured. sealer may be nil, in which case values are
// stored as given.
func NewProvider(deployment func() string, slot Slot, sealer *Sealer) *Provider {
	if deployment == nil {
		deployment = func() string { return "" }
	}
	return &Provider{deployment: deployment, slot: slot, sealer: sealer}
}

// Resolve returns the credential and whether one is present. Slot read
// failures are logged and reported as absent.
func (p *Provider) Resolve(ctx context.Context) (string, bool) {
	value, _ := p.resolve(ctx)
	return value, value != ""
}

// Status reports whether a credential is present and its source.
func (p *Provider) Status(ctx context.Context) Status {
	value, src := p.resolve(ctx)
	return Status{Present: value != "", Source: src}
}

// Store writes value into the durable slot. The value is not validated;
// the next Resolve observes it unless a deployment value overrides it.
func (p *Provider) Store(ctx context.Context, value string) error {
	if p.slot == nil {
		return fmt.Errorf("credential store: no durable slot configured")
	}
	stored := value
	if p.sealer != nil && value != "" {
		sealed, err := p.sealer.Seal(value)
		if err != nil {
			return fmt.Errorf("credential seal: %w", err)
		}
		stored = sealed
	}
	if err := p.slot.Set(ctx, stored); err != nil {
		return fmt.Errorf("credential store: %w", err)
	}
	return nil
}

func (p *Provider) resolve(ctx context.Context) (string, Source) {
	if v := p.deployment(); v != "" {
		return v, SourceDeployment
	}
	if p.slot == nil {
		return "", SourceNone
	}

	stored, err := p.slot.Get(ctx)
	if err != nil {
		slog.Warn("credential slot read failed", "error", err)
		return "", SourceNone
	}
	if stored == "" {
		return "", SourceNone
	}

	value, err := p.sealer.Open(stored)
	if err != nil {
		slog.Warn("stored credential could not be opened", "error", err)
		return "", SourceNone
	}
	if value == "" {
		return "", SourceNone
	}
	return value, SourceStored
}
