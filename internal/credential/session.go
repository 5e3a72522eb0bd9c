// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package credential

import (
	"context"
	"sync"
)

// Session is one client's view of the credential. The deployment value and
// the operator slot of the shared provider win; otherwise the key this
// client saved is used. That key lives in memory and is never visible to
// another session.
type Session struct {
	shared *Provider

	mu    sync.RWMutex
	value string
}

// Session returns a new client layer over p with no key of its own.
func (p *Provider) Session() *Session {
	return &Session{shared: p}
}

// Resolve returns the credential for this client and whether one is present.
func (s *Session) Resolve(ctx context.Context) (string, bool) {
	value, _ := s.resolve(ctx)
	return value, value != ""
}

// Status reports whether this client has a credential and its source.
func (s *Session) Status(ctx context.Context) Status {
	value, src := s.resolve(ctx)
	return Status{Present: value != "", Source: src}
}

// Store keeps value as this client's key. An empty value clears it. The
// shared provider is never written.
func (s *Session) Store(ctx context.Context, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = value
	return nil
}

func (s *Session) resolve(ctx context.Context) (string, Source) {
	if s.shared != nil {
		if v, src := s.shared.resolve(ctx); v != "" {
			return v, src
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.value != "" {
		return s.value, SourceSession
	}
	return "", SourceNone
}
