// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package session maps browser cookies to studios. Studios live only in
// process memory and are dropped after an idle TTL; nothing about a
// session outlives the process.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"artstudio/internal/studio"
)

const (
	// CookieName is the name of the session cookie sent to the browser.
	CookieName = "as_session"

	// DefaultTTL is how long an idle studio is kept.
	DefaultTTL = 24 * time.Hour

	// DefaultMaxSessions bounds the live studios when Config leaves it unset.
	DefaultMaxSessions = 1000

	// idLength is the byte length of the random session ID (32 bytes = 64 hex chars).
	idLength = 32
)

var (
	// ErrFull means the live-session cap is reached.
	ErrFull = errors.New("session: too many live sessions")

	// ErrThrottled means the client created too many sessions recently.
	ErrThrottled = errors.New("session: creation rate exceeded")
)

// Factory creates the studio for a new session.
type Factory func() *studio.Studio

// Config controls session lifetime and admission.
type Config struct {
	TTL         time.Duration
	Secure      bool // mark the cookie Secure (set behind TLS)
	MaxSessions int

	// Admit, when set, is asked before a new session is created. The
	// rate limiter's Allow fits.
	Admit func(r *http.Request) bool
}

type entry struct {
	studio   *studio.Studio
	lastSeen time.Time
}

// Manager owns every live studio.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	secure   bool
	max      int
	admit    func(r *http.Request) bool
	factory  Factory
	now      func() time.Time
	done     chan struct{}
	stopOnce sync.Once
}

// NewManager creates a manager and starts a background goroutine that
// drops idle studios.
func NewManager(cfg Config, factory Factory) *Manager {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultMaxSessions
	}
	m := &Manager{
		sessions: make(map[string]*entry),
		ttl:      cfg.TTL,
		secure:   cfg.Secure,
		max:      cfg.MaxSessions,
		admit:    cfg.Admit,
		factory:  factory,
		now:      time.Now,
		done:     make(chan struct{}),
	}
	go m.cleanup()
	return m
}

// Load returns the studio for the request's session cookie, creating a
// new session (and setting the cookie) when the cookie is missing or the
// session has expired. Creation fails with ErrThrottled when Admit refuses
// the request and with ErrFull at the session cap.
func (m *Manager) Load(w http.ResponseWriter, r *http.Request) (*studio.Studio, error) {
	if c, err := r.Cookie(CookieName); err == nil {
		if s, ok := m.touch(c.Value); ok {
			return s, nil
		}
	}

	if m.admit != nil && !m.admit(r) {
		return nil, ErrThrottled
	}

	id, err := generateID()
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if len(m.sessions) >= m.max {
		m.expireLocked()
	}
	if len(m.sessions) >= m.max {
		m.mu.Unlock()
		slog.Warn("session cap reached", "max", m.max)
		return nil, ErrFull
	}
	s := m.factory()
	m.sessions[id] = &entry{studio: s, lastSeen: m.now()}
	m.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(m.ttl.Seconds()),
	})
	slog.Debug("studio session created")
	return s, nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close stops the cleanup goroutine.
func (m *Manager) Close() {
	m.stopOnce.Do(func() { close(m.done) })
}

func (m *Manager) touch(id string) (*studio.Studio, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	now := m.now()
	if now.Sub(e.lastSeen) > m.ttl {
		delete(m.sessions, id)
		return nil, false
	}
	e.lastSeen = now
	return e.studio, true
}

// cleanup periodically removes idle sessions.
func (m *Manager) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.expire()
		case <-m.done:
			return
		}
	}
}

func (m *Manager) expire() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expireLocked()
}

func (m *Manager) expireLocked() {
	now := m.now()
	for id, e := range m.sessions {
		if now.Sub(e.lastSeen) > m.ttl {
			delete(m.sessions, id)
		}
	}
}

// generateID creates a cryptographically random session identifier.
func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
