// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package studio

import (
	"sync"

	"github.com/google/uuid"

	"artstudio/internal/models"
)

// State owns one studio's portfolio entries, conversation log, active
// theme and student name. Every operation replaces a whole field under the
// lock, so operations are atomic and apply in call order. Slices are never
// mutated in place: a Snapshot stays valid after later operations.
type State struct {
	mu       sync.RWMutex
	name     string
	entries  []models.Entry
	messages []models.Message
	theme    models.Theme
}

// Snapshot is a read-only view of a State at one point in time.
type Snapshot struct {
	Name     string           `json:"name"`
	Entries  []models.Entry   `json:"entries"`
	Messages []models.Message `json:"messages"`
	Theme    models.Theme     `json:"theme"`
}

// NewState creates an empty state with the given name and theme.
func NewState(name string, theme models.Theme) *State {
	return &State{
		name:     name,
		entries:  []models.Entry{},
		messages: []models.Message{},
		theme:    theme,
	}
}

// AppendEntry adds e after all existing entries.
func (s *State) AppendEntry(e models.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = appendCopy(s.entries, e)
}

// UpdatePrompt sets the prompt of the entry with the given id. Unknown ids
// are a silent no-op; the return value reports whether an entry matched.
func (s *State) UpdatePrompt(id uuid.UUID, prompt string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].ID != id {
			continue
		}
		next := make([]models.Entry, len(s.entries))
		copy(next, s.entries)
		next[i].Prompt = prompt
		s.entries = next
		return true
	}
	return false
}

// AppendMessage adds m after all existing messages.
func (s *State) AppendMessage(m models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = appendCopy(s.messages, m)
}

// SetTheme replaces the active theme.
func (s *State) SetTheme(t models.Theme) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = t
}

// SetName replaces the student name.
func (s *State) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

// Snapshot returns the current state. The returned slices are shared but
// never written again.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Name:     s.name,
		Entries:  s.entries,
		Messages: s.messages,
		Theme:    s.theme,
	}
}

// Messages returns the conversation log.
func (s *State) Messages() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.messages
}

func appendCopy[T any](items []T, item T) []T {
	next := make([]T, len(items), len(items)+1)
	copy(next, items)
	return append(next, item)
}
