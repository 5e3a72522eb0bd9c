// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ai provides a unified interface for talking to the generative
// service behind the studio assistant (Gemini by default; OpenAI, Claude and
// Mistral are also supported). Each provider implements the Provider
// interface, and the Registry selects the active one by name. The Gateway
// layers the three studio operations (chat, artwork description, theme
// synthesis) on top of the active provider.
package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"artstudio/internal/models"
)

// ErrEmptyResponse is returned by providers when the service answered
// successfully but produced no text.
var ErrEmptyResponse = errors.New("ai: empty response")

// Turn is one prior message of a conversation sent as history.
type Turn struct {
	Role models.Role
	Text string
}

// Image is an inline image attached to a request.
type Image struct {
	Data     []byte
	MIMEType string
}

// DataURL returns the image encoded as a data: URL.
func (img *Image) DataURL() string {
	return "data:" + img.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

// ParseDataURL decodes a "data:<mime>;base64,<payload>" string. A bare
// base64 payload without the data: prefix is accepted and assumed JPEG.
func ParseDataURL(s string) (*Image, error) {
	mime := "image/jpeg"
	payload := s
	if strings.HasPrefix(s, "data:") {
		header, data, ok := strings.Cut(s, ",")
		if !ok {
			return nil, fmt.Errorf("ai: malformed data url")
		}
		header = strings.TrimPrefix(header, "data:")
		header = strings.TrimSuffix(header, ";base64")
		if header != "" {
			mime = header
		}
		payload = data
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("ai: decode image: %w", err)
	}
	return &Image{Data: raw, MIMEType: mime}, nil
}

// Request is a single generation request. History and Image are optional.
// When JSONFields is non-empty the model is asked to answer with a JSON
// object carrying exactly those string fields.
type Request struct {
	System     string
	History    []Turn
	Prompt     string
	Image      *Image
	JSONFields []string
}

// Provider defines the interface that all AI providers must implement.
// The API key is passed per call because the studio credential may change
// while the server is running.
type Provider interface {
	// Generate sends the request and returns the generated text.
	Generate(ctx context.Context, apiKey string, req *Request) (string, error)

	// Name returns the provider identifier (e.g., "gemini", "openai").
	Name() string
}

// ProviderConfig holds the settings for a single provider. APIKey is the
// deployment-configured credential; it may be empty, in which case the
// user-supplied credential is used.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Registry manages available AI providers and selects the active one.
// All methods are safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	configs   map[string]ProviderConfig
	active    string
	moderator Moderator // nil when no moderation key is configured
}

// NewRegistry creates a registry with a provider for every known name in
// configs. Providers are registered even without a deployment key, since the
// credential can be supplied by the user later. A Moderator is configured
// when an OpenAI or Mistral deployment key exists (OpenAI preferred).
func NewRegistry(active string, configs map[string]ProviderConfig) *Registry {
	r := &Registry{
		providers: make(map[string]Provider),
		configs:   make(map[string]ProviderConfig),
		active:    active,
	}

	for name, cfg := range configs {
		switch name {
		case "gemini":
			r.providers[name] = newGemini(cfg)
		case "openai":
			r.providers[name] = newOpenAI(cfg)
		case "claude":
			r.providers[name] = newClaude(cfg)
		case "mistral":
			r.providers[name] = newMistral(cfg)
		default:
			continue
		}
		r.configs[name] = cfg
	}

	openaiCfg, hasOpenAI := configs["openai"]
	hasOpenAI = hasOpenAI && openaiCfg.APIKey != ""
	mistralCfg, hasMistral := configs["mistral"]
	hasMistral = hasMistral && mistralCfg.APIKey != ""

	switch {
	case hasOpenAI && hasMistral:
		r.moderator = newFallbackModerator(
			newOpenAIModerator(openaiCfg.APIKey, openaiCfg.BaseURL),
			newMistralModerator(mistralCfg.APIKey, moderationBaseURL(mistralCfg.BaseURL)),
		)
	case hasOpenAI:
		r.moderator = newOpenAIModerator(openaiCfg.APIKey, openaiCfg.BaseURL)
	case hasMistral:
		r.moderator = newMistralModerator(mistralCfg.APIKey, moderationBaseURL(mistralCfg.BaseURL))
	}

	return r
}

// moderationBaseURL converts a Mistral chat base URL (ending in /v1) into
// the host root the moderation client expects.
func moderationBaseURL(chatBase string) string {
	return strings.TrimSuffix(strings.TrimRight(chatBase, "/"), "/v1")
}

// Generate calls the active provider's Generate method.
func (r *Registry) Generate(ctx context.Context, apiKey string, req *Request) (string, error) {
	p, err := r.Active()
	if err != nil {
		return "", err
	}
	return p.Generate(ctx, apiKey, req)
}

// Active returns the currently active provider.
func (r *Registry) Active() (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[r.active]
	if !ok {
		return nil, fmt.Errorf("ai: no provider configured for %q", r.active)
	}
	return p, nil
}

// SetActive switches the active provider at runtime.
func (r *Registry) SetActive(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.providers[name]; !ok {
		return fmt.Errorf("ai: unknown provider %q", name)
	}
	r.active = name
	return nil
}

// ActiveName returns the name of the currently active provider.
func (r *Registry) ActiveName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.active
}

// DeploymentKey returns the API key configured for the active provider
// at deployment time, or "" if none.
func (r *Registry) DeploymentKey() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.configs[r.active].APIKey
}

// Available returns the sorted names of all registered providers.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetModerator replaces the prompt moderator. nil disables moderation.
func (r *Registry) SetModerator(m Moderator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.moderator = m
}

// CheckPrompt runs text through the moderation API before generation.
// Returns a safe result when no moderator is configured.
func (r *Registry) CheckPrompt(ctx context.Context, text string) (*ModerationResult, error) {
	r.mu.RLock()
	m := r.moderator
	r.mu.RUnlock()

	if m == nil {
		return &ModerationResult{Safe: true}, nil
	}
	return m.CheckSafety(ctx, text)
}
