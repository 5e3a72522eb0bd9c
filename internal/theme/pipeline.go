// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package theme turns a free-text mood description into a renderable
// studio theme. Generation never fails: when the credential is missing,
// the remote call errors, or the answer cannot be trusted, a fixed
// fallback theme is returned together with the reason.
package theme

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"artstudio/internal/ai"
	"artstudio/internal/models"
)

// ErrMalformed is returned by Parse when the response is not a JSON object
// carrying all four theme fields as non-empty strings.
var ErrMalformed = errors.New("theme: malformed response")

// FallbackID is the id of every fallback theme.
const FallbackID = "custom"

// Reason explains why a fallback theme was returned.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonCredentialAbsent Reason = "credential-absent"
	ReasonRemoteCall       Reason = "remote-call"
	ReasonMalformed        Reason = "malformed"
	ReasonModerated        Reason = "moderated"
)

// Result is either a generated theme or a fallback with its reason. Theme
// is structurally valid in both cases.
type Result struct {
	Theme  models.Theme
	Reason Reason
}

// Fallback reports whether the result is the fallback theme.
func (r Result) Fallback() bool { return r.Reason != ReasonNone }

// Synthesizer is the part of the AI gateway the pipeline needs.
type Synthesizer interface {
	CredentialPresent(ctx context.Context) bool
	SynthesizeTheme(ctx context.Context, description string) (string, error)
}

// Pipeline generates themes through a Synthesizer.
type Pipeline struct {
	gateway Synthesizer
	now     func() time.Time
}

// NewPipeline creates a pipeline over gateway.
func NewPipeline(gateway Synthesizer) *Pipeline {
	return &Pipeline{gateway: gateway, now: time.Now}
}

// Generate returns a theme for description. It never returns an error;
// callers inspect Result.Fallback and Result.Reason instead.
func (p *Pipeline) Generate(ctx context.Context, description string) Result {
	if !p.gateway.CredentialPresent(ctx) {
		return fallback(description, ReasonCredentialAbsent)
	}

	text, err := p.gateway.SynthesizeTheme(ctx, description)
	if err != nil {
		if errors.Is(err, ai.ErrCredentialAbsent) {
			return fallback(description, ReasonCredentialAbsent)
		}
		if errors.Is(err, ai.ErrFlagged) {
			return fallback(description, ReasonModerated)
		}
		slog.Warn("theme synthesis failed", "error", err)
		return fallback(description, ReasonRemoteCall)
	}

	fields, err := Parse(text)
	if err != nil {
		slog.Warn("theme response rejected", "error", err)
		return fallback(description, ReasonMalformed)
	}

	return Result{Theme: models.Theme{
		ID:          fmt.Sprintf("custom-%d", p.now().UnixMilli()),
		Name:        description,
		Background:  fields.Background,
		TextColor:   fields.TextColor,
		AccentColor: fields.AccentColor,
		CardBg:      fields.CardBg,
	}}
}

// Fields are the four values a synthesized theme must carry. Values are
// copied verbatim; no color or gradient syntax is checked.
type Fields struct {
	Background  string
	TextColor   string
	AccentColor string
	CardBg      string
}

var fenceStripper = strings.NewReplacer("```json", "", "```", "")

// Parse strips markdown code fences from text and decodes the theme
// object. Extra keys are ignored; a missing, empty or non-string field
// makes the whole response malformed.
func Parse(text string) (Fields, error) {
	cleaned := strings.TrimSpace(fenceStripper.Replace(text))

	var raw map[string]any
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return Fields{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	values := make([]string, len(ai.ThemeFields))
	for i, key := range ai.ThemeFields {
		s, ok := raw[key].(string)
		if !ok || strings.TrimSpace(s) == "" {
			return Fields{}, fmt.Errorf("%w: field %q missing or empty", ErrMalformed, key)
		}
		values[i] = s
	}

	return Fields{
		Background:  values[0],
		TextColor:   values[1],
		AccentColor: values[2],
		CardBg:      values[3],
	}, nil
}

// FallbackTheme is the neutral light theme used whenever generation cannot
// be completed or trusted. Its name is the description verbatim.
func FallbackTheme(description string) models.Theme {
	def := models.DefaultTheme()
	return models.Theme{
		ID:          FallbackID,
		Name:        description,
		Background:  def.Background,
		TextColor:   def.TextColor,
		AccentColor: def.AccentColor,
		CardBg:      def.CardBg,
	}
}

func fallback(description string, reason Reason) Result {
	return Result{Theme: FallbackTheme(description), Reason: reason}
}
