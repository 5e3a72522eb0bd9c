// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"artstudio/internal/models"
)

var (
	// ErrCredentialAbsent means no API credential could be resolved. No
	// network call was made.
	ErrCredentialAbsent = errors.New("ai: credential absent")

	// ErrRemoteCall wraps every failure of the remote generative service.
	ErrRemoteCall = errors.New("ai: remote call failed")

	// ErrFlagged means the text was rejected by prompt moderation.
	ErrFlagged = errors.New("ai: prompt flagged by moderation")
)

// Fixed replies produced without (or instead of) a model answer.
const (
	GuidanceMessage  = "The API key is not set yet. Open the settings (⚙️) in the top right and enter your key."
	NoReplyMessage   = "I could not produce a reply."
	LookedMessage    = "I had a good look at your picture!"
	ModeratedMessage = "Let's talk about art instead! Tell me about the picture you are making."
)

// chatInstruction is the system instruction for every conversational turn.
const chatInstruction = "You are a friendly art teacher's assistant for elementary school students in grades 4 to 6. " +
	"When a student shares their work, praise it and ask which prompt they used to create it. " +
	"Answer warmly in at most three sentences."

// ThemeFields are the keys a synthesized theme must carry.
var ThemeFields = []string{"background", "textColor", "accentColor", "cardBg"}

// themeInstruction builds the single-turn theme synthesis prompt.
func themeInstruction(description string) string {
	return fmt.Sprintf(`Create a color theme for a portfolio website based on this vibe: %q.
Return ONLY a JSON object with these fields:
- background: a valid CSS linear-gradient string (e.g., "linear-gradient(to right, #ff0000, #00ff00)") or a solid hex color. Make it light enough for text readability or provide a dark background with light text.
- textColor: a hex color code for the main text (contrast with background).
- accentColor: a hex color code for buttons and highlights.
- cardBg: a hex color code for item cards (usually white or slightly transparent white/black).

Do not wrap in markdown code blocks.`, description)
}

// Credentials resolves the API credential for a call.
type Credentials interface {
	Resolve(ctx context.Context) (string, bool)
}

// Gateway performs the three studio requests against the active provider.
// Every call is a single attempt: no retries, no caching, no streaming.
type Gateway struct {
	registry *Registry
	creds    Credentials
}

// NewGateway creates a gateway over the registry's active provider.
func NewGateway(registry *Registry, creds Credentials) *Gateway {
	return &Gateway{registry: registry, creds: creds}
}

// CredentialPresent reports whether a credential currently resolves.
func (g *Gateway) CredentialPresent(ctx context.Context) bool {
	_, ok := g.creds.Resolve(ctx)
	return ok
}

// Converse sends the prior conversation plus text and returns the
// assistant's reply. An absent credential yields GuidanceMessage and a
// flagged text yields ModeratedMessage, both with a nil error. Remote
// failures are returned wrapped in ErrRemoteCall.
func (g *Gateway) Converse(ctx context.Context, history []models.Message, text string) (string, error) {
	key, ok := g.creds.Resolve(ctx)
	if !ok {
		return GuidanceMessage, nil
	}

	if g.flagged(ctx, text) {
		return ModeratedMessage, nil
	}

	turns := make([]Turn, 0, len(history))
	for _, m := range history {
		turns = append(turns, Turn{Role: m.Role, Text: m.Text})
	}

	reply, err := g.registry.Generate(ctx, key, &Request{
		System:  chatInstruction,
		History: turns,
		Prompt:  text,
	})
	if errors.Is(err, ErrEmptyResponse) {
		return NoReplyMessage, nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRemoteCall, err)
	}
	return reply, nil
}

// DescribeArtwork sends one inline image with an instruction, without
// history. An absent credential yields GuidanceMessage with a nil error.
func (g *Gateway) DescribeArtwork(ctx context.Context, image *Image, instruction string) (string, error) {
	key, ok := g.creds.Resolve(ctx)
	if !ok {
		return GuidanceMessage, nil
	}

	reply, err := g.registry.Generate(ctx, key, &Request{
		Prompt: instruction,
		Image:  image,
	})
	if errors.Is(err, ErrEmptyResponse) {
		return LookedMessage, nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRemoteCall, err)
	}
	return reply, nil
}

// SynthesizeTheme asks the model for a JSON color scheme matching the mood
// of description and returns the raw response text. Parsing is the
// caller's concern.
func (g *Gateway) SynthesizeTheme(ctx context.Context, description string) (string, error) {
	key, ok := g.creds.Resolve(ctx)
	if !ok {
		return "", ErrCredentialAbsent
	}

	if g.flagged(ctx, description) {
		return "", ErrFlagged
	}

	text, err := g.registry.Generate(ctx, key, &Request{
		Prompt:     themeInstruction(description),
		JSONFields: ThemeFields,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRemoteCall, err)
	}
	return text, nil
}

// flagged runs moderation and fails open on moderation errors, since the
// providers keep their own safety filters.
func (g *Gateway) flagged(ctx context.Context, text string) bool {
	result, err := g.registry.CheckPrompt(ctx, text)
	if err != nil {
		slog.Warn("moderation check failed, allowing prompt", "error", err)
		return false
	}
	if result.Safe {
		return false
	}
	slog.Warn("prompt flagged by moderation", "categories", strings.Join(result.Categories, ", "))
	return true
}
