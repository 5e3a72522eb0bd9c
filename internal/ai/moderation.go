// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"
)

// ModerationResult contains the outcome of a prompt safety check.
type ModerationResult struct {
	Safe       bool     // true if the text passes moderation
	Categories []string // sorted flagged category names (empty when safe)
}

// Moderator checks student text for policy violations before it is sent
// to a generation endpoint.
type Moderator interface {
	CheckSafety(ctx context.Context, text string) (*ModerationResult, error)
}

// moderationClient posts to an OpenAI-style /moderations endpoint. OpenAI
// and Mistral share the request shape and differ only in how flags are
// reported.
type moderationClient struct {
	label    string
	apiKey   string
	endpoint string
	model    string
	client   *http.Client
}

func (c *moderationClient) post(ctx context.Context, text string, out any) error {
	payload, err := json.Marshal(moderationRequest{Model: c.model, Input: text})
	if err != nil {
		return fmt.Errorf("%s moderation marshal: %w", c.label, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%s moderation request: %w", c.label, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s moderation http: %w", c.label, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s moderation read body: %w", c.label, err)
	}
	if resp.StatusCode != http.StatusOK {
		return &moderationStatusError{label: c.label, status: resp.StatusCode, body: string(body)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s moderation unmarshal: %w", c.label, err)
	}
	return nil
}

// moderationStatusError reports a non-200 moderation response.
type moderationStatusError struct {
	label  string
	status int
	body   string
}

func (e *moderationStatusError) Error() string {
	return fmt.Sprintf("%s moderation API error (status %d): %s", e.label, e.status, e.body)
}

// flaggedCategories turns a category map into sorted display names:
// "hate/threatening" becomes "hate (threatening)".
func flaggedCategories(categories map[string]bool) []string {
	var flagged []string
	for cat, isFlagged := range categories {
		if !isFlagged {
			continue
		}
		display := cat
		if strings.Contains(display, "/") {
			display = strings.Replace(display, "/", " (", 1) + ")"
		}
		flagged = append(flagged, strings.ReplaceAll(display, "_", " "))
	}
	sort.Strings(flagged)
	return flagged
}

// --- OpenAI Moderation (free endpoint) ---

type openAIModerator struct {
	moderationClient
}

func newOpenAIModerator(apiKey, baseURL string) *openAIModerator {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &openAIModerator{moderationClient{
		label:    "openai",
		apiKey:   apiKey,
		endpoint: baseURL + "/moderations",
		model:    "omni-moderation-latest",
		client:   &http.Client{Timeout: 15 * time.Second},
	}}
}

func (m *openAIModerator) CheckSafety(ctx context.Context, text string) (*ModerationResult, error) {
	var result openAIModResponse
	if err := m.post(ctx, text, &result); err != nil {
		return nil, err
	}
	if len(result.Results) == 0 || !result.Results[0].Flagged {
		return &ModerationResult{Safe: true}, nil
	}
	return &ModerationResult{Categories: flaggedCategories(result.Results[0].Categories)}, nil
}

// --- Mistral Moderation (paid, fallback) ---

type mistralModerator struct {
	moderationClient
}

func newMistralModerator(apiKey, baseURL string) *mistralModerator {
	if baseURL == "" {
		baseURL = "https://api.mistral.ai"
	}
	return &mistralModerator{moderationClient{
		label:    "mistral",
		apiKey:   apiKey,
		endpoint: baseURL + "/v1/moderations",
		model:    "mistral-moderation-latest",
		client:   &http.Client{Timeout: 15 * time.Second},
	}}
}

// CheckSafety flags the text when any category is set; Mistral has no
// top-level "flagged" field.
func (m *mistralModerator) CheckSafety(ctx context.Context, text string) (*ModerationResult, error) {
	var result mistralModResponse
	if err := m.post(ctx, text, &result); err != nil {
		return nil, err
	}
	if len(result.Results) == 0 {
		return &ModerationResult{Safe: true}, nil
	}
	flagged := flaggedCategories(result.Results[0].Categories)
	return &ModerationResult{Safe: len(flagged) == 0, Categories: flagged}, nil
}

// --- Fallback ---

// fallbackModerator asks primary first and switches to secondary when the
// primary rejects the key (401/403), e.g. project-scoped OpenAI keys.
type fallbackModerator struct {
	primary   Moderator
	secondary Moderator
}

func newFallbackModerator(primary, secondary Moderator) *fallbackModerator {
	return &fallbackModerator{primary: primary, secondary: secondary}
}

func (f *fallbackModerator) CheckSafety(ctx context.Context, text string) (*ModerationResult, error) {
	result, err := f.primary.CheckSafety(ctx, text)
	if err == nil {
		return result, nil
	}
	var se *moderationStatusError
	if errors.As(err, &se) && (se.status == http.StatusUnauthorized || se.status == http.StatusForbidden) {
		slog.Warn("primary moderator rejected key, using fallback", "moderator", se.label, "status", se.status)
		return f.secondary.CheckSafety(ctx, text)
	}
	return nil, err
}

// --- Request/Response types ---

type moderationRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type openAIModResponse struct {
	Results []openAIModResult `json:"results"`
}

type openAIModResult struct {
	Flagged    bool            `json:"flagged"`
	Categories map[string]bool `json:"categories"`
}

type mistralModResponse struct {
	Results []mistralModResult `json:"results"`
}

type mistralModResult struct {
	Categories map[string]bool `json:"categories"`
}
