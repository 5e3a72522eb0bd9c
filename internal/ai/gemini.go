// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"artstudio/internal/models"
)

// DefaultGeminiModel is used when GEMINI_MODEL is not set.
const DefaultGeminiModel = "gemini-2.5-flash"

// geminiProvider implements the Provider interface with the Google GenAI
// SDK against the Gemini Developer API. A client is built per call since
// the API key is only known at call time.
type geminiProvider struct {
	config     ProviderConfig
	httpClient *http.Client
}

// newGemini creates a new Google Gemini provider.
func newGemini(cfg ProviderConfig) *geminiProvider {
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	return &geminiProvider{
		config:     cfg,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (p *geminiProvider) Name() string { return "gemini" }

// Generate sends a generateContent request carrying the history, an
// optional inline image and the prompt.
func (p *geminiProvider) Generate(ctx context.Context, apiKey string, req *Request) (string, error) {
	cc := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: p.httpClient,
	}
	if p.config.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: strings.TrimRight(p.config.BaseURL, "/") + "/"}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return "", fmt.Errorf("gemini client: %w", err)
	}

	resp, err := client.Models.GenerateContent(ctx, p.config.Model, geminiContents(req), geminiConfig(req))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("gemini: %w", ErrEmptyResponse)
	}
	return text, nil
}

// geminiContents converts the request history and prompt into Gemini
// contents. Assistant turns map to the "model" role.
func geminiContents(req *Request) []*genai.Content {
	contents := make([]*genai.Content, 0, len(req.History)+1)
	for _, turn := range req.History {
		var role genai.Role = genai.RoleUser
		if turn.Role == models.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Text, role))
	}

	var parts []*genai.Part
	if req.Image != nil {
		parts = append(parts, genai.NewPartFromBytes(req.Image.Data, req.Image.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(req.Prompt))
	return append(contents, genai.NewContentFromParts(parts, genai.RoleUser))
}

// geminiConfig builds the generation config: system instruction and, for
// JSON requests, a response schema of required string properties.
func geminiConfig(req *Request) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if len(req.JSONFields) > 0 {
		props := make(map[string]*genai.Schema, len(req.JSONFields))
		for _, f := range req.JSONFields {
			props[f] = &genai.Schema{Type: genai.TypeString}
		}
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = &genai.Schema{
			Type:       genai.TypeObject,
			Properties: props,
			Required:   req.JSONFields,
		}
	}
	return cfg
}
