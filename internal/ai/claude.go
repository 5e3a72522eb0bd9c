// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"artstudio/internal/models"
)

// claudeProvider implements the Provider interface using the Anthropic
// Messages API.
type claudeProvider struct {
	config ProviderConfig
	client anthropic.Client
}

// newClaude creates a new Anthropic Claude provider. Retries are disabled:
// each request is a single attempt.
func newClaude(cfg ProviderConfig) *claudeProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.anthropic.com"
	}
	return &claudeProvider{
		config: cfg,
		client: anthropic.NewClient(
			option.WithBaseURL(cfg.BaseURL),
			option.WithMaxRetries(0),
			option.WithHTTPClient(&http.Client{Timeout: 60 * time.Second}),
		),
	}
}

func (p *claudeProvider) Name() string { return "claude" }

// Generate sends a message to the Anthropic Messages API.
func (p *claudeProvider) Generate(ctx context.Context, apiKey string, req *Request) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.config.Model),
		MaxTokens: 1024,
		Messages:  claudeMessages(req),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	msg, err := p.client.Messages.New(ctx, params, option.WithAPIKey(apiKey))
	if err != nil {
		return "", fmt.Errorf("claude: %w", err)
	}

	for _, block := range msg.Content {
		if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
			return block.Text, nil
		}
	}

	return "", fmt.Errorf("claude: %w", ErrEmptyResponse)
}

// claudeMessages converts history and prompt into Messages API turns. The
// API wants a user turn first and alternating roles, so leading assistant
// turns are dropped and consecutive turns of one role share a message.
func claudeMessages(req *Request) []anthropic.MessageParam {
	var msgs []anthropic.MessageParam
	add := func(role anthropic.MessageParamRole, blocks ...anthropic.ContentBlockParamUnion) {
		if len(msgs) == 0 && role == anthropic.MessageParamRoleAssistant {
			return
		}
		if n := len(msgs); n > 0 && msgs[n-1].Role == role {
			msgs[n-1].Content = append(msgs[n-1].Content, blocks...)
			return
		}
		msgs = append(msgs, anthropic.MessageParam{Role: role, Content: blocks})
	}

	for _, turn := range req.History {
		role := anthropic.MessageParamRoleUser
		if turn.Role == models.RoleAssistant {
			role = anthropic.MessageParamRoleAssistant
		}
		add(role, anthropic.NewTextBlock(turn.Text))
	}

	if req.Image == nil {
		add(anthropic.MessageParamRoleUser, anthropic.NewTextBlock(req.Prompt))
		return msgs
	}

	add(anthropic.MessageParamRoleUser,
		anthropic.NewImageBlockBase64(req.Image.MIMEType, base64.StdEncoding.EncodeToString(req.Image.Data)),
		anthropic.NewTextBlock(req.Prompt),
	)
	return msgs
}
