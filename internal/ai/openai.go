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

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"artstudio/internal/models"
)

// openAIProvider implements the Provider interface using the OpenAI
// chat completions API. Mistral reuses it with a different base URL.
type openAIProvider struct {
	name   string
	config ProviderConfig
	client openai.Client
}

// newOpenAI creates a new OpenAI provider.
func newOpenAI(cfg ProviderConfig) *openAIProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	return newChatCompletions("openai", cfg)
}

// newChatCompletions builds a client for any OpenAI-compatible endpoint.
// Retries are disabled: each request is a single attempt.
func newChatCompletions(name string, cfg ProviderConfig) *openAIProvider {
	return &openAIProvider{
		name:   name,
		config: cfg,
		client: openai.NewClient(
			option.WithBaseURL(cfg.BaseURL),
			option.WithMaxRetries(0),
			option.WithHTTPClient(&http.Client{Timeout: 60 * time.Second}),
		),
	}
}

func (p *openAIProvider) Name() string { return p.name }

// Generate sends a chat completion request and returns the assistant's
// response text.
func (p *openAIProvider) Generate(ctx context.Context, apiKey string, req *Request) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, chatCompletionParams(p.config.Model, req), option.WithAPIKey(apiKey))
	if err != nil {
		return "", fmt.Errorf("%s: %w", p.name, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: no choices returned", p.name)
	}

	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%s: %w", p.name, ErrEmptyResponse)
	}
	return content, nil
}

// chatCompletionParams converts a Request into chat completion messages:
// system instruction, history, then the prompt with an optional image.
func chatCompletionParams(model string, req *Request) openai.ChatCompletionNewParams {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.History)+2)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	for _, turn := range req.History {
		if turn.Role == models.RoleAssistant {
			messages = append(messages, openai.AssistantMessage(turn.Text))
		} else {
			messages = append(messages, openai.UserMessage(turn.Text))
		}
	}

	if req.Image != nil {
		messages = append(messages, openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
			openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: req.Image.DataURL()}),
			openai.TextContentPart(req.Prompt),
		}))
	} else {
		messages = append(messages, openai.UserMessage(req.Prompt))
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: messages,
	}
	if len(req.JSONFields) > 0 {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}
	return params
}
