// Package openrouter drafts resolutions through OpenRouter's
// OpenAI-compatible chat completions API.
package openrouter

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/linnemanlabs/supportflow/internal/resolution"
)

const (
	// ProviderName identifies this drafter in logs, metrics and drafts.
	ProviderName = "openrouter"

	// DefaultBaseURL is the OpenRouter API root.
	DefaultBaseURL = "https://openrouter.ai/api/v1"

	// DefaultModel is a free-tier model.
	DefaultModel = "google/gemini-2.0-flash-lite-preview-02-05:free"
)

// Client implements resolution.Drafter for OpenRouter.
type Client struct {
	api   *openai.Client
	model string
}

// New creates an OpenRouter drafter. An empty baseURL selects DefaultBaseURL.
func New(apiKey, model, baseURL string) *Client {
	if model == "" {
		model = DefaultModel
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = strings.TrimRight(baseURL, "/")
	return &Client{
		api:   openai.NewClientWithConfig(cfg),
		model: model,
	}
}

// Name returns the provider name.
func (c *Client) Name() string { return ProviderName }

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

// Draft requests a single chat completion. Every failure is a
// *resolution.DraftingFailure.
func (c *Client) Draft(ctx context.Context, req *resolution.DraftRequest) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: resolution.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: resolution.BuildPrompt(req)},
		},
	})
	if err != nil {
		return "", resolution.Failure(ctx, ProviderName, err)
	}

	if len(resp.Choices) == 0 {
		return "", resolution.Malformed(ProviderName, "response has no choices")
	}
	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", resolution.Malformed(ProviderName, "empty completion (finish_reason=%s)", resp.Choices[0].FinishReason)
	}
	return text, nil
}
