// Package claude drafts resolutions with the Anthropic Messages API.
package claude

import (
	"context"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/linnemanlabs/supportflow/internal/resolution"
)

const (
	// ProviderName identifies this drafter in logs, metrics and drafts.
	ProviderName = "claude"

	// DefaultModel is used when no model is configured.
	DefaultModel = "claude-sonnet-4-20250514"

	responseTokens = 1024
)

// Client implements resolution.Drafter for the Claude API.
type Client struct {
	sdk   anthropic.Client
	model string
}

// New creates a Claude drafter. Extra request options are appended after the
// defaults, so tests can point the client at a local server.
func New(apiKey, model string, opts ...option.RequestOption) *Client {
	if model == "" {
		model = DefaultModel
	}
	base := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(1),
		option.WithRequestTimeout(60 * time.Second),
	}
	return &Client{
		sdk:   anthropic.NewClient(append(base, opts...)...),
		model: model,
	}
}

// Name returns the provider name.
func (c *Client) Name() string { return ProviderName }

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

// Draft asks Claude for a reply. Every failure is a *resolution.DraftingFailure.
func (c *Client) Draft(ctx context.Context, req *resolution.DraftRequest) (string, error) {
	msg, err := c.sdk.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: responseTokens,
		System:    []anthropic.TextBlockParam{{Text: resolution.SystemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(resolution.BuildPrompt(req))),
		},
	})
	if err != nil {
		return "", resolution.Failure(ctx, ProviderName, err)
	}

	text := textOf(msg)
	if strings.TrimSpace(text) == "" {
		return "", resolution.Malformed(ProviderName, "no text content (stop_reason=%s)", msg.StopReason)
	}
	return text, nil
}

// textOf concatenates the text blocks of a response verbatim.
func textOf(msg *anthropic.Message) string {
	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String()
}
