// Package slack posts severity escalations to Slack via incoming webhooks.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/linnemanlabs/go-core/log"

	"github.com/linnemanlabs/supportflow/internal/severity"
	"github.com/linnemanlabs/supportflow/internal/support"
)

const (
	maxComplaintLen = 2000
	maxPolicyLen    = 1000
	httpTimeout     = 10 * time.Second
)

// Notifier sends escalations to a Slack webhook.
type Notifier struct {
	webhookURL string
	client     *http.Client
	logger     log.Logger
}

// New creates a Slack notifier. If webhookURL is empty, Notify is a no-op.
func New(webhookURL string, logger log.Logger) *Notifier {
	if logger == nil {
		logger = log.Nop()
	}
	return &Notifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: httpTimeout},
		logger:     logger,
	}
}

// Notify posts an escalation to the configured webhook.
func (n *Notifier) Notify(ctx context.Context, e *support.Escalation) error {
	if n.webhookURL == "" {
		return nil
	}

	body, err := json.Marshal(buildMessage(e))
	if err != nil {
		return fmt.Errorf("slack: marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("slack: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req) //nolint:gosec // G704: webhookURL is from trusted config, not user input
	if err != nil {
		return fmt.Errorf("slack: post webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("slack: webhook returned %d: %s", resp.StatusCode, string(respBody))
	}

	n.logger.Info(ctx, "escalation posted", "escalation_id", e.ID, "priority", e.Severity.Priority.String())
	return nil
}

func buildMessage(e *support.Escalation) map[string]any {
	return map[string]any{
		"text": fmt.Sprintf("%s complaint escalated (score %d)", e.Severity.Priority, e.Severity.Score),
		"blocks": []map[string]any{
			headerBlock(e),
			fieldsBlock(e),
			{"type": "divider"},
			textBlock("Complaint", truncate(e.Text, maxComplaintLen)),
			textBlock("Policy", truncate(e.PolicyContext, maxPolicyLen)),
			contextBlock(e),
		},
	}
}

func headerBlock(e *support.Escalation) map[string]any {
	return map[string]any{
		"type": "header",
		"text": map[string]any{
			"type": "plain_text",
			"text": fmt.Sprintf("%s %s severity complaint", priorityEmoji(e.Severity.Priority), e.Severity.Priority),
		},
	}
}

func fieldsBlock(e *support.Escalation) map[string]any {
	return map[string]any{
		"type": "section",
		"fields": []map[string]any{
			{"type": "mrkdwn", "text": fmt.Sprintf("*Score:* %d/10", e.Severity.Score)},
			{"type": "mrkdwn", "text": fmt.Sprintf("*SLA:* %s", e.Severity.SLA)},
		},
	}
}

func textBlock(title, text string) map[string]any {
	if text == "" {
		text = "_none_"
	}
	return map[string]any{
		"type": "section",
		"text": map[string]any{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*%s*\n%s", title, text),
		},
	}
}

func contextBlock(e *support.Escalation) map[string]any {
	return map[string]any{
		"type": "context",
		"elements": []map[string]any{{
			"type": "mrkdwn",
			"text": fmt.Sprintf("supportflow • escalation %s • %s", e.ID, e.CreatedAt.UTC().Format("2006-01-02 15:04 UTC")),
		}},
	}
}

func priorityEmoji(p severity.Tier) string {
	switch p {
	case severity.High:
		return "\U0001f534" // red circle
	case severity.Medium:
		return "\U0001f7e1" // yellow circle
	default:
		return "\U0001f7e2" // green circle
	}
}

// truncate cuts s to at most limit bytes without splitting a rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
