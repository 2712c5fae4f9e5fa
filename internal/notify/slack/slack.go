// Package slack mirrors triage alerts to Slack via incoming webhooks.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/linnemanlabs/deskpilot/internal/triage"
)

const httpTimeout = 10 * time.Second

// Notifier posts alert summaries to a Slack webhook.
type Notifier struct {
	webhookURL string
	client     *http.Client
}

// New creates a new Slack notifier. If webhookURL is empty, Send is a no-op.
func New(webhookURL string) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: httpTimeout},
	}
}

// GuardianAlert posts a churn-risk alert summary.
func (n *Notifier) GuardianAlert(ctx context.Context, r *triage.Result) error {
	header := fmt.Sprintf("\U0001f6a8 High Churn Risk: %s", r.TicketID)
	fields := []string{
		fmt.Sprintf("*Customer:* %s", r.CustomerName),
		fmt.Sprintf("*MRR:* $%.0f", r.MRR),
		fmt.Sprintf("*Risk score:* %d/10", r.Guardian.RiskScore),
		fmt.Sprintf("*Sentiment:* %s", r.Guardian.Sentiment),
	}
	return n.send(ctx, header, fields, r.Guardian.Evidence)
}

// OpportunityAlert posts a revenue-signal alert summary.
func (n *Notifier) OpportunityAlert(ctx context.Context, r *triage.Result) error {
	header := fmt.Sprintf("\U0001f4b0 Revenue Signal: %s", r.TicketID)
	fields := []string{
		fmt.Sprintf("*Customer:* %s", r.CustomerName),
		fmt.Sprintf("*MRR:* $%.0f", r.MRR),
		fmt.Sprintf("*Intent:* %s", r.Opportunity.IntentType),
		fmt.Sprintf("*Confidence:* %d/10", r.Opportunity.Confidence),
	}
	return n.send(ctx, header, fields, r.Opportunity.Evidence)
}

func (n *Notifier) send(ctx context.Context, header string, fields []string, evidence string) error {
	if n.webhookURL == "" {
		return nil
	}

	msg := buildMessage(header, fields, evidence)
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("slack: marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("slack: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("slack: post webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("slack: webhook returned %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

func buildMessage(header string, fields []string, evidence string) map[string]any {
	fieldBlocks := make([]map[string]any, 0, len(fields))
	for _, f := range fields {
		fieldBlocks = append(fieldBlocks, map[string]any{"type": "mrkdwn", "text": f})
	}

	blocks := []map[string]any{
		{
			"type": "header",
			"text": map[string]any{"type": "plain_text", "text": header},
		},
		{
			"type":   "section",
			"fields": fieldBlocks,
		},
	}
	if evidence != "" {
		blocks = append(blocks, map[string]any{
			"type": "section",
			"text": map[string]any{
				"type": "mrkdwn",
				"text": fmt.Sprintf("*Evidence*\n> %s", evidence),
			},
		})
	}
	return map[string]any{"blocks": blocks}
}
