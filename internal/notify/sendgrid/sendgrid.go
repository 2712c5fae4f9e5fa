// Package sendgrid sends alert emails via the SendGrid v3 mail API.
package sendgrid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultEndpoint = "https://api.sendgrid.com/v3/mail/send"
	httpTimeout     = 10 * time.Second
)

// Client sends mail through the SendGrid API.
type Client struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// New creates a SendGrid mail client.
func New(apiKey string) *Client {
	return &Client{
		apiKey:   apiKey,
		endpoint: defaultEndpoint,
		client:   &http.Client{Timeout: httpTimeout},
	}
}

// NewWithEndpoint creates a client against a custom endpoint. Used in tests.
func NewWithEndpoint(apiKey, endpoint string) *Client {
	c := New(apiKey)
	c.endpoint = endpoint
	return c
}

// Send delivers one HTML email. SendGrid answers 202 on acceptance; any
// 2xx status is treated as success.
func (c *Client) Send(ctx context.Context, from, to, subject, htmlBody string) error {
	payload := map[string]any{
		"personalizations": []map[string]any{
			{"to": []map[string]string{{"email": to}}},
		},
		"from":    map[string]string{"email": from},
		"subject": subject,
		"content": []map[string]string{
			{"type": "text/html", "value": htmlBody},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("sendgrid: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("sendgrid: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("sendgrid: post mail: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sendgrid: api returned %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
