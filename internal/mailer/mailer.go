// Package mailer sends transactional email through the external mail API.
// Every send is best-effort; callers log failures and move on.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Message is one outbound email.
type Message struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Sender is the outbound mail surface. Satisfied by Client and by test fakes.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Client posts messages to the mail API.
type Client struct {
	baseURL string
	apiKey  string
	from    string
	client  *http.Client
}

func NewClient(baseURL, apiKey, senderEmail string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		from:    senderEmail,
		client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// From returns the configured sender address.
func (c *Client) From() string { return c.from }

func (c *Client) Send(ctx context.Context, msg Message) error {
	if c.apiKey == "" {
		return fmt.Errorf("mail api key not configured")
	}
	if msg.From == "" {
		msg.From = c.from
	}

	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("mail api returned %d: %s", resp.StatusCode, body)
	}
	return nil
}
