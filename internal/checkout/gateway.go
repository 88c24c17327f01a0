package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// SessionRequest is the payload sent to the payment gateway when opening a
// hosted checkout session.
type SessionRequest struct {
	Amount     decimal.Decimal   `json:"amount"`
	Currency   string            `json:"currency"`
	SuccessURL string            `json:"success_url"`
	CancelURL  string            `json:"cancel_url"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Session is the gateway's handle for a hosted checkout page.
type Session struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// SessionStatus reports where a session is in its lifecycle. PaymentStatus
// becomes "paid" once the charge settles.
type SessionStatus struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
}

// Gateway calls the external payment provider over HTTP. All calls run
// through a circuit breaker so a provider outage fails fast.
type Gateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
	cb      *gobreaker.CircuitBreaker[[]byte]
}

func NewGateway(baseURL, apiKey string, cb *gobreaker.CircuitBreaker[[]byte]) *Gateway {
	return &Gateway{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout:   15 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		cb: cb,
	}
}

// CreateSession opens a hosted checkout session for the given amount.
func (g *Gateway) CreateSession(ctx context.Context, req SessionRequest) (Session, error) {
	body, err := g.do(ctx, http.MethodPost, "/v1/checkout/sessions", req)
	if err != nil {
		return Session{}, fmt.Errorf("create checkout session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(body, &session); err != nil {
		return Session{}, fmt.Errorf("decode session response: %w", err)
	}
	if session.SessionID == "" || session.URL == "" {
		return Session{}, fmt.Errorf("create checkout session: incomplete response")
	}
	return session, nil
}

// GetStatus fetches the current state of a session.
func (g *Gateway) GetStatus(ctx context.Context, sessionID string) (SessionStatus, error) {
	body, err := g.do(ctx, http.MethodGet, "/v1/checkout/sessions/"+sessionID, nil)
	if err != nil {
		return SessionStatus{}, fmt.Errorf("get session status: %w", err)
	}

	var status SessionStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return SessionStatus{}, fmt.Errorf("decode status response: %w", err)
	}
	return status, nil
}

func (g *Gateway) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	return g.cb.Execute(func() ([]byte, error) {
		var body io.Reader
		if payload != nil {
			raw, err := json.Marshal(payload)
			if err != nil {
				return nil, fmt.Errorf("marshal request: %w", err)
			}
			body = bytes.NewReader(raw)
		}

		req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := g.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("gateway returned %d: %s", resp.StatusCode, raw)
		}
		return raw, nil
	})
}
