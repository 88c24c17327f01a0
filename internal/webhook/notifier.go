// Package webhook fires best-effort event notifications to the automation
// platform. Failures are logged and never surfaced to the caller.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/steadybroo69-afk/gym/pkg/logx"
)

// Notifier posts JSON events to configured webhook URLs. An empty URL
// disables that event type.
type Notifier struct {
	signupURL   string
	giveawayURL string
	client      *http.Client
}

func NewNotifier(signupURL, giveawayURL string) *Notifier {
	return &Notifier{
		signupURL:   signupURL,
		giveawayURL: giveawayURL,
		client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// GiveawayEntry announces a giveaway popup signup.
func (n *Notifier) GiveawayEntry(ctx context.Context, email string) {
	n.post(ctx, n.giveawayURL, map[string]string{
		"email":      email,
		"event_type": "giveaway_entry",
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
}

// Signup announces an account registration.
func (n *Notifier) Signup(ctx context.Context, email, name, discountCode, method string) {
	n.post(ctx, n.signupURL, map[string]string{
		"email":         email,
		"name":          name,
		"discount_code": discountCode,
		"signup_method": method,
		"event_type":    "account_signup",
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
	})
}

func (n *Notifier) post(ctx context.Context, url string, payload map[string]string) {
	if url == "" {
		return
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		logx.Error().Err(err).Msg("marshal webhook payload")
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		logx.Error().Err(err).Str("url", url).Msg("build webhook request")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		logx.Error().Err(err).Str("url", url).Msg("webhook delivery failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logx.Warn().Int("status", resp.StatusCode).Str("url", url).Msg("webhook returned non-200")
		return
	}
	logx.Info().Str("event", payload["event_type"]).Msg("webhook delivered")
}
