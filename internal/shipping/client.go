// Package shipping fetches carrier rates from the external rate service.
package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/steadybroo69-afk/gym/internal/domain"
)

// Default parcel for a single apparel order.
const (
	DefaultWeightLb = 0.5
	DefaultLengthIn = 10.0
	DefaultWidthIn  = 8.0
	DefaultHeightIn = 2.0
)

// senderAddress is the warehouse origin for all shipments.
var senderAddress = map[string]string{
	"name":    "RAZE Fulfillment",
	"street1": "2000 Commerce Dr",
	"city":    "Austin",
	"state":   "TX",
	"zip":     "78701",
	"country": "US",
}

// RateRequest describes one shipment to quote. Zero dimensions fall back to
// the default apparel parcel.
type RateRequest struct {
	AddressTo domain.ShippingAddress
	WeightLb  float64
	LengthIn  float64
	WidthIn   float64
	HeightIn  float64
}

// Client calls the rate service over HTTP behind a circuit breaker.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	cb      *gobreaker.CircuitBreaker[[]byte]
}

func NewClient(baseURL, apiKey string, cb *gobreaker.CircuitBreaker[[]byte]) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout:   15 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		cb: cb,
	}
}

type wireRate struct {
	ObjectID      string `json:"object_id"`
	Provider      string `json:"provider"`
	ServiceLevel  string `json:"service_level"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	EstimatedDays int    `json:"estimated_days"`
}

// Rates quotes the shipment and returns the options cheapest first.
func (c *Client) Rates(ctx context.Context, req RateRequest) ([]domain.ShippingRate, error) {
	if req.WeightLb <= 0 {
		req.WeightLb = DefaultWeightLb
	}
	if req.LengthIn <= 0 {
		req.LengthIn = DefaultLengthIn
	}
	if req.WidthIn <= 0 {
		req.WidthIn = DefaultWidthIn
	}
	if req.HeightIn <= 0 {
		req.HeightIn = DefaultHeightIn
	}

	payload := map[string]any{
		"address_from": senderAddress,
		"address_to": map[string]string{
			"name":    req.AddressTo.FirstName + " " + req.AddressTo.LastName,
			"street1": req.AddressTo.AddressLine1,
			"street2": req.AddressTo.AddressLine2,
			"city":    req.AddressTo.City,
			"state":   req.AddressTo.State,
			"zip":     req.AddressTo.PostalCode,
			"country": req.AddressTo.Country,
			"phone":   req.AddressTo.Phone,
			"email":   req.AddressTo.Email,
		},
		"parcel": map[string]string{
			"length":        fmt.Sprintf("%g", req.LengthIn),
			"width":         fmt.Sprintf("%g", req.WidthIn),
			"height":        fmt.Sprintf("%g", req.HeightIn),
			"distance_unit": "in",
			"weight":        fmt.Sprintf("%g", req.WeightLb),
			"mass_unit":     "lb",
		},
	}

	body, err := c.do(ctx, "/shipments", payload)
	if err != nil {
		return nil, fmt.Errorf("fetch shipping rates: %w", err)
	}

	var resp struct {
		Rates []wireRate `json:"rates"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode rates response: %w", err)
	}

	rates := make([]domain.ShippingRate, 0, len(resp.Rates))
	for _, r := range resp.Rates {
		amount, err := decimal.NewFromString(r.Amount)
		if err != nil {
			continue
		}
		provider := r.Provider
		if provider == "" {
			provider = "Unknown"
		}
		level := r.ServiceLevel
		if level == "" {
			level = "Standard"
		}
		currency := r.Currency
		if currency == "" {
			currency = "USD"
		}
		rates = append(rates, domain.ShippingRate{
			ObjectID:      r.ObjectID,
			Provider:      provider,
			ServiceLevel:  level,
			Amount:        amount,
			Currency:      currency,
			EstimatedDays: r.EstimatedDays,
		})
	}

	sort.Slice(rates, func(i, j int) bool {
		return rates[i].Amount.LessThan(rates[j].Amount)
	})
	return rates, nil
}

// Label is a purchased shipping label for a confirmed order.
type Label struct {
	TrackingNumber string `json:"tracking_number"`
	LabelURL       string `json:"label_url"`
	Carrier        string `json:"carrier"`
}

// BuyLabel purchases the label for a previously quoted rate.
func (c *Client) BuyLabel(ctx context.Context, rateID string) (Label, error) {
	body, err := c.do(ctx, "/transactions", map[string]string{"rate": rateID})
	if err != nil {
		return Label{}, fmt.Errorf("buy shipping label: %w", err)
	}

	var label Label
	if err := json.Unmarshal(body, &label); err != nil {
		return Label{}, fmt.Errorf("decode label response: %w", err)
	}
	if label.TrackingNumber == "" {
		return Label{}, fmt.Errorf("buy shipping label: no tracking number returned")
	}
	return label, nil
}

func (c *Client) do(ctx context.Context, path string, payload any) ([]byte, error) {
	return c.cb.Execute(func() ([]byte, error) {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Authorization", "ShippoToken "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		out, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("rate service returned %d: %s", resp.StatusCode, out)
		}
		return out, nil
	})
}
