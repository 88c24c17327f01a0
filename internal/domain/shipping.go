package domain

import "github.com/shopspring/decimal"

// ShippingRate is one option returned by the external rate service,
// selected once per checkout attempt.
type ShippingRate struct {
	ObjectID      string          `json:"object_id"`
	Provider      string          `json:"provider"`
	ServiceLevel  string          `json:"service_level"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	EstimatedDays int             `json:"estimated_days,omitempty"`
}
