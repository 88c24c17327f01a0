package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// PromoCode is the stored definition of a code. Uses counts successful
// redemptions; MaxUses nil means unlimited.
type PromoCode struct {
	Code          string          `json:"code"`
	DiscountType  DiscountType    `json:"discount_type"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	MinOrder      decimal.Decimal `json:"min_order"`
	MaxUses       *int            `json:"max_uses,omitempty"`
	Uses          int             `json:"uses"`
	Active        bool            `json:"active"`
	ExpiresAt     *time.Time      `json:"expires_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// PromoApplication is the transient result of a successful validation, held
// only for the active checkout attempt.
type PromoApplication struct {
	Code            string          `json:"code"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	DiscountDisplay string          `json:"discount_display"`
}
