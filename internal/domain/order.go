package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// ShippingAddress is the destination captured at checkout.
type ShippingAddress struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
}

type Order struct {
	ID                  string          `json:"id"`
	OrderNumber         string          `json:"order_number"`
	Items               []LineItem      `json:"items"`
	Shipping            ShippingAddress `json:"shipping"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	Discount            decimal.Decimal `json:"discount"`
	DiscountDescription string          `json:"discount_description,omitempty"`
	PromoCode           string          `json:"promo_code,omitempty"`
	AccessCode          string          `json:"access_code,omitempty"`
	ShippingCost        decimal.Decimal `json:"shipping_cost"`
	Total               decimal.Decimal `json:"total"`
	Status              OrderStatus     `json:"status"`
	SessionID           string          `json:"session_id,omitempty"`
	TrackingNumber      string          `json:"tracking_number,omitempty"`
	Carrier             string          `json:"carrier,omitempty"`
	Notes               string          `json:"notes,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
	ShippedAt           *time.Time      `json:"shipped_at,omitempty"`
	DeliveredAt         *time.Time      `json:"delivered_at,omitempty"`
}

// NewOrderNumber generates a customer-facing order number like RAZE-1A2B3C4D.
func NewOrderNumber() string {
	return "RAZE-" + strings.ToUpper(uuid.NewString()[:8])
}
