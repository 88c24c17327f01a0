package mailer

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/steadybroo69-afk/gym/internal/domain"
)

func TestOrderConfirmationRendersMoneyAndAddress(t *testing.T) {
	order := domain.Order{
		OrderNumber: "RAZE-1A2B3C4D",
		Items: []domain.LineItem{
			{ProductName: "Oversized Drop Tee", Color: "Black", Size: "M", Price: decimal.NewFromInt(45), Quantity: 2},
		},
		Shipping: domain.ShippingAddress{
			FirstName:    "Jordan",
			LastName:     "Reyes",
			Email:        "jordan@example.com",
			AddressLine1: "500 Iron St",
			City:         "Austin",
			State:        "TX",
			PostalCode:   "78701",
			Country:      "US",
		},
		Subtotal:     decimal.NewFromInt(90),
		Discount:     decimal.NewFromInt(18),
		ShippingCost: decimal.RequireFromString("8.50"),
		Total:        decimal.RequireFromString("80.50"),
		CreatedAt:    time.Now(),
	}

	msg := OrderConfirmation("orders@raze.test", order)

	assert.Equal(t, []string{"jordan@example.com"}, msg.To)
	assert.Equal(t, "Order Confirmed - RAZE-1A2B3C4D", msg.Subject)

	assert.Contains(t, msg.HTML, "Subtotal: $90.00")
	assert.Contains(t, msg.HTML, "Discount: -$18.00")
	assert.Contains(t, msg.HTML, "Shipping: $8.50")
	assert.Contains(t, msg.HTML, "Total: $80.50")
	assert.Contains(t, msg.HTML, "$45.00")
	assert.Contains(t, msg.HTML, "Black / M")
	assert.Contains(t, msg.HTML, "Austin, TX 78701")
}

func TestOrderConfirmationOmitsZeroDiscount(t *testing.T) {
	order := domain.Order{
		OrderNumber: "RAZE-0F0F0F0F",
		Shipping:    domain.ShippingAddress{FirstName: "Sam", Email: "sam@example.com"},
		Subtotal:    decimal.NewFromInt(45),
		Total:       decimal.NewFromInt(60),
	}

	msg := OrderConfirmation("orders@raze.test", order)

	assert.NotContains(t, msg.HTML, "Discount:")
	assert.Contains(t, msg.HTML, "Total: $60.00")
}
