// Package pricing computes cart totals and the automatic bulk discount.
// All arithmetic stays in full decimal precision; rounding belongs to the
// presentation boundary.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/steadybroo69-afk/gym/internal/domain"
)

// Automatic discount tiers, keyed on shirt unit count rather than cart value.
var (
	twoShirtRate   = decimal.NewFromFloat(0.20)
	threeShirtRate = decimal.NewFromFloat(0.35)
)

const (
	twoShirtDesc   = "20% off (2 shirts)"
	threeShirtDesc = "35% off (3+ shirts)"
)

// Totals is the result of ComputeTotals. Total excludes shipping and promo
// discounts; those are layered at checkout.
type Totals struct {
	Subtotal            decimal.Decimal
	Discount            decimal.Decimal
	DiscountDescription string
	Total               decimal.Decimal
}

// ComputeTotals is pure: same items in, same totals out.
func ComputeTotals(items []domain.LineItem) Totals {
	subtotal := decimal.Zero
	shirtUnits := 0
	for _, li := range items {
		subtotal = subtotal.Add(li.Price.Mul(decimal.NewFromInt(int64(li.Quantity))))
		if li.Category == domain.CategoryShirts {
			shirtUnits += li.Quantity
		}
	}

	discount := decimal.Zero
	desc := ""
	switch {
	case shirtUnits >= 3:
		discount = subtotal.Mul(threeShirtRate)
		desc = threeShirtDesc
	case shirtUnits == 2:
		discount = subtotal.Mul(twoShirtRate)
		desc = twoShirtDesc
	}

	return Totals{
		Subtotal:            subtotal,
		Discount:            discount,
		DiscountDescription: desc,
		Total:               subtotal.Sub(discount),
	}
}

// GrandTotal layers the promo discount and shipping cost on top of the
// automatic discount: subtotal - auto - promo + shipping. The promo amount
// itself must have been validated against Totals.Total (the
// post-automatic-discount figure).
func GrandTotal(t Totals, promoDiscount, shippingCost decimal.Decimal) decimal.Decimal {
	return t.Total.Sub(promoDiscount).Add(shippingCost)
}
