package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// USD is the only currency the storefront trades in today.
var USD = currency.USD

// Money pairs an exact decimal amount with its currency unit. Amounts keep
// full precision internally; rounding happens only at display boundaries.
type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

func NewMoney(amount decimal.Decimal) Money {
	return Money{Amount: amount, Currency: USD}
}

// Display renders the amount rounded to cents, e.g. "$116.00". The narrow
// symbol keeps USD as "$" rather than the locale-qualified "US$".
func (m Money) Display() string {
	return fmt.Sprintf("%s%s", currency.NarrowSymbol(m.Currency), m.Amount.StringFixed(2))
}
