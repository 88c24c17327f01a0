package domain

import "github.com/shopspring/decimal"

// LineItem is one row in a cart, unique per (ProductID, Color, Size).
// Price is snapshotted from the product at add time: later catalog price
// changes never retroactively affect a cart.
type LineItem struct {
	ProductID   int             `json:"product_id"`
	ProductName string          `json:"product_name"`
	Category    Category        `json:"category"`
	Color       string          `json:"color"`
	Size        string          `json:"size"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Image       string          `json:"image,omitempty"`
}

// SameVariant reports whether the line matches the cart identity key.
func (li LineItem) SameVariant(productID int, color, size string) bool {
	return li.ProductID == productID && li.Color == color && li.Size == size
}

// Cart is an ordered sequence of line items owned by one browsing session.
type Cart struct {
	SessionID string     `json:"session_id"`
	Items     []LineItem `json:"items"`
}

// Count is the total unit count across all lines (badge display).
func (c Cart) Count() int {
	n := 0
	for _, li := range c.Items {
		n += li.Quantity
	}
	return n
}
