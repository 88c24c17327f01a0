package domain

import "github.com/shopspring/decimal"

// Category of a product. The automatic bulk discount keys off shirts only.
type Category string

const (
	CategoryShirts Category = "shirts"
	CategoryShorts Category = "shorts"
)

// Product is a catalog record. Immutable once seeded; Stock is advisory and
// never atomically reserved.
type Product struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Category Category        `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Variant  string          `json:"variant"`
	Color    string          `json:"color"`
	Logo     string          `json:"logo"`
	Sizes    []string        `json:"sizes"`
	Stock    map[string]int  `json:"stock"`
	Images   []string        `json:"images"`
	Featured bool            `json:"featured"`
}

// InStock reports whether the given size has any advisory stock left.
func (p Product) InStock(size string) bool {
	return p.Stock[size] > 0
}
