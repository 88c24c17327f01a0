package catalog

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/steadybroo69-afk/gym/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

// Store is the seeded, read-only product catalog for the current drop.
type Store struct {
	products []domain.Product
	byID     map[int]domain.Product
}

func NewStore(products []domain.Product) *Store {
	byID := make(map[int]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &Store{products: products, byID: byID}
}

// Default returns the catalog seeded with the launch drop.
func Default() *Store {
	return NewStore(launchDrop())
}

func (s *Store) All() []domain.Product {
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *Store) ByID(id int) (domain.Product, error) {
	p, ok := s.byID[id]
	if !ok {
		return domain.Product{}, ErrProductNotFound
	}
	return p, nil
}

func (s *Store) ByCategory(cat domain.Category) []domain.Product {
	var out []domain.Product
	for _, p := range s.products {
		if p.Category == cat {
			out = append(out, p)
		}
	}
	return out
}

func (s *Store) Featured() []domain.Product {
	var out []domain.Product
	for _, p := range s.products {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}

func launchDrop() []domain.Product {
	shirtPrice := decimal.NewFromInt(45)
	shortsPrice := decimal.NewFromInt(55)
	sizes := []string{"XS", "S", "M", "L", "XL"}

	shirt := func(id int, variant, color, logo string, stock map[string]int, images []string) domain.Product {
		return domain.Product{
			ID:       id,
			Name:     "Performance T-Shirt",
			Category: domain.CategoryShirts,
			Price:    shirtPrice,
			Variant:  variant,
			Color:    color,
			Logo:     logo,
			Sizes:    sizes,
			Stock:    stock,
			Images:   images,
			Featured: true,
		}
	}
	shorts := func(id int, variant, color, logo string, stock map[string]int, images []string) domain.Product {
		return domain.Product{
			ID:       id,
			Name:     "Performance Shorts",
			Category: domain.CategoryShorts,
			Price:    shortsPrice,
			Variant:  variant,
			Color:    color,
			Logo:     logo,
			Sizes:    sizes,
			Stock:    stock,
			Images:   images,
			Featured: true,
		}
	}

	const cdn = "https://customer-assets.emergentagent.com/job_c568bc3b-5c5d-4cd8-bacb-54177a8430c8/artifacts"

	return []domain.Product{
		shirt(1, "Black / Cyan", "Black", "Cyan",
			map[string]int{"XS": 5, "S": 2, "M": 8, "L": 15, "XL": 12},
			[]string{cdn + "/69vwy1yl_ee.png", cdn + "/uut87a31_dsw1.png"}),
		shirt(2, "Black / Silver", "Black", "Silver",
			map[string]int{"XS": 8, "S": 10, "M": 12, "L": 18, "XL": 15},
			[]string{cdn + "/s3nitfxo_2.png", cdn + "/rp49piw5_21.jpg"}),
		shirt(3, "Grey / Cyan", "Grey", "Cyan",
			map[string]int{"XS": 10, "S": 12, "M": 15, "L": 20, "XL": 18},
			[]string{cdn + "/jf6ahqpn_4.png", cdn + "/h5tbyhj3_8.jpg"}),
		shirt(4, "Grey / White", "Grey", "White",
			map[string]int{"XS": 6, "S": 14, "M": 18, "L": 22, "XL": 16},
			[]string{cdn + "/pr4hpazn_5.png"}),
		shorts(5, "Black / Cyan", "Black", "Cyan",
			map[string]int{"XS": 4, "S": 8, "M": 12, "L": 15, "XL": 10},
			[]string{cdn + "/c4dg91vy_5.png", cdn + "/0zp1wq7a_1.png"}),
		shorts(6, "Black / Silver", "Black", "Silver",
			map[string]int{"XS": 6, "S": 10, "M": 14, "L": 18, "XL": 12},
			[]string{cdn + "/lauo11fr_6.png", cdn + "/0zp1wq7a_1.png"}),
	}
}
