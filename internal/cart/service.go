package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/steadybroo69-afk/gym/internal/domain"
	"github.com/steadybroo69-afk/gym/internal/pricing"
	"github.com/steadybroo69-afk/gym/pkg/logx"
)

// Service owns all cart mutations. Line items are unique per
// (ProductID, Color, Size); adding an existing variant merges quantities.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Get loads the session's cart. A missing or corrupted snapshot degrades to
// an empty cart rather than surfacing an error.
func (s *Service) Get(ctx context.Context, sessionID string) domain.Cart {
	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, ErrCartNotFound) {
			logx.Warn().Err(err).Str("session_id", sessionID).Msg("cart load failed, starting empty")
		}
		return domain.Cart{SessionID: sessionID}
	}
	return cart
}

// AddItem merges into an existing line or appends a new one with the price
// snapshotted from the product at add time.
func (s *Service) AddItem(ctx context.Context, sessionID string, product domain.Product, color, size string, qty int) (domain.Cart, error) {
	if qty < 1 {
		return domain.Cart{}, fmt.Errorf("quantity must be positive, got %d", qty)
	}

	cart := s.Get(ctx, sessionID)
	merged := false
	for i := range cart.Items {
		if cart.Items[i].SameVariant(product.ID, color, size) {
			cart.Items[i].Quantity += qty
			merged = true
			break
		}
	}
	if !merged {
		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0]
		}
		cart.Items = append(cart.Items, domain.LineItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Category:    product.Category,
			Color:       color,
			Size:        size,
			Price:       product.Price,
			Quantity:    qty,
			Image:       image,
		})
	}

	if err := s.store.Save(ctx, cart); err != nil {
		return domain.Cart{}, fmt.Errorf("save cart: %w", err)
	}
	return cart, nil
}

// UpdateQuantity sets the line's quantity; zero or below removes the line.
// No upper bound is enforced here, caps belong to the presentation layer.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID string, productID int, color, size string, qty int) (domain.Cart, error) {
	cart := s.Get(ctx, sessionID)

	for i := range cart.Items {
		if !cart.Items[i].SameVariant(productID, color, size) {
			continue
		}
		if qty <= 0 {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
		} else {
			cart.Items[i].Quantity = qty
		}
		break
	}

	if err := s.store.Save(ctx, cart); err != nil {
		return domain.Cart{}, fmt.Errorf("save cart: %w", err)
	}
	return cart, nil
}

// RemoveItem deletes the matching line; absent lines are a no-op.
func (s *Service) RemoveItem(ctx context.Context, sessionID string, productID int, color, size string) (domain.Cart, error) {
	return s.UpdateQuantity(ctx, sessionID, productID, color, size, 0)
}

func (s *Service) Clear(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// Totals delegates to the pricing engine over the current line items.
func (s *Service) Totals(ctx context.Context, sessionID string) pricing.Totals {
	return pricing.ComputeTotals(s.Get(ctx, sessionID).Items)
}

// Count is the badge count: the sum of all line quantities.
func (s *Service) Count(ctx context.Context, sessionID string) int {
	return s.Get(ctx, sessionID).Count()
}
