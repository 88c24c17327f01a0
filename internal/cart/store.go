package cart

import (
	"context"
	"errors"

	"github.com/steadybroo69-afk/gym/internal/domain"
)

// ErrCartNotFound is returned by stores when no snapshot exists for the
// session. The service treats it as an empty cart, never as a failure.
var ErrCartNotFound = errors.New("cart not found")

// Store persists one cart snapshot per session ID. Every mutation in the
// service saves synchronously so a reload reconstructs identical state.
type Store interface {
	Get(ctx context.Context, sessionID string) (domain.Cart, error)
	Save(ctx context.Context, cart domain.Cart) error
	Delete(ctx context.Context, sessionID string) error
}
