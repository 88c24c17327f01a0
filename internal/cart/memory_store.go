package cart

import (
	"context"
	"sync"

	"github.com/steadybroo69-afk/gym/internal/domain"
)

// MemoryStore is a Store for tests and single-process development runs.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string]domain.Cart
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string]domain.Cart)}
}

func (m *MemoryStore) Get(_ context.Context, sessionID string) (domain.Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.carts[sessionID]
	if !ok {
		return domain.Cart{}, ErrCartNotFound
	}
	return c, nil
}

func (m *MemoryStore) Save(_ context.Context, cart domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[cart.SessionID] = cart
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, sessionID)
	return nil
}
