package engagement

import (
	"context"
	"sync"
)

// MemoryStore keeps engagement state in process memory. Used in tests.
type MemoryStore struct {
	mu       sync.Mutex
	spots    *SpotsState
	visitors map[string]PopupState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{visitors: make(map[string]PopupState)}
}

func (m *MemoryStore) GetSpots(context.Context) (SpotsState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.spots == nil {
		return SpotsState{}, ErrStateNotFound
	}
	return *m.spots, nil
}

func (m *MemoryStore) SaveSpots(_ context.Context, state SpotsState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spots = &state
	return nil
}

func (m *MemoryStore) GetPopup(_ context.Context, visitorID string) (PopupState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.visitors[visitorID]
	if !ok {
		return PopupState{}, ErrStateNotFound
	}
	return state, nil
}

func (m *MemoryStore) SavePopup(_ context.Context, visitorID string, state PopupState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.visitors[visitorID] = state
	return nil
}
