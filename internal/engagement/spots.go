package engagement

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

const (
	spotsSeedMin  = 51
	spotsSeedMax  = 89
	spotsFloor    = 1
	spotsStep     = 2
	spotsInterval = 2 * time.Hour
)

// SpotsCounter serves the waitlist scarcity number. The counter is seeded
// once in [51,89], then drops by 2 whenever a read finds a full interval
// elapsed; one step per read, with the timestamp reset to the read time.
type SpotsCounter struct {
	store Store
	now   func() time.Time
	randn func(n int) int
}

func NewSpotsCounter(store Store) *SpotsCounter {
	return &SpotsCounter{store: store, now: time.Now, randn: rand.Intn}
}

// Remaining returns the current spots number, applying at most one decrement.
func (c *SpotsCounter) Remaining(ctx context.Context) (int, error) {
	now := c.now()

	state, err := c.store.GetSpots(ctx)
	if err != nil {
		if !errors.Is(err, ErrStateNotFound) {
			return 0, fmt.Errorf("load spots state: %w", err)
		}
		state = SpotsState{
			Count:     spotsSeedMin + c.randn(spotsSeedMax-spotsSeedMin+1),
			UpdatedAt: now,
		}
		if err := c.store.SaveSpots(ctx, state); err != nil {
			return 0, fmt.Errorf("seed spots state: %w", err)
		}
		return state.Count, nil
	}

	if now.Sub(state.UpdatedAt) < spotsInterval {
		return state.Count, nil
	}

	state.Count -= spotsStep
	if state.Count < spotsFloor {
		state.Count = spotsFloor
	}
	state.UpdatedAt = now
	if err := c.store.SaveSpots(ctx, state); err != nil {
		return 0, fmt.Errorf("save spots state: %w", err)
	}
	return state.Count, nil
}
