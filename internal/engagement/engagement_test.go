package engagement

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpotsCounterSeedsWithinRange(t *testing.T) {
	store := NewMemoryStore()
	c := NewSpotsCounter(store)
	c.now = func() time.Time { return time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC) }

	for seed := 0; seed < 39; seed++ {
		c.randn = func(n int) int {
			require.Equal(t, 39, n)
			return seed
		}
		store.spots = nil

		got, err := c.Remaining(context.Background())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got, 51)
		assert.LessOrEqual(t, got, 89)
	}
}

func TestSpotsCounterDecrementsOncePerRead(t *testing.T) {
	store := NewMemoryStore()
	c := NewSpotsCounter(store)
	c.randn = func(int) int { return 9 } // seeds at 60

	base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }

	got, err := c.Remaining(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 60, got)

	// Under two hours: unchanged.
	c.now = func() time.Time { return base.Add(119 * time.Minute) }
	got, err = c.Remaining(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 60, got)

	// A whole day later still steps down only once, and resets the clock.
	c.now = func() time.Time { return base.Add(24 * time.Hour) }
	got, err = c.Remaining(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 58, got)

	c.now = func() time.Time { return base.Add(24*time.Hour + time.Minute) }
	got, err = c.Remaining(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 58, got)
}

func TestSpotsCounterFloorsAtOne(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.SaveSpots(context.Background(), SpotsState{
		Count:     2,
		UpdatedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}))

	c := NewSpotsCounter(store)
	c.now = func() time.Time { return time.Date(2026, 2, 1, 3, 0, 0, 0, time.UTC) }

	got, err := c.Remaining(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	c.now = func() time.Time { return time.Date(2026, 2, 1, 6, 0, 0, 0, time.UTC) }
	got, err = c.Remaining(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestSelfManagedPopupOpensWithDelay(t *testing.T) {
	p := NewSelfManaged(NewMemoryStore())

	d, err := p.Evaluate(context.Background(), "visitor-1")
	require.NoError(t, err)

	assert.True(t, d.Eligible)
	assert.True(t, d.Open)
	assert.Equal(t, TriggerDelay, d.Delay)
}

func TestExternallyControlledPopupNeverOpensItself(t *testing.T) {
	p := NewExternallyControlled(NewMemoryStore())

	d, err := p.Evaluate(context.Background(), "visitor-1")
	require.NoError(t, err)

	assert.True(t, d.Eligible)
	assert.False(t, d.Open)
	assert.Zero(t, d.Delay)
}

func TestPopupCooldownAfterDismissal(t *testing.T) {
	store := NewMemoryStore()
	p := NewSelfManaged(store)

	base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return base }

	require.NoError(t, p.MarkDismissed(context.Background(), "visitor-1"))

	// Day 13: still quiet.
	p.now = func() time.Time { return base.Add(13 * 24 * time.Hour) }
	d, err := p.Evaluate(context.Background(), "visitor-1")
	require.NoError(t, err)
	assert.False(t, d.Eligible)

	// Day 15: eligible again.
	p.now = func() time.Time { return base.Add(15 * 24 * time.Hour) }
	d, err = p.Evaluate(context.Background(), "visitor-1")
	require.NoError(t, err)
	assert.True(t, d.Eligible)
	assert.True(t, d.Open)
}

func TestPopupCooldownAfterShow(t *testing.T) {
	store := NewMemoryStore()
	p := NewExternallyControlled(store)

	base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return base }

	require.NoError(t, p.MarkShown(context.Background(), "visitor-1"))

	p.now = func() time.Time { return base.Add(24 * time.Hour) }
	d, err := p.Evaluate(context.Background(), "visitor-1")
	require.NoError(t, err)
	assert.False(t, d.Eligible)

	// A different visitor is unaffected.
	d, err = p.Evaluate(context.Background(), "visitor-2")
	require.NoError(t, err)
	assert.True(t, d.Eligible)
}
