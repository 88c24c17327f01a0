package engagement

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	// TriggerDelay is how long a self-managed popup waits before opening.
	TriggerDelay = 7 * time.Second

	// ReshowCooldown is the quiet period after a show or dismissal.
	ReshowCooldown = 14 * 24 * time.Hour
)

// Decision is the popup verdict for one visitor.
type Decision struct {
	Eligible bool          `json:"eligible"`
	Open     bool          `json:"open"`
	Delay    time.Duration `json:"-"`
}

// PopupPolicy decides when the giveaway popup may appear. The two
// constructors fix who owns the open state: a self-managed policy opens the
// popup itself after TriggerDelay, an externally-controlled one only reports
// eligibility and leaves opening to the caller.
type PopupPolicy struct {
	store     Store
	now       func() time.Time
	autoOpens bool
}

func NewSelfManaged(store Store) *PopupPolicy {
	return &PopupPolicy{store: store, now: time.Now, autoOpens: true}
}

func NewExternallyControlled(store Store) *PopupPolicy {
	return &PopupPolicy{store: store, now: time.Now, autoOpens: false}
}

// Evaluate checks the visitor's cooldown window and returns the verdict.
func (p *PopupPolicy) Evaluate(ctx context.Context, visitorID string) (Decision, error) {
	eligible, err := p.eligible(ctx, visitorID)
	if err != nil {
		return Decision{}, err
	}

	d := Decision{Eligible: eligible}
	if p.autoOpens && eligible {
		d.Open = true
		d.Delay = TriggerDelay
	}
	return d, nil
}

// MarkShown starts the cooldown window for the visitor.
func (p *PopupPolicy) MarkShown(ctx context.Context, visitorID string) error {
	state, err := p.load(ctx, visitorID)
	if err != nil {
		return err
	}
	now := p.now()
	state.ShownAt = &now
	if err := p.store.SavePopup(ctx, visitorID, state); err != nil {
		return fmt.Errorf("save popup state: %w", err)
	}
	return nil
}

// MarkDismissed records an explicit close; it restarts the cooldown.
func (p *PopupPolicy) MarkDismissed(ctx context.Context, visitorID string) error {
	state, err := p.load(ctx, visitorID)
	if err != nil {
		return err
	}
	now := p.now()
	state.DismissedAt = &now
	if err := p.store.SavePopup(ctx, visitorID, state); err != nil {
		return fmt.Errorf("save popup state: %w", err)
	}
	return nil
}

func (p *PopupPolicy) eligible(ctx context.Context, visitorID string) (bool, error) {
	state, err := p.load(ctx, visitorID)
	if err != nil {
		return false, err
	}

	cutoff := p.now().Add(-ReshowCooldown)
	if state.ShownAt != nil && state.ShownAt.After(cutoff) {
		return false, nil
	}
	if state.DismissedAt != nil && state.DismissedAt.After(cutoff) {
		return false, nil
	}
	return true, nil
}

func (p *PopupPolicy) load(ctx context.Context, visitorID string) (PopupState, error) {
	state, err := p.store.GetPopup(ctx, visitorID)
	if err != nil {
		if errors.Is(err, ErrStateNotFound) {
			return PopupState{}, nil
		}
		return PopupState{}, fmt.Errorf("load popup state: %w", err)
	}
	return state, nil
}
