// Package engagement owns the storefront's visitor-engagement state: the
// scarcity spots counter and the giveaway popup show/dismiss policy.
package engagement

import (
	"context"
	"errors"
	"time"
)

var ErrStateNotFound = errors.New("engagement state not found")

// SpotsState is the shared scarcity counter.
type SpotsState struct {
	Count     int       `json:"count"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PopupState tracks one visitor's popup history.
type PopupState struct {
	ShownAt     *time.Time `json:"shown_at,omitempty"`
	DismissedAt *time.Time `json:"dismissed_at,omitempty"`
}

// Store persists engagement state. Implementations return ErrStateNotFound
// for keys never written.
type Store interface {
	GetSpots(ctx context.Context) (SpotsState, error)
	SaveSpots(ctx context.Context, state SpotsState) error
	GetPopup(ctx context.Context, visitorID string) (PopupState, error)
	SavePopup(ctx context.Context, visitorID string, state PopupState) error
}
