// Package waitlist manages the limited-capacity drop waitlist and its
// access codes.
package waitlist

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/steadybroo69-afk/gym/internal/domain"
	"github.com/steadybroo69-afk/gym/internal/repository"
	"github.com/steadybroo69-afk/gym/pkg/logx"
)

// Capacity is the hard cap on waitlist entries.
const Capacity = 100

// Repo is the storage surface the service needs.
type Repo interface {
	Create(ctx context.Context, entry domain.WaitlistEntry) error
	Find(ctx context.Context, email string, productID int, variant string) (domain.WaitlistEntry, error)
	FindByAccessCode(ctx context.Context, code string) (domain.WaitlistEntry, error)
	List(ctx context.Context) ([]domain.WaitlistEntry, error)
	Count(ctx context.Context) (int, error)
	MarkPurchased(ctx context.Context, accessCode string) error
}

// Mailer sends the waitlist confirmation, best-effort.
type Mailer interface {
	SendWaitlistConfirmation(ctx context.Context, entry domain.WaitlistEntry) error
}

// JoinResult is returned for both new and duplicate joins.
type JoinResult struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Position   int    `json:"position,omitempty"`
	AccessCode string `json:"access_code,omitempty"`
}

// Status is the public spots summary.
type Status struct {
	TotalSpots     int  `json:"total_spots"`
	SpotsTaken     int  `json:"spots_taken"`
	SpotsRemaining int  `json:"spots_remaining"`
	IsFull         bool `json:"is_full"`
}

// Verification is the access-code check result.
type Verification struct {
	Valid     bool   `json:"valid"`
	Message   string `json:"message,omitempty"`
	Email     string `json:"email,omitempty"`
	ProductID int    `json:"product_id,omitempty"`
	Variant   string `json:"variant,omitempty"`
	Size      string `json:"size,omitempty"`
}

type Service struct {
	repo Repo
	mail Mailer
	now  func() time.Time
}

func NewService(repo Repo, mail Mailer) *Service {
	return &Service{repo: repo, mail: mail, now: time.Now}
}

// Join adds the entry unless the (email, product, variant) combination is
// already present, in which case the existing spot is returned.
func (s *Service) Join(ctx context.Context, email string, productID int, productName, variant, size string) (JoinResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return JoinResult{}, fmt.Errorf("invalid email address")
	}

	existing, err := s.repo.Find(ctx, email, productID, variant)
	if err == nil {
		return JoinResult{
			Success:    true,
			Message:    "You're already on the waitlist for this item!",
			Position:   existing.Position,
			AccessCode: existing.AccessCode,
		}, nil
	}
	if !errors.Is(err, repository.ErrWaitlistEntryNotFound) {
		return JoinResult{}, fmt.Errorf("check existing entry: %w", err)
	}

	count, err := s.repo.Count(ctx)
	if err != nil {
		return JoinResult{}, fmt.Errorf("count waitlist: %w", err)
	}
	if count >= Capacity {
		return JoinResult{
			Success: false,
			Message: "Sorry, the waitlist is full! Follow us on Instagram for future drops.",
		}, nil
	}

	entry := domain.WaitlistEntry{
		ID:          uuid.NewString(),
		Email:       email,
		ProductID:   productID,
		ProductName: productName,
		Variant:     variant,
		Size:        size,
		Position:    count + 1,
		AccessCode:  newAccessCode(),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return JoinResult{}, fmt.Errorf("create waitlist entry: %w", err)
	}

	if s.mail != nil {
		if err := s.mail.SendWaitlistConfirmation(ctx, entry); err != nil {
			logx.Warn().Err(err).Str("email", email).Msg("waitlist confirmation email failed")
		}
	}

	return JoinResult{
		Success:    true,
		Message:    fmt.Sprintf("You're #%d on the waitlist! Check your email for your access code.", entry.Position),
		Position:   entry.Position,
		AccessCode: entry.AccessCode,
	}, nil
}

func (s *Service) Status(ctx context.Context) (Status, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("count waitlist: %w", err)
	}

	remaining := Capacity - count
	if remaining < 0 {
		remaining = 0
	}
	return Status{
		TotalSpots:     Capacity,
		SpotsTaken:     count,
		SpotsRemaining: remaining,
		IsFull:         remaining == 0,
	}, nil
}

// VerifyCode checks whether an access code can still be used to purchase.
func (s *Service) VerifyCode(ctx context.Context, code string) (Verification, error) {
	entry, err := s.repo.FindByAccessCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if errors.Is(err, repository.ErrWaitlistEntryNotFound) {
			return Verification{Valid: false, Message: "Invalid access code"}, nil
		}
		return Verification{}, fmt.Errorf("look up access code: %w", err)
	}

	if entry.Purchased {
		return Verification{Valid: false, Message: "This code has already been used"}, nil
	}
	return Verification{
		Valid:     true,
		Email:     entry.Email,
		ProductID: entry.ProductID,
		Variant:   entry.Variant,
		Size:      entry.Size,
	}, nil
}

// MarkPurchased burns an access code after a successful drop purchase.
func (s *Service) MarkPurchased(ctx context.Context, code string) error {
	return s.repo.MarkPurchased(ctx, code)
}

// Entries lists the whole waitlist in position order, for the admin surface.
func (s *Service) Entries(ctx context.Context) ([]domain.WaitlistEntry, error) {
	return s.repo.List(ctx)
}

func newAccessCode() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "RAZE-" + strings.ToUpper(uuid.NewString()[:8])
	}
	return "RAZE-" + strings.ToUpper(hex.EncodeToString(buf))
}
