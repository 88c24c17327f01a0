// Package promo validates and manages discount codes. Validation runs against
// the post-automatic-discount subtotal so stacked discounts never overlap.
package promo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/steadybroo69-afk/gym/internal/domain"
	"github.com/steadybroo69-afk/gym/internal/repository"
	"github.com/steadybroo69-afk/gym/pkg/logx"
)

var ErrCodeExists = errors.New("promo code already exists")

// ValidationError carries the customer-facing rejection reason.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Repo is the storage surface the service needs.
type Repo interface {
	Get(ctx context.Context, code string) (domain.PromoCode, error)
	List(ctx context.Context) ([]domain.PromoCode, error)
	Upsert(ctx context.Context, promo domain.PromoCode) error
	IncrementUses(ctx context.Context, code string) error
	SetActive(ctx context.Context, code string, active bool) error
	Delete(ctx context.Context, code string) error
}

type Service struct {
	repo Repo
	now  func() time.Time
}

func NewService(repo Repo) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Validate checks a code against the given subtotal and returns the discount
// to apply. subtotal must already have the automatic cart discount taken off.
func (s *Service) Validate(ctx context.Context, code string, subtotal decimal.Decimal) (domain.PromoApplication, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	promo, err := s.repo.Get(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrPromoNotFound) {
			return domain.PromoApplication{}, &ValidationError{Reason: "Invalid promo code"}
		}
		return domain.PromoApplication{}, fmt.Errorf("look up promo code: %w", err)
	}

	if !promo.Active {
		return domain.PromoApplication{}, &ValidationError{Reason: "This promo code is no longer active"}
	}
	if promo.ExpiresAt != nil && promo.ExpiresAt.Before(s.now()) {
		return domain.PromoApplication{}, &ValidationError{Reason: "This promo code has expired"}
	}
	if promo.MaxUses != nil && promo.Uses >= *promo.MaxUses {
		return domain.PromoApplication{}, &ValidationError{Reason: "This promo code has reached its usage limit"}
	}
	if subtotal.LessThan(promo.MinOrder) {
		return domain.PromoApplication{}, &ValidationError{
			Reason: fmt.Sprintf("Minimum order of %s required for this code", domain.NewMoney(promo.MinOrder).Display()),
		}
	}

	var amount decimal.Decimal
	var display string
	switch promo.DiscountType {
	case domain.DiscountFixed:
		amount = decimal.Min(promo.DiscountValue, subtotal)
		display = fmt.Sprintf("%s off", domain.NewMoney(promo.DiscountValue).Display())
	default:
		amount = subtotal.Mul(promo.DiscountValue).Div(decimal.NewFromInt(100)).Round(2)
		display = fmt.Sprintf("%s%% off", promo.DiscountValue.String())
	}

	return domain.PromoApplication{
		Code:            code,
		DiscountAmount:  amount,
		DiscountDisplay: display,
	}, nil
}

// MarkUsed increments the redemption counter. Callers treat failures as
// best-effort; checkout never blocks on this.
func (s *Service) MarkUsed(ctx context.Context, code string) error {
	if err := s.repo.IncrementUses(ctx, strings.ToUpper(strings.TrimSpace(code))); err != nil {
		return fmt.Errorf("mark promo used: %w", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context) ([]domain.PromoCode, error) {
	return s.repo.List(ctx)
}

// Create adds a new code; it fails if the code already exists.
func (s *Service) Create(ctx context.Context, promo domain.PromoCode) (domain.PromoCode, error) {
	promo.Code = strings.ToUpper(strings.TrimSpace(promo.Code))
	if promo.Code == "" {
		return domain.PromoCode{}, &ValidationError{Reason: "Invalid promo code"}
	}
	if promo.DiscountType == "" {
		promo.DiscountType = domain.DiscountPercentage
	}
	promo.Uses = 0
	promo.Active = true
	promo.CreatedAt = s.now().UTC()

	if _, err := s.repo.Get(ctx, promo.Code); err == nil {
		return domain.PromoCode{}, ErrCodeExists
	} else if !errors.Is(err, repository.ErrPromoNotFound) {
		return domain.PromoCode{}, fmt.Errorf("check existing code: %w", err)
	}

	if err := s.repo.Upsert(ctx, promo); err != nil {
		return domain.PromoCode{}, fmt.Errorf("create promo code: %w", err)
	}
	return promo, nil
}

func (s *Service) SetActive(ctx context.Context, code string, active bool) error {
	return s.repo.SetActive(ctx, strings.ToUpper(code), active)
}

func (s *Service) Delete(ctx context.Context, code string) error {
	return s.repo.Delete(ctx, strings.ToUpper(code))
}

// SeedDefaults installs the launch codes if they are not already present.
func (s *Service) SeedDefaults(ctx context.Context) {
	hundred, fifty := 100, 50
	defaults := []domain.PromoCode{
		{Code: "WELCOME10", DiscountType: domain.DiscountPercentage, DiscountValue: decimal.NewFromInt(10)},
		{Code: "LAUNCH15", DiscountType: domain.DiscountPercentage, DiscountValue: decimal.NewFromInt(15), MinOrder: decimal.NewFromInt(50), MaxUses: &hundred},
		{Code: "RAZE20", DiscountType: domain.DiscountPercentage, DiscountValue: decimal.NewFromInt(20), MinOrder: decimal.NewFromInt(75), MaxUses: &fifty},
	}

	for _, promo := range defaults {
		if _, err := s.repo.Get(ctx, promo.Code); err == nil {
			continue
		} else if !errors.Is(err, repository.ErrPromoNotFound) {
			logx.Warn().Err(err).Str("code", promo.Code).Msg("promo seed check failed")
			continue
		}

		promo.Active = true
		promo.CreatedAt = s.now().UTC()
		if err := s.repo.Upsert(ctx, promo); err != nil {
			logx.Warn().Err(err).Str("code", promo.Code).Msg("promo seed failed")
		}
	}
}
