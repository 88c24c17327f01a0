package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/steadybroo69-afk/gym/internal/domain"
)

var ErrPromoNotFound = errors.New("promo code not found")

// PromoRepository persists promo codes in Postgres.
type PromoRepository struct {
	db DBPool
}

func NewPromoRepository(db DBPool) *PromoRepository {
	return &PromoRepository{db: db}
}

const promoColumns = `code, discount_type, discount_value, min_order, max_uses, uses, active, expires_at, created_at`

func (r *PromoRepository) Get(ctx context.Context, code string) (domain.PromoCode, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+promoColumns+` FROM promo_codes WHERE code = $1`,
		strings.ToUpper(code))

	promo, err := scanPromo(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PromoCode{}, ErrPromoNotFound
		}
		return domain.PromoCode{}, fmt.Errorf("get promo code: %w", err)
	}
	return promo, nil
}

func (r *PromoRepository) List(ctx context.Context) ([]domain.PromoCode, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+promoColumns+` FROM promo_codes ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list promo codes: %w", err)
	}
	defer rows.Close()

	var promos []domain.PromoCode
	for rows.Next() {
		promo, err := scanPromo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan promo code: %w", err)
		}
		promos = append(promos, promo)
	}
	return promos, rows.Err()
}

// Upsert creates the code or overwrites its settings, keeping the use count.
func (r *PromoRepository) Upsert(ctx context.Context, promo domain.PromoCode) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO promo_codes (code, discount_type, discount_value, min_order, max_uses, active, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (code) DO UPDATE SET
		   discount_type = EXCLUDED.discount_type,
		   discount_value = EXCLUDED.discount_value,
		   min_order = EXCLUDED.min_order,
		   max_uses = EXCLUDED.max_uses,
		   active = EXCLUDED.active,
		   expires_at = EXCLUDED.expires_at`,
		strings.ToUpper(promo.Code), string(promo.DiscountType), promo.DiscountValue.String(),
		promo.MinOrder.String(), promo.MaxUses, promo.Active, promo.ExpiresAt, promo.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert promo code: %w", err)
	}
	return nil
}

// IncrementUses records one redemption of the code.
func (r *PromoRepository) IncrementUses(ctx context.Context, code string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE promo_codes SET uses = uses + 1 WHERE code = $1`,
		strings.ToUpper(code))
	if err != nil {
		return fmt.Errorf("increment promo uses: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPromoNotFound
	}
	return nil
}

func (r *PromoRepository) SetActive(ctx context.Context, code string, active bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE promo_codes SET active = $2 WHERE code = $1`,
		strings.ToUpper(code), active)
	if err != nil {
		return fmt.Errorf("set promo active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPromoNotFound
	}
	return nil
}

func (r *PromoRepository) Delete(ctx context.Context, code string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM promo_codes WHERE code = $1`, strings.ToUpper(code))
	if err != nil {
		return fmt.Errorf("delete promo code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPromoNotFound
	}
	return nil
}

func scanPromo(row pgx.Row) (domain.PromoCode, error) {
	var (
		promo         domain.PromoCode
		discountType  string
		discountValue string
		minOrder      string
		expiresAt     *time.Time
	)
	err := row.Scan(&promo.Code, &discountType, &discountValue, &minOrder,
		&promo.MaxUses, &promo.Uses, &promo.Active, &expiresAt, &promo.CreatedAt)
	if err != nil {
		return domain.PromoCode{}, err
	}

	promo.DiscountType = domain.DiscountType(discountType)
	promo.ExpiresAt = expiresAt
	if promo.DiscountValue, err = decimal.NewFromString(discountValue); err != nil {
		return domain.PromoCode{}, fmt.Errorf("parse discount value: %w", err)
	}
	if promo.MinOrder, err = decimal.NewFromString(minOrder); err != nil {
		return domain.PromoCode{}, fmt.Errorf("parse min order: %w", err)
	}
	return promo, nil
}
