package repository

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steadybroo69-afk/gym/internal/domain"
)

func newPromoMock(t *testing.T) (pgxmock.PgxPoolIface, *PromoRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewPromoRepository(mock)
}

func TestPromoRepositoryGet(t *testing.T) {
	mock, repo := newPromoMock(t)

	maxUses := 100
	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT (.+) FROM promo_codes WHERE code = \$1`).
		WithArgs("LAUNCH15").
		WillReturnRows(pgxmock.NewRows([]string{
			"code", "discount_type", "discount_value", "min_order", "max_uses",
			"uses", "active", "expires_at", "created_at",
		}).AddRow("LAUNCH15", "percentage", "15", "50", &maxUses, 3, true, (*time.Time)(nil), created))

	promo, err := repo.Get(context.Background(), "launch15")
	require.NoError(t, err)

	assert.Equal(t, "LAUNCH15", promo.Code)
	assert.Equal(t, domain.DiscountPercentage, promo.DiscountType)
	assert.Equal(t, "15", promo.DiscountValue.String())
	assert.Equal(t, "50", promo.MinOrder.String())
	require.NotNil(t, promo.MaxUses)
	assert.Equal(t, 100, *promo.MaxUses)
	assert.Equal(t, 3, promo.Uses)
	assert.True(t, promo.Active)
	assert.Nil(t, promo.ExpiresAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPromoRepositoryGetNotFound(t *testing.T) {
	mock, repo := newPromoMock(t)

	mock.ExpectQuery(`SELECT (.+) FROM promo_codes WHERE code = \$1`).
		WithArgs("NOPE").
		WillReturnRows(pgxmock.NewRows([]string{
			"code", "discount_type", "discount_value", "min_order", "max_uses",
			"uses", "active", "expires_at", "created_at",
		}))

	_, err := repo.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrPromoNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPromoRepositoryIncrementUses(t *testing.T) {
	mock, repo := newPromoMock(t)

	mock.ExpectExec(`UPDATE promo_codes SET uses = uses \+ 1`).
		WithArgs("WELCOME10").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.IncrementUses(context.Background(), "welcome10"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPromoRepositoryIncrementUsesUnknownCode(t *testing.T) {
	mock, repo := newPromoMock(t)

	mock.ExpectExec(`UPDATE promo_codes SET uses = uses \+ 1`).
		WithArgs("GHOST").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.IncrementUses(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrPromoNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
