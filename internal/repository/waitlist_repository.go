package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/steadybroo69-afk/gym/internal/domain"
)

var ErrWaitlistEntryNotFound = errors.New("waitlist entry not found")

// WaitlistRepository persists drop waitlist entries.
type WaitlistRepository struct {
	db DBPool
}

func NewWaitlistRepository(db DBPool) *WaitlistRepository {
	return &WaitlistRepository{db: db}
}

const waitlistColumns = `id, email, product_id, product_name, variant, size, position,
	access_code, notified, purchased, created_at`

func (r *WaitlistRepository) Create(ctx context.Context, e domain.WaitlistEntry) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO waitlist (id, email, product_id, product_name, variant, size, position,
		   access_code, notified, purchased, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		e.ID, strings.ToLower(e.Email), e.ProductID, e.ProductName, e.Variant, e.Size,
		e.Position, e.AccessCode, e.Notified, e.Purchased, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert waitlist entry: %w", err)
	}
	return nil
}

// Find returns the entry for an email/product/variant combination.
func (r *WaitlistRepository) Find(ctx context.Context, email string, productID int, variant string) (domain.WaitlistEntry, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+waitlistColumns+` FROM waitlist
		 WHERE email = $1 AND product_id = $2 AND variant = $3`,
		strings.ToLower(email), productID, variant)
	return scanWaitlistRow(row)
}

func (r *WaitlistRepository) FindByAccessCode(ctx context.Context, code string) (domain.WaitlistEntry, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+waitlistColumns+` FROM waitlist WHERE access_code = $1`,
		strings.ToUpper(code))
	return scanWaitlistRow(row)
}

func (r *WaitlistRepository) List(ctx context.Context) ([]domain.WaitlistEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+waitlistColumns+` FROM waitlist ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list waitlist: %w", err)
	}
	return collectWaitlist(rows)
}

func (r *WaitlistRepository) Emails(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT email FROM waitlist`)
	if err != nil {
		return nil, fmt.Errorf("list waitlist emails: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("scan waitlist email: %w", err)
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}

func (r *WaitlistRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM waitlist`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count waitlist: %w", err)
	}
	return count, nil
}

// MarkPurchased flags an access code as redeemed.
func (r *WaitlistRepository) MarkPurchased(ctx context.Context, accessCode string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE waitlist SET purchased = TRUE WHERE access_code = $1`,
		strings.ToUpper(accessCode))
	if err != nil {
		return fmt.Errorf("mark waitlist purchased: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrWaitlistEntryNotFound
	}
	return nil
}

func scanWaitlistRow(row pgx.Row) (domain.WaitlistEntry, error) {
	var e domain.WaitlistEntry
	err := row.Scan(&e.ID, &e.Email, &e.ProductID, &e.ProductName, &e.Variant, &e.Size,
		&e.Position, &e.AccessCode, &e.Notified, &e.Purchased, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.WaitlistEntry{}, ErrWaitlistEntryNotFound
		}
		return domain.WaitlistEntry{}, fmt.Errorf("scan waitlist entry: %w", err)
	}
	return e, nil
}

func collectWaitlist(rows pgx.Rows) ([]domain.WaitlistEntry, error) {
	defer rows.Close()

	var entries []domain.WaitlistEntry
	for rows.Next() {
		var e domain.WaitlistEntry
		err := rows.Scan(&e.ID, &e.Email, &e.ProductID, &e.ProductName, &e.Variant, &e.Size,
			&e.Position, &e.AccessCode, &e.Notified, &e.Purchased, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan waitlist entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
