package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/steadybroo69-afk/gym/internal/domain"
)

// SubscriberRepository persists marketing email captures.
type SubscriberRepository struct {
	db DBPool
}

func NewSubscriberRepository(db DBPool) *SubscriberRepository {
	return &SubscriberRepository{db: db}
}

func (r *SubscriberRepository) Create(ctx context.Context, sub domain.EmailSubscription) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO email_subscriptions (id, email, source, product_id, product_name, drop_name, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		sub.ID, strings.ToLower(sub.Email), string(sub.Source),
		sub.ProductID, sub.ProductName, sub.Drop, sub.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert subscription: %w", err)
	}
	return nil
}

// Exists reports whether the email is already captured for a source. A
// non-empty productID narrows the check to that product's notify list.
func (r *SubscriberRepository) Exists(ctx context.Context, email string, source domain.SubscriptionSource, productID string) (bool, error) {
	var exists bool
	var err error
	if productID == "" {
		err = r.db.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM email_subscriptions WHERE email = $1 AND source = $2)`,
			strings.ToLower(email), string(source)).Scan(&exists)
	} else {
		err = r.db.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM email_subscriptions WHERE email = $1 AND source = $2 AND product_id = $3)`,
			strings.ToLower(email), string(source), productID).Scan(&exists)
	}
	if err != nil {
		return false, fmt.Errorf("check subscription: %w", err)
	}
	return exists, nil
}

// List returns subscriptions newest first, optionally filtered by source.
func (r *SubscriberRepository) List(ctx context.Context, source domain.SubscriptionSource) ([]domain.EmailSubscription, error) {
	query := `SELECT id, email, source, product_id, product_name, drop_name, created_at
		 FROM email_subscriptions ORDER BY created_at DESC`
	args := []any{}
	if source != "" {
		query = `SELECT id, email, source, product_id, product_name, drop_name, created_at
			 FROM email_subscriptions WHERE source = $1 ORDER BY created_at DESC`
		args = append(args, string(source))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []domain.EmailSubscription
	for rows.Next() {
		var (
			sub    domain.EmailSubscription
			source string
		)
		err := rows.Scan(&sub.ID, &sub.Email, &source, &sub.ProductID,
			&sub.ProductName, &sub.Drop, &sub.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		sub.Source = domain.SubscriptionSource(source)
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (r *SubscriberRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(DISTINCT email) FROM email_subscriptions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count subscribers: %w", err)
	}
	return count, nil
}

// CountSince counts subscriptions captured at or after the cutoff.
func (r *SubscriberRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM email_subscriptions WHERE created_at >= $1`, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("count recent subscriptions: %w", err)
	}
	return count, nil
}

// CountBySource breaks the subscription totals down per capture surface.
func (r *SubscriberRepository) CountBySource(ctx context.Context) (map[domain.SubscriptionSource]int, error) {
	rows, err := r.db.Query(ctx,
		`SELECT source, COUNT(*) FROM email_subscriptions GROUP BY source`)
	if err != nil {
		return nil, fmt.Errorf("count subscriptions by source: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.SubscriptionSource]int)
	for rows.Next() {
		var (
			source string
			count  int
		)
		if err := rows.Scan(&source, &count); err != nil {
			return nil, fmt.Errorf("scan source count: %w", err)
		}
		counts[domain.SubscriptionSource(source)] = count
	}
	return counts, rows.Err()
}

// Emails returns distinct subscriber addresses, optionally for one source.
func (r *SubscriberRepository) Emails(ctx context.Context, source domain.SubscriptionSource) ([]string, error) {
	query := `SELECT DISTINCT email FROM email_subscriptions`
	args := []any{}
	if source != "" {
		query += ` WHERE source = $1`
		args = append(args, string(source))
	}
	return r.collectEmails(ctx, query, args...)
}

// DeleteByEmail removes every subscription for an address and reports how
// many rows went away.
func (r *SubscriberRepository) DeleteByEmail(ctx context.Context, email string) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM email_subscriptions WHERE email = $1`, strings.ToLower(email))
	if err != nil {
		return 0, fmt.Errorf("delete subscriptions: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *SubscriberRepository) collectEmails(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list emails: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("scan email: %w", err)
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}
