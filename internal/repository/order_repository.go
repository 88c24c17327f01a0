package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/steadybroo69-afk/gym/internal/domain"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrPendingNotFound = errors.New("pending order not found")
)

// OrderRepository persists confirmed orders and the pending snapshots created
// when a payment session is opened.
type OrderRepository struct {
	db DBPool
}

func NewOrderRepository(db DBPool) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, order_number, session_id, items, shipping, subtotal, discount,
	discount_description, promo_code, shipping_cost, total, status,
	tracking_number, carrier, notes, created_at, updated_at, shipped_at, delivered_at`

func (r *OrderRepository) Create(ctx context.Context, order domain.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("marshal order items: %w", err)
	}
	shipping, err := json.Marshal(order.Shipping)
	if err != nil {
		return fmt.Errorf("marshal shipping address: %w", err)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO orders (id, order_number, session_id, items, shipping, subtotal, discount,
		   discount_description, promo_code, shipping_cost, total, status,
		   tracking_number, carrier, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		order.ID, order.OrderNumber, order.SessionID, items, shipping,
		order.Subtotal.String(), order.Discount.String(), order.DiscountDescription,
		order.PromoCode, order.ShippingCost.String(), order.Total.String(),
		string(order.Status), order.TrackingNumber, order.Carrier, order.Notes,
		order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (domain.Order, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	return r.scanOrderRow(row)
}

func (r *OrderRepository) GetByNumber(ctx context.Context, orderNumber string) (domain.Order, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE order_number = $1`, orderNumber)
	return r.scanOrderRow(row)
}

func (r *OrderRepository) GetBySessionID(ctx context.Context, sessionID string) (domain.Order, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE session_id = $1`, sessionID)
	return r.scanOrderRow(row)
}

// List returns orders newest first, optionally filtered by status.
func (r *OrderRepository) List(ctx context.Context, status domain.OrderStatus, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 100
	}

	var (
		rows pgx.Rows
		err  error
	)
	if status == "" {
		rows, err = r.db.Query(ctx,
			`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC LIMIT $1`, limit)
	} else {
		rows, err = r.db.Query(ctx,
			`SELECT `+orderColumns+` FROM orders WHERE status = $1 ORDER BY created_at DESC LIMIT $2`,
			string(status), limit)
	}
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// UpdateStatus advances an order and stamps the shipped/delivered transition
// times.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, tracking, carrier string) error {
	now := time.Now().UTC()

	var shippedAt, deliveredAt *time.Time
	switch status {
	case domain.OrderStatusShipped:
		shippedAt = &now
	case domain.OrderStatusDelivered:
		deliveredAt = &now
	}

	tag, err := r.db.Exec(ctx,
		`UPDATE orders SET status = $2,
		   tracking_number = COALESCE(NULLIF($3, ''), tracking_number),
		   carrier = COALESCE(NULLIF($4, ''), carrier),
		   shipped_at = COALESCE($5, shipped_at),
		   delivered_at = COALESCE($6, delivered_at),
		   updated_at = $7
		 WHERE id = $1`,
		id, string(status), tracking, carrier, shippedAt, deliveredAt, now)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// CountAndRevenue reports the totals behind the admin dashboard. Cancelled
// orders are excluded from revenue.
func (r *OrderRepository) CountAndRevenue(ctx context.Context, since time.Time) (int, decimal.Decimal, error) {
	var (
		count   int
		revenue string
	)
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(total) FILTER (WHERE status <> 'cancelled'), 0)
		 FROM orders WHERE created_at >= $1`, since).Scan(&count, &revenue)
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("order stats: %w", err)
	}
	rev, err := decimal.NewFromString(revenue)
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("parse revenue: %w", err)
	}
	return count, rev, nil
}

// SavePending stores the order snapshot keyed by payment session, replacing
// any earlier attempt from the same session.
func (r *OrderRepository) SavePending(ctx context.Context, sessionID string, order domain.Order) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("marshal pending order: %w", err)
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO pending_orders (session_id, payload)
		 VALUES ($1, $2)
		 ON CONFLICT (session_id) DO UPDATE SET payload = EXCLUDED.payload, created_at = now()`,
		sessionID, payload)
	if err != nil {
		return fmt.Errorf("save pending order: %w", err)
	}
	return nil
}

func (r *OrderRepository) GetPending(ctx context.Context, sessionID string) (domain.Order, error) {
	var payload []byte
	err := r.db.QueryRow(ctx,
		`SELECT payload FROM pending_orders WHERE session_id = $1`, sessionID).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Order{}, ErrPendingNotFound
		}
		return domain.Order{}, fmt.Errorf("get pending order: %w", err)
	}

	var order domain.Order
	if err := json.Unmarshal(payload, &order); err != nil {
		return domain.Order{}, fmt.Errorf("unmarshal pending order: %w", err)
	}
	return order, nil
}

func (r *OrderRepository) DeletePending(ctx context.Context, sessionID string) error {
	if _, err := r.db.Exec(ctx,
		`DELETE FROM pending_orders WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("delete pending order: %w", err)
	}
	return nil
}

func (r *OrderRepository) scanOrderRow(row pgx.Row) (domain.Order, error) {
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Order{}, ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var (
		order        domain.Order
		items        []byte
		shipping     []byte
		subtotal     string
		discount     string
		shippingCost string
		total        string
		status       string
	)
	err := row.Scan(&order.ID, &order.OrderNumber, &order.SessionID, &items, &shipping,
		&subtotal, &discount, &order.DiscountDescription, &order.PromoCode,
		&shippingCost, &total, &status, &order.TrackingNumber, &order.Carrier,
		&order.Notes, &order.CreatedAt, &order.UpdatedAt, &order.ShippedAt, &order.DeliveredAt)
	if err != nil {
		return domain.Order{}, err
	}

	if err := json.Unmarshal(items, &order.Items); err != nil {
		return domain.Order{}, fmt.Errorf("unmarshal items: %w", err)
	}
	if err := json.Unmarshal(shipping, &order.Shipping); err != nil {
		return domain.Order{}, fmt.Errorf("unmarshal shipping: %w", err)
	}
	order.Status = domain.OrderStatus(status)

	if order.Subtotal, err = decimal.NewFromString(subtotal); err != nil {
		return domain.Order{}, fmt.Errorf("parse subtotal: %w", err)
	}
	if order.Discount, err = decimal.NewFromString(discount); err != nil {
		return domain.Order{}, fmt.Errorf("parse discount: %w", err)
	}
	if order.ShippingCost, err = decimal.NewFromString(shippingCost); err != nil {
		return domain.Order{}, fmt.Errorf("parse shipping cost: %w", err)
	}
	if order.Total, err = decimal.NewFromString(total); err != nil {
		return domain.Order{}, fmt.Errorf("parse total: %w", err)
	}
	return order, nil
}
