// Package checkout orchestrates the payment flow: totals, promo redemption,
// gateway session creation and the promotion of pending orders once paid.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/steadybroo69-afk/gym/internal/domain"
	"github.com/steadybroo69-afk/gym/internal/pricing"
	"github.com/steadybroo69-afk/gym/internal/repository"
	"github.com/steadybroo69-afk/gym/pkg/logx"
)

var ErrEmptyCart = errors.New("cart is empty")

// FlatShippingFallback applies when the customer never picked a rate.
var FlatShippingFallback = decimal.NewFromInt(15)

// Carts is the slice of the cart service the orchestrator needs.
type Carts interface {
	Get(ctx context.Context, sessionID string) domain.Cart
	Clear(ctx context.Context, sessionID string) error
}

// PromoMarker records promo redemptions.
type PromoMarker interface {
	MarkUsed(ctx context.Context, code string) error
}

// Orders is the persistence surface for pending and confirmed orders.
type Orders interface {
	Create(ctx context.Context, order domain.Order) error
	GetBySessionID(ctx context.Context, sessionID string) (domain.Order, error)
	SavePending(ctx context.Context, sessionID string, order domain.Order) error
	GetPending(ctx context.Context, sessionID string) (domain.Order, error)
	DeletePending(ctx context.Context, sessionID string) error
}

// PaymentGateway opens hosted sessions and reports their status.
type PaymentGateway interface {
	CreateSession(ctx context.Context, req SessionRequest) (Session, error)
	GetStatus(ctx context.Context, sessionID string) (SessionStatus, error)
}

// Mailer sends the order confirmation, best-effort.
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, order domain.Order) error
}

// Waitlist burns drop access codes once the purchase they unlocked is paid.
type Waitlist interface {
	MarkPurchased(ctx context.Context, accessCode string) error
}

// Request is one checkout attempt. Items may be supplied inline; when empty
// the session's cart snapshot is used instead.
type Request struct {
	SessionID  string
	Items      []domain.LineItem
	Shipping   domain.ShippingAddress
	Rate       *domain.ShippingRate
	Promo      *domain.PromoApplication
	AccessCode string
	OriginURL  string
}

// Result carries the gateway handle back to the storefront.
type Result struct {
	SessionID   string
	CheckoutURL string
}

// StatusResult reports a session's state, with the order attached once paid.
type StatusResult struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	OrderID       string `json:"order_id,omitempty"`
	OrderNumber   string `json:"order_number,omitempty"`
}

type Service struct {
	carts     Carts
	promos    PromoMarker
	orders    Orders
	gateway   PaymentGateway
	mail      Mailer
	waitlists Waitlist
	now       func() time.Time
}

func NewService(carts Carts, promos PromoMarker, orders Orders, gateway PaymentGateway, mail Mailer, waitlists Waitlist) *Service {
	return &Service{
		carts:     carts,
		promos:    promos,
		orders:    orders,
		gateway:   gateway,
		mail:      mail,
		waitlists: waitlists,
		now:       time.Now,
	}
}

// CreateSession runs the checkout pipeline. A gateway failure is returned to
// the caller with the cart left untouched; the cart is only cleared after the
// session exists and the pending order is stored.
func (s *Service) CreateSession(ctx context.Context, req Request) (Result, error) {
	items := req.Items
	if len(items) == 0 {
		items = s.carts.Get(ctx, req.SessionID).Items
	}
	if len(items) == 0 {
		return Result{}, ErrEmptyCart
	}

	totals := pricing.ComputeTotals(items)

	promoDiscount := decimal.Zero
	promoCode := ""
	discountDesc := totals.DiscountDescription
	if req.Promo != nil && req.Promo.Code != "" {
		promoDiscount = req.Promo.DiscountAmount
		promoCode = req.Promo.Code

		promoDesc := fmt.Sprintf("%s (%s)", req.Promo.DiscountDisplay, req.Promo.Code)
		if discountDesc == "" {
			discountDesc = promoDesc
		} else {
			discountDesc = discountDesc + " + " + promoDesc
		}

		if err := s.promos.MarkUsed(ctx, promoCode); err != nil {
			logx.Warn().Err(err).Str("code", promoCode).Msg("promo mark-used failed, continuing checkout")
		}
	}

	shippingCost := FlatShippingFallback
	if req.Rate != nil {
		shippingCost = req.Rate.Amount
	}

	total := pricing.GrandTotal(totals, promoDiscount, shippingCost)

	origin := strings.TrimRight(req.OriginURL, "/")
	session, err := s.gateway.CreateSession(ctx, SessionRequest{
		Amount:     total,
		Currency:   "usd",
		SuccessURL: origin + "/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  origin + "/cart",
		Metadata: map[string]string{
			"customer_email": req.Shipping.Email,
			"customer_name":  req.Shipping.FirstName + " " + req.Shipping.LastName,
			"items_count":    strconv.Itoa(len(items)),
			"discount":       totals.Discount.Add(promoDiscount).String(),
			"source":         "raze_checkout",
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("payment session: %w", err)
	}

	pending := domain.Order{
		ID:                  uuid.NewString(),
		Items:               items,
		Shipping:            req.Shipping,
		Subtotal:            totals.Subtotal,
		Discount:            totals.Discount.Add(promoDiscount),
		DiscountDescription: discountDesc,
		PromoCode:           promoCode,
		AccessCode:          strings.ToUpper(strings.TrimSpace(req.AccessCode)),
		ShippingCost:        shippingCost,
		Total:               total,
		Status:              domain.OrderStatusPending,
		SessionID:           session.SessionID,
		CreatedAt:           s.now().UTC(),
		UpdatedAt:           s.now().UTC(),
	}
	if err := s.orders.SavePending(ctx, session.SessionID, pending); err != nil {
		return Result{}, fmt.Errorf("persist pending order: %w", err)
	}

	if err := s.carts.Clear(ctx, req.SessionID); err != nil {
		logx.Warn().Err(err).Str("session_id", req.SessionID).Msg("cart clear failed after session creation")
	}

	return Result{SessionID: session.SessionID, CheckoutURL: session.URL}, nil
}

// ConfirmSession polls the gateway and, on payment, promotes the pending
// order to a confirmed one. Safe to call repeatedly for the same session.
func (s *Service) ConfirmSession(ctx context.Context, sessionID string) (StatusResult, error) {
	status, err := s.gateway.GetStatus(ctx, sessionID)
	if err != nil {
		return StatusResult{}, fmt.Errorf("session status: %w", err)
	}

	result := StatusResult{Status: status.Status, PaymentStatus: status.PaymentStatus}
	if status.PaymentStatus != "paid" {
		return result, nil
	}

	if existing, err := s.orders.GetBySessionID(ctx, sessionID); err == nil {
		result.OrderID = existing.ID
		result.OrderNumber = existing.OrderNumber
		return result, nil
	} else if !errors.Is(err, repository.ErrOrderNotFound) {
		return StatusResult{}, fmt.Errorf("look up order: %w", err)
	}

	pending, err := s.orders.GetPending(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrPendingNotFound) {
			// Paid session with no snapshot: nothing to promote.
			return result, nil
		}
		return StatusResult{}, fmt.Errorf("load pending order: %w", err)
	}

	order := pending
	order.OrderNumber = domain.NewOrderNumber()
	order.Status = domain.OrderStatusConfirmed
	order.UpdatedAt = s.now().UTC()

	if err := s.orders.Create(ctx, order); err != nil {
		return StatusResult{}, fmt.Errorf("create order: %w", err)
	}
	if err := s.orders.DeletePending(ctx, sessionID); err != nil {
		logx.Warn().Err(err).Str("payment_session", sessionID).Msg("pending order cleanup failed")
	}

	if order.AccessCode != "" && s.waitlists != nil {
		if err := s.waitlists.MarkPurchased(ctx, order.AccessCode); err != nil {
			logx.Warn().Err(err).Str("access_code", order.AccessCode).Msg("access code burn failed")
		}
	}

	if s.mail != nil {
		if err := s.mail.SendOrderConfirmation(ctx, order); err != nil {
			logx.Warn().Err(err).Str("order_number", order.OrderNumber).Msg("confirmation email failed")
		}
	}

	logx.Info().Str("order_number", order.OrderNumber).Str("total", order.Total.StringFixed(2)).Msg("order confirmed")

	result.OrderID = order.ID
	result.OrderNumber = order.OrderNumber
	return result, nil
}
