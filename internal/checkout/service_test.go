package checkout

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steadybroo69-afk/gym/internal/domain"
	"github.com/steadybroo69-afk/gym/internal/repository"
)

type fakeCarts struct {
	cart    domain.Cart
	cleared []string
}

func (f *fakeCarts) Get(context.Context, string) domain.Cart { return f.cart }
func (f *fakeCarts) Clear(_ context.Context, sid string) error {
	f.cleared = append(f.cleared, sid)
	return nil
}

type fakePromos struct {
	marked []string
	err    error
}

func (f *fakePromos) MarkUsed(_ context.Context, code string) error {
	f.marked = append(f.marked, code)
	return f.err
}

type fakeOrders struct {
	pending   map[string]domain.Order
	confirmed map[string]domain.Order
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{pending: map[string]domain.Order{}, confirmed: map[string]domain.Order{}}
}

func (f *fakeOrders) Create(_ context.Context, order domain.Order) error {
	f.confirmed[order.SessionID] = order
	return nil
}

func (f *fakeOrders) GetBySessionID(_ context.Context, sid string) (domain.Order, error) {
	if o, ok := f.confirmed[sid]; ok {
		return o, nil
	}
	return domain.Order{}, repository.ErrOrderNotFound
}

func (f *fakeOrders) SavePending(_ context.Context, sid string, order domain.Order) error {
	f.pending[sid] = order
	return nil
}

func (f *fakeOrders) GetPending(_ context.Context, sid string) (domain.Order, error) {
	o, ok := f.pending[sid]
	if !ok {
		return domain.Order{}, repository.ErrPendingNotFound
	}
	return o, nil
}

func (f *fakeOrders) DeletePending(_ context.Context, sid string) error {
	delete(f.pending, sid)
	return nil
}

type fakeGateway struct {
	created   []SessionRequest
	createErr error
	status    SessionStatus
}

func (f *fakeGateway) CreateSession(_ context.Context, req SessionRequest) (Session, error) {
	if f.createErr != nil {
		return Session{}, f.createErr
	}
	f.created = append(f.created, req)
	return Session{SessionID: "cs_test_123", URL: "https://pay.test/cs_test_123"}, nil
}

func (f *fakeGateway) GetStatus(context.Context, string) (SessionStatus, error) {
	return f.status, nil
}

type fakeMailer struct {
	sent []domain.Order
	err  error
}

func (f *fakeMailer) SendOrderConfirmation(_ context.Context, order domain.Order) error {
	f.sent = append(f.sent, order)
	return f.err
}

type fakeWaitlist struct {
	burned []string
	err    error
}

func (f *fakeWaitlist) MarkPurchased(_ context.Context, code string) error {
	f.burned = append(f.burned, code)
	return f.err
}

func twoShirts() []domain.LineItem {
	return []domain.LineItem{{
		ProductID: 1, ProductName: "Performance Training Tee", Category: domain.CategoryShirts,
		Color: "Black", Size: "M", Price: decimal.NewFromInt(45), Quantity: 2,
	}}
}

func newTestService(carts *fakeCarts, promos *fakePromos, orders *fakeOrders, gw *fakeGateway, mail *fakeMailer) *Service {
	return NewService(carts, promos, orders, gw, mail, &fakeWaitlist{})
}

func TestCreateSessionEmptyCart(t *testing.T) {
	svc := newTestService(&fakeCarts{}, &fakePromos{}, newFakeOrders(), &fakeGateway{}, &fakeMailer{})

	_, err := svc.CreateSession(context.Background(), Request{SessionID: "sid-1"})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCreateSessionFallsBackToCartSnapshot(t *testing.T) {
	carts := &fakeCarts{cart: domain.Cart{SessionID: "sid-1", Items: twoShirts()}}
	orders := newFakeOrders()
	gw := &fakeGateway{}
	svc := newTestService(carts, &fakePromos{}, orders, gw, &fakeMailer{})

	res, err := svc.CreateSession(context.Background(), Request{
		SessionID: "sid-1",
		OriginURL: "https://raze.test/",
	})
	require.NoError(t, err)

	assert.Equal(t, "cs_test_123", res.SessionID)
	assert.Equal(t, "https://pay.test/cs_test_123", res.CheckoutURL)

	require.Len(t, gw.created, 1)
	// 90 subtotal, 18 auto discount, flat $15 shipping fallback.
	assert.Equal(t, "87", gw.created[0].Amount.String())
	assert.Equal(t, "https://raze.test/checkout/success?session_id={CHECKOUT_SESSION_ID}", gw.created[0].SuccessURL)
	assert.Equal(t, "https://raze.test/cart", gw.created[0].CancelURL)

	pending := orders.pending["cs_test_123"]
	assert.Equal(t, domain.OrderStatusPending, pending.Status)
	assert.Equal(t, "20% off (2 shirts)", pending.DiscountDescription)
	assert.Equal(t, []string{"sid-1"}, carts.cleared)
}

func TestCreateSessionCombinesPromoDiscount(t *testing.T) {
	carts := &fakeCarts{cart: domain.Cart{SessionID: "sid-1", Items: twoShirts()}}
	promos := &fakePromos{}
	orders := newFakeOrders()
	rate := domain.ShippingRate{ObjectID: "r1", Amount: decimal.RequireFromString("8.15")}
	svc := newTestService(carts, promos, orders, &fakeGateway{}, &fakeMailer{})

	_, err := svc.CreateSession(context.Background(), Request{
		SessionID: "sid-1",
		Rate:      &rate,
		Promo: &domain.PromoApplication{
			Code:            "LAUNCH15",
			DiscountAmount:  decimal.RequireFromString("10.80"),
			DiscountDisplay: "15% off",
		},
		OriginURL: "https://raze.test",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"LAUNCH15"}, promos.marked)

	pending := orders.pending["cs_test_123"]
	assert.Equal(t, "20% off (2 shirts) + 15% off (LAUNCH15)", pending.DiscountDescription)
	assert.Equal(t, "28.80", pending.Discount.StringFixed(2))
	// 90 - 18 - 10.80 + 8.15
	assert.Equal(t, "69.35", pending.Total.StringFixed(2))
	assert.Equal(t, "LAUNCH15", pending.PromoCode)
}

func TestCreateSessionPromoMarkFailureDoesNotBlock(t *testing.T) {
	carts := &fakeCarts{cart: domain.Cart{SessionID: "sid-1", Items: twoShirts()}}
	promos := &fakePromos{err: errors.New("db down")}
	svc := newTestService(carts, promos, newFakeOrders(), &fakeGateway{}, &fakeMailer{})

	_, err := svc.CreateSession(context.Background(), Request{
		SessionID: "sid-1",
		Promo:     &domain.PromoApplication{Code: "LAUNCH15", DiscountAmount: decimal.NewFromInt(10), DiscountDisplay: "15% off"},
		OriginURL: "https://raze.test",
	})
	assert.NoError(t, err)
}

func TestCreateSessionGatewayFailureLeavesCart(t *testing.T) {
	carts := &fakeCarts{cart: domain.Cart{SessionID: "sid-1", Items: twoShirts()}}
	orders := newFakeOrders()
	gw := &fakeGateway{createErr: errors.New("gateway timeout")}
	svc := newTestService(carts, &fakePromos{}, orders, gw, &fakeMailer{})

	_, err := svc.CreateSession(context.Background(), Request{SessionID: "sid-1", OriginURL: "https://raze.test"})

	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "payment session"))
	assert.Empty(t, carts.cleared, "cart must survive a failed checkout")
	assert.Empty(t, orders.pending)
}

func TestConfirmSessionNotPaid(t *testing.T) {
	orders := newFakeOrders()
	gw := &fakeGateway{status: SessionStatus{Status: "open", PaymentStatus: "unpaid"}}
	svc := newTestService(&fakeCarts{}, &fakePromos{}, orders, gw, &fakeMailer{})

	res, err := svc.ConfirmSession(context.Background(), "cs_test_123")
	require.NoError(t, err)

	assert.Equal(t, "unpaid", res.PaymentStatus)
	assert.Empty(t, res.OrderNumber)
	assert.Empty(t, orders.confirmed)
}

func TestConfirmSessionPromotesPendingOrder(t *testing.T) {
	orders := newFakeOrders()
	orders.pending["cs_test_123"] = domain.Order{
		ID:        "order-1",
		SessionID: "cs_test_123",
		Items:     twoShirts(),
		Shipping:  domain.ShippingAddress{Email: "alex@example.com", FirstName: "Alex"},
		Total:     decimal.NewFromInt(87),
		Status:    domain.OrderStatusPending,
	}
	gw := &fakeGateway{status: SessionStatus{Status: "complete", PaymentStatus: "paid"}}
	mail := &fakeMailer{}
	svc := newTestService(&fakeCarts{}, &fakePromos{}, orders, gw, mail)

	res, err := svc.ConfirmSession(context.Background(), "cs_test_123")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(res.OrderNumber, "RAZE-"))
	assert.Len(t, res.OrderNumber, len("RAZE-")+8)

	confirmed := orders.confirmed["cs_test_123"]
	assert.Equal(t, domain.OrderStatusConfirmed, confirmed.Status)
	assert.Empty(t, orders.pending, "pending snapshot removed after promotion")

	require.Len(t, mail.sent, 1)
	assert.Equal(t, res.OrderNumber, mail.sent[0].OrderNumber)
}

func TestConfirmSessionIsIdempotent(t *testing.T) {
	orders := newFakeOrders()
	orders.pending["cs_test_123"] = domain.Order{
		ID: "order-1", SessionID: "cs_test_123", Items: twoShirts(),
		Shipping: domain.ShippingAddress{Email: "alex@example.com"},
	}
	gw := &fakeGateway{status: SessionStatus{Status: "complete", PaymentStatus: "paid"}}
	mail := &fakeMailer{}
	svc := newTestService(&fakeCarts{}, &fakePromos{}, orders, gw, mail)

	first, err := svc.ConfirmSession(context.Background(), "cs_test_123")
	require.NoError(t, err)
	second, err := svc.ConfirmSession(context.Background(), "cs_test_123")
	require.NoError(t, err)

	assert.Equal(t, first.OrderNumber, second.OrderNumber)
	assert.Len(t, orders.confirmed, 1)
	assert.Len(t, mail.sent, 1, "confirmation email sent exactly once")
}

func TestCreateSessionNormalizesAccessCode(t *testing.T) {
	carts := &fakeCarts{cart: domain.Cart{SessionID: "sid-1", Items: twoShirts()}}
	orders := newFakeOrders()
	svc := newTestService(carts, &fakePromos{}, orders, &fakeGateway{}, &fakeMailer{})

	_, err := svc.CreateSession(context.Background(), Request{
		SessionID:  "sid-1",
		AccessCode: "  raze-a1b2c3d4 ",
		OriginURL:  "https://raze.test",
	})
	require.NoError(t, err)

	assert.Equal(t, "RAZE-A1B2C3D4", orders.pending["cs_test_123"].AccessCode)
}

func TestConfirmSessionBurnsAccessCode(t *testing.T) {
	orders := newFakeOrders()
	orders.pending["cs_test_123"] = domain.Order{
		ID: "order-1", SessionID: "cs_test_123", Items: twoShirts(),
		Shipping:   domain.ShippingAddress{Email: "alex@example.com"},
		AccessCode: "RAZE-A1B2C3D4",
	}
	gw := &fakeGateway{status: SessionStatus{Status: "complete", PaymentStatus: "paid"}}
	waitlists := &fakeWaitlist{}
	svc := NewService(&fakeCarts{}, &fakePromos{}, orders, gw, &fakeMailer{}, waitlists)

	res, err := svc.ConfirmSession(context.Background(), "cs_test_123")
	require.NoError(t, err)
	require.NotEmpty(t, res.OrderNumber)

	assert.Equal(t, []string{"RAZE-A1B2C3D4"}, waitlists.burned)

	// An idempotent re-confirm must not burn the code twice.
	_, err = svc.ConfirmSession(context.Background(), "cs_test_123")
	require.NoError(t, err)
	assert.Len(t, waitlists.burned, 1)
}

func TestConfirmSessionSkipsBurnWhenNoCode(t *testing.T) {
	orders := newFakeOrders()
	orders.pending["cs_test_123"] = domain.Order{
		ID: "order-1", SessionID: "cs_test_123", Items: twoShirts(),
		Shipping: domain.ShippingAddress{Email: "alex@example.com"},
	}
	gw := &fakeGateway{status: SessionStatus{Status: "complete", PaymentStatus: "paid"}}
	waitlists := &fakeWaitlist{}
	svc := NewService(&fakeCarts{}, &fakePromos{}, orders, gw, &fakeMailer{}, waitlists)

	_, err := svc.ConfirmSession(context.Background(), "cs_test_123")
	require.NoError(t, err)
	assert.Empty(t, waitlists.burned)
}

func TestConfirmSessionBurnFailureIsBestEffort(t *testing.T) {
	orders := newFakeOrders()
	orders.pending["cs_test_123"] = domain.Order{
		ID: "order-1", SessionID: "cs_test_123", Items: twoShirts(),
		Shipping:   domain.ShippingAddress{Email: "alex@example.com"},
		AccessCode: "RAZE-A1B2C3D4",
	}
	gw := &fakeGateway{status: SessionStatus{Status: "complete", PaymentStatus: "paid"}}
	waitlists := &fakeWaitlist{err: errors.New("db down")}
	svc := NewService(&fakeCarts{}, &fakePromos{}, orders, gw, &fakeMailer{}, waitlists)

	res, err := svc.ConfirmSession(context.Background(), "cs_test_123")
	require.NoError(t, err)
	assert.NotEmpty(t, res.OrderNumber)
}

func TestConfirmSessionMailFailureIsBestEffort(t *testing.T) {
	orders := newFakeOrders()
	orders.pending["cs_test_123"] = domain.Order{
		ID: "order-1", SessionID: "cs_test_123", Items: twoShirts(),
		Shipping: domain.ShippingAddress{Email: "alex@example.com"},
	}
	gw := &fakeGateway{status: SessionStatus{Status: "complete", PaymentStatus: "paid"}}
	svc := newTestService(&fakeCarts{}, &fakePromos{}, orders, gw, &fakeMailer{err: errors.New("mail down")})

	res, err := svc.ConfirmSession(context.Background(), "cs_test_123")
	require.NoError(t, err)
	assert.NotEmpty(t, res.OrderNumber)
}
