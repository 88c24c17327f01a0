package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/steadybroo69-afk/gym/internal/domain"
	"github.com/steadybroo69-afk/gym/internal/repository"
)

// OrderTracker looks orders up by their customer-facing number.
type OrderTracker interface {
	GetByNumber(ctx context.Context, orderNumber string) (domain.Order, error)
}

type OrdersHandler struct {
	orders OrderTracker
}

func NewOrdersHandler(orders OrderTracker) *OrdersHandler {
	return &OrdersHandler{orders: orders}
}

// TrackingDTO is the public view of an order: status and shipment info only,
// no payment or address details.
type TrackingDTO struct {
	OrderNumber    string             `json:"order_number"`
	Status         domain.OrderStatus `json:"status"`
	Items          []domain.LineItem  `json:"items"`
	TrackingNumber string             `json:"tracking_number,omitempty"`
	Carrier        string             `json:"carrier,omitempty"`
	CreatedAt      string             `json:"created_at"`
	ShippedAt      string             `json:"shipped_at,omitempty"`
	DeliveredAt    string             `json:"delivered_at,omitempty"`
}

// Track handles GET /api/orders/track/{order_number}.
func (h *OrdersHandler) Track(w http.ResponseWriter, r *http.Request) {
	number := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "order_number")))
	if number == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "order number is required")
		return
	}

	order, err := h.orders.GetByNumber(r.Context(), number)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "Order not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal", "failed to load order")
		return
	}

	dto := TrackingDTO{
		OrderNumber:    order.OrderNumber,
		Status:         order.Status,
		Items:          order.Items,
		TrackingNumber: order.TrackingNumber,
		Carrier:        order.Carrier,
		CreatedAt:      order.CreatedAt.UTC().Format("2006-01-02"),
	}
	if order.ShippedAt != nil {
		dto.ShippedAt = order.ShippedAt.UTC().Format("2006-01-02")
	}
	if order.DeliveredAt != nil {
		dto.DeliveredAt = order.DeliveredAt.UTC().Format("2006-01-02")
	}
	respondJSON(w, http.StatusOK, dto)
}
