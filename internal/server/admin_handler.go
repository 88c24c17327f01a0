package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/steadybroo69-afk/gym/internal/admin"
	"github.com/steadybroo69-afk/gym/internal/domain"
	"github.com/steadybroo69-afk/gym/internal/marketing"
	"github.com/steadybroo69-afk/gym/internal/repository"
	"github.com/steadybroo69-afk/gym/internal/shipping"
	"github.com/steadybroo69-afk/gym/internal/waitlist"
)

const adminTokenCookie = "admin_token"

// AdminUsers is the user storage the back office reads and prunes.
type AdminUsers interface {
	List(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, userID string) (bool, error)
}

// AdminSubscribers is the subscription storage the back office manages.
type AdminSubscribers interface {
	List(ctx context.Context, source domain.SubscriptionSource) ([]domain.EmailSubscription, error)
	DeleteByEmail(ctx context.Context, email string) (int64, error)
}

// AdminOrders is the order storage the back office reads and updates.
type AdminOrders interface {
	List(ctx context.Context, status domain.OrderStatus, limit int) ([]domain.Order, error)
	GetByID(ctx context.Context, id string) (domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, tracking, carrier string) error
}

// LabelBuyer purchases shipping labels for confirmed orders.
type LabelBuyer interface {
	BuyLabel(ctx context.Context, rateID string) (shipping.Label, error)
}

type AdminHandler struct {
	auth      *admin.Auth
	stats     *admin.StatsService
	users     AdminUsers
	subs      AdminSubscribers
	orders    AdminOrders
	waitlist  *waitlist.Service
	marketing *marketing.Service
	labels    LabelBuyer
}

func NewAdminHandler(
	auth *admin.Auth,
	stats *admin.StatsService,
	users AdminUsers,
	subs AdminSubscribers,
	orders AdminOrders,
	wl *waitlist.Service,
	mkt *marketing.Service,
	labels LabelBuyer,
) *AdminHandler {
	return &AdminHandler{
		auth:      auth,
		stats:     stats,
		users:     users,
		subs:      subs,
		orders:    orders,
		waitlist:  wl,
		marketing: mkt,
		labels:    labels,
	}
}

// RequireAuth gates the admin routes on a live session token, read from the
// admin_token cookie or the X-Admin-Token header.
func (h *AdminHandler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.auth.Verify(adminTokenFrom(r)) {
			respondError(w, http.StatusUnauthorized, "unauthorized", "Admin authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func adminTokenFrom(r *http.Request) string {
	if token := r.Header.Get("X-Admin-Token"); token != "" {
		return token
	}
	if c, err := r.Cookie(adminTokenCookie); err == nil {
		return c.Value
	}
	return ""
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	token, err := h.auth.Login(req.Password)
	if err != nil {
		if errors.Is(err, admin.ErrInvalidPassword) {
			respondError(w, http.StatusUnauthorized, "invalid_password", "Invalid password")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal", "failed to create admin session")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     adminTokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "token": token})
}

func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.auth.Logout(adminTokenFrom(r))
	http.SetCookie(w, &http.Cookie{Name: adminTokenCookie, Value: "", Path: "/", MaxAge: -1})
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AdminHandler) Verify(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]bool{
		"authenticated": h.auth.Verify(adminTokenFrom(r)),
	})
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Collect(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "failed to collect stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "failed to list users")
		return
	}
	skip, limit := pageParams(r)
	respondJSON(w, http.StatusOK, map[string]any{
		"users": pageOf(users, skip, limit),
		"total": len(users),
	})
}

func (h *AdminHandler) Subscribers(w http.ResponseWriter, r *http.Request) {
	source := domain.SubscriptionSource(r.URL.Query().Get("source"))
	subs, err := h.subs.List(r.Context(), source)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "failed to list subscribers")
		return
	}
	skip, limit := pageParams(r)
	respondJSON(w, http.StatusOK, map[string]any{
		"subscribers": pageOf(subs, skip, limit),
		"total":       len(subs),
	})
}

func (h *AdminHandler) Waitlist(w http.ResponseWriter, r *http.Request) {
	entries, err := h.waitlist.Entries(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "failed to list waitlist")
		return
	}
	skip, limit := pageParams(r)
	respondJSON(w, http.StatusOK, map[string]any{
		"waitlist": pageOf(entries, skip, limit),
		"total":    len(entries),
	})
}

func (h *AdminHandler) Orders(w http.ResponseWriter, r *http.Request) {
	status := domain.OrderStatus(r.URL.Query().Get("status"))
	_, limit := pageParams(r)
	orders, err := h.orders.List(r.Context(), status, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "failed to list orders")
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"orders": orders,
		"total":  len(orders),
	})
}

type OrderStatusRequestDTO struct {
	Status         string `json:"status"`
	TrackingNumber string `json:"tracking_number"`
	Carrier        string `json:"carrier"`
}

func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req OrderStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	status := domain.OrderStatus(req.Status)
	if !domain.ValidOrderStatus(status) {
		respondError(w, http.StatusBadRequest, "invalid_status", "unknown order status")
		return
	}

	err := h.orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), status, req.TrackingNumber, req.Carrier)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "Order not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal", "failed to update order")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type ShipOrderRequestDTO struct {
	RateID string `json:"rate_id"`
}

// ShipOrder buys the label for a quoted rate and moves the order to shipped
// with the tracking number attached.
func (h *AdminHandler) ShipOrder(w http.ResponseWriter, r *http.Request) {
	var req ShipOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.RateID == "" {
		respondError(w, http.StatusBadRequest, "invalid_rate", "rate_id is required")
		return
	}

	orderID := chi.URLParam(r, "id")
	if _, err := h.orders.GetByID(r.Context(), orderID); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "Order not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal", "failed to load order")
		return
	}

	label, err := h.labels.BuyLabel(r.Context(), req.RateID)
	if err != nil {
		respondError(w, http.StatusBadGateway, "label_failed", "failed to purchase shipping label")
		return
	}
	if err := h.orders.UpdateStatus(r.Context(), orderID, domain.OrderStatusShipped, label.TrackingNumber, label.Carrier); err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "failed to update order")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"tracking_number": label.TrackingNumber,
		"label_url":       label.LabelURL,
		"carrier":         label.Carrier,
	})
}

type BulkEmailRequestDTO struct {
	Target  string `json:"target"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

func (h *AdminHandler) SendBulkEmail(w http.ResponseWriter, r *http.Request) {
	var req BulkEmailRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Subject == "" || req.HTML == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "subject and html are required")
		return
	}

	res, err := h.marketing.SendBulk(r.Context(), req.Target, req.Subject, req.HTML)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_target", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *AdminHandler) DeleteSubscriber(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.subs.DeleteByEmail(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "failed to delete subscriber")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success":       deleted > 0,
		"deleted_count": deleted,
	})
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	existed, err := h.users.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "failed to delete user")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": existed,
		"deleted": existed,
	})
}

func pageParams(r *http.Request) (skip, limit int) {
	skip, _ = strconv.Atoi(r.URL.Query().Get("skip"))
	if skip < 0 {
		skip = 0
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 100
	}
	return skip, limit
}

func pageOf[T any](items []T, skip, limit int) []T {
	if skip >= len(items) {
		return []T{}
	}
	end := skip + limit
	if end > len(items) {
		end = len(items)
	}
	return items[skip:end]
}
