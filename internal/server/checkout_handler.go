package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/steadybroo69-afk/gym/internal/checkout"
	"github.com/steadybroo69-afk/gym/internal/domain"
)

type CheckoutHandler struct {
	checkout *checkout.Service
}

func NewCheckoutHandler(svc *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{checkout: svc}
}

type CreateSessionRequestDTO struct {
	Items      []domain.LineItem        `json:"items"`
	Shipping   domain.ShippingAddress   `json:"shipping"`
	Rate       *domain.ShippingRate     `json:"shipping_rate"`
	Promo      *domain.PromoApplication `json:"promo"`
	AccessCode string                   `json:"access_code"`
	OriginURL  string                   `json:"origin_url"`
}

type CreateSessionResponseDTO struct {
	Success     bool   `json:"success"`
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}

func (h *CheckoutHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Shipping.Email == "" {
		respondError(w, http.StatusBadRequest, "invalid_shipping", "shipping email is required")
		return
	}
	if req.OriginURL == "" {
		respondError(w, http.StatusBadRequest, "invalid_origin", "origin_url is required")
		return
	}

	res, err := h.checkout.CreateSession(r.Context(), checkout.Request{
		SessionID:  sessionIDFrom(r.Context()),
		Items:      req.Items,
		Shipping:   req.Shipping,
		Rate:       req.Rate,
		Promo:      req.Promo,
		AccessCode: req.AccessCode,
		OriginURL:  req.OriginURL,
	})
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			respondError(w, http.StatusBadRequest, "empty_cart", "cart is empty")
			return
		}
		respondError(w, http.StatusBadGateway, "payment_unavailable", "failed to create checkout session")
		return
	}

	respondJSON(w, http.StatusOK, CreateSessionResponseDTO{
		Success:     true,
		SessionID:   res.SessionID,
		CheckoutURL: res.CheckoutURL,
	})
}

func (h *CheckoutHandler) Status(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "invalid_session", "session id is required")
		return
	}

	res, err := h.checkout.ConfirmSession(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusBadGateway, "payment_unavailable", "failed to get checkout status")
		return
	}
	respondJSON(w, http.StatusOK, res)
}
