package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/steadybroo69-afk/gym/internal/cart"
	"github.com/steadybroo69-afk/gym/internal/catalog"
	"github.com/steadybroo69-afk/gym/internal/domain"
	"github.com/steadybroo69-afk/gym/internal/pricing"
)

type CartHandler struct {
	carts   *cart.Service
	catalog *catalog.Store
}

func NewCartHandler(carts *cart.Service, store *catalog.Store) *CartHandler {
	return &CartHandler{carts: carts, catalog: store}
}

type AddItemRequestDTO struct {
	ProductID int    `json:"product_id"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

type UpdateItemRequestDTO struct {
	ProductID int    `json:"product_id"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

type RemoveItemRequestDTO struct {
	ProductID int    `json:"product_id"`
	Color     string `json:"color"`
	Size      string `json:"size"`
}

type CartResponseDTO struct {
	SessionID           string            `json:"session_id"`
	Items               []domain.LineItem `json:"items"`
	Count               int               `json:"count"`
	Subtotal            string            `json:"subtotal"`
	Discount            string            `json:"discount"`
	DiscountDescription string            `json:"discount_description,omitempty"`
	Total               string            `json:"total"`
}

func cartResponse(c domain.Cart) CartResponseDTO {
	totals := pricing.ComputeTotals(c.Items)
	items := c.Items
	if items == nil {
		items = []domain.LineItem{}
	}
	return CartResponseDTO{
		SessionID:           c.SessionID,
		Items:               items,
		Count:               c.Count(),
		Subtotal:            totals.Subtotal.StringFixed(2),
		Discount:            totals.Discount.StringFixed(2),
		DiscountDescription: totals.DiscountDescription,
		Total:               totals.Total.StringFixed(2),
	}
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	c := h.carts.Get(r.Context(), sessionIDFrom(r.Context()))
	respondJSON(w, http.StatusOK, cartResponse(c))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	product, err := h.catalog.ByID(req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal", "failed to load product")
		return
	}

	c, err := h.carts.AddItem(r.Context(), sessionIDFrom(r.Context()), product, req.Color, req.Size, req.Quantity)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "failed to update cart")
		return
	}
	respondJSON(w, http.StatusCreated, cartResponse(c))
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req UpdateItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	c, err := h.carts.UpdateQuantity(r.Context(), sessionIDFrom(r.Context()), req.ProductID, req.Color, req.Size, req.Quantity)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "failed to update cart")
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(c))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	var req RemoveItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	c, err := h.carts.RemoveItem(r.Context(), sessionIDFrom(r.Context()), req.ProductID, req.Color, req.Size)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "failed to update cart")
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(c))
}

func (h *CartHandler) Totals(w http.ResponseWriter, r *http.Request) {
	totals := h.carts.Totals(r.Context(), sessionIDFrom(r.Context()))
	respondJSON(w, http.StatusOK, map[string]string{
		"subtotal":             totals.Subtotal.StringFixed(2),
		"discount":             totals.Discount.StringFixed(2),
		"discount_description": totals.DiscountDescription,
		"total":                totals.Total.StringFixed(2),
	})
}
