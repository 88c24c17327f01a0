package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/steadybroo69-afk/gym/internal/catalog"
	"github.com/steadybroo69-afk/gym/internal/domain"
)

// lowStockThreshold drives the "only a few left" storefront badge.
const lowStockThreshold = 5

type CatalogHandler struct {
	store *catalog.Store
}

func NewCatalogHandler(store *catalog.Store) *CatalogHandler {
	return &CatalogHandler{store: store}
}

func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	products := h.store.All()
	if cat := r.URL.Query().Get("category"); cat != "" {
		products = h.store.ByCategory(domain.Category(cat))
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_id", "product id must be numeric")
		return
	}

	product, err := h.store.ByID(id)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal", "failed to load product")
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// StockCheckDTO mirrors the advisory stock view: quantities are a hint, never
// a reservation.
type StockCheckDTO struct {
	InStock   bool `json:"in_stock"`
	Available int  `json:"available"`
	LowStock  bool `json:"low_stock"`
}

// StockCheck reports advisory availability for one product variant. An
// unknown product or mismatched color reads as out of stock rather than an
// error, matching how the storefront badge treats it.
func (h *CatalogHandler) StockCheck(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_id", "product id must be numeric")
		return
	}
	color := chi.URLParam(r, "color")
	size := chi.URLParam(r, "size")

	product, err := h.store.ByID(id)
	if err != nil || !strings.EqualFold(product.Color, color) {
		respondJSON(w, http.StatusOK, StockCheckDTO{InStock: false, Available: 0, LowStock: true})
		return
	}

	available := product.Stock[size]
	respondJSON(w, http.StatusOK, StockCheckDTO{
		InStock:   product.InStock(size),
		Available: available,
		LowStock:  available <= lowStockThreshold,
	})
}
