package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/steadybroo69-afk/gym/internal/domain"
	"github.com/steadybroo69-afk/gym/internal/promo"
	"github.com/steadybroo69-afk/gym/internal/repository"
	"github.com/steadybroo69-afk/gym/pkg/logx"
)

type PromoHandler struct {
	promos *promo.Service
}

func NewPromoHandler(promos *promo.Service) *PromoHandler {
	return &PromoHandler{promos: promos}
}

type PromoValidateRequestDTO struct {
	Code     string          `json:"code"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type PromoValidateResponseDTO struct {
	Valid           bool   `json:"valid"`
	Code            string `json:"code"`
	DiscountAmount  string `json:"discount_amount"`
	DiscountDisplay string `json:"discount_display"`
}

type PromoCreateRequestDTO struct {
	Code          string          `json:"code"`
	DiscountType  string          `json:"discount_type"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	MinOrder      decimal.Decimal `json:"min_order"`
	MaxUses       *int            `json:"max_uses"`
}

func (h *PromoHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req PromoValidateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	app, err := h.promos.Validate(r.Context(), req.Code, req.Subtotal)
	if err != nil {
		var verr *promo.ValidationError
		if errors.As(err, &verr) {
			respondError(w, http.StatusBadRequest, "invalid_promo", verr.Reason)
			return
		}
		respondError(w, http.StatusInternalServerError, "internal", "failed to validate promo code")
		return
	}

	respondJSON(w, http.StatusOK, PromoValidateResponseDTO{
		Valid:           true,
		Code:            app.Code,
		DiscountAmount:  app.DiscountAmount.StringFixed(2),
		DiscountDisplay: app.DiscountDisplay,
	})
}

// Use increments the usage counter. Callers fire-and-forget this, so the
// response is always 200 with a success flag.
func (h *PromoHandler) Use(w http.ResponseWriter, r *http.Request) {
	var req PromoValidateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	success := true
	if err := h.promos.MarkUsed(r.Context(), req.Code); err != nil {
		logx.Warn().Err(err).Str("code", req.Code).Msg("promo use failed")
		success = false
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": success})
}

func (h *PromoHandler) List(w http.ResponseWriter, r *http.Request) {
	codes, err := h.promos.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "failed to list promo codes")
		return
	}
	if codes == nil {
		codes = []domain.PromoCode{}
	}
	respondJSON(w, http.StatusOK, codes)
}

func (h *PromoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req PromoCreateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	created, err := h.promos.Create(r.Context(), domain.PromoCode{
		Code:          req.Code,
		DiscountType:  domain.DiscountType(req.DiscountType),
		DiscountValue: req.DiscountValue,
		MinOrder:      req.MinOrder,
		MaxUses:       req.MaxUses,
	})
	if err != nil {
		if errors.Is(err, promo.ErrCodeExists) {
			respondError(w, http.StatusBadRequest, "duplicate_code", "Promo code already exists")
			return
		}
		var verr *promo.ValidationError
		if errors.As(err, &verr) {
			respondError(w, http.StatusBadRequest, "invalid_promo", verr.Reason)
			return
		}
		respondError(w, http.StatusInternalServerError, "internal", "failed to create promo code")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"success": true, "code": created.Code})
}

func (h *PromoHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Active *bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Active == nil {
		respondJSON(w, http.StatusOK, map[string]any{"success": false, "message": "No updates provided"})
		return
	}

	if err := h.promos.SetActive(r.Context(), chi.URLParam(r, "code"), *req.Active); err != nil {
		if errors.Is(err, repository.ErrPromoNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "Promo code not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal", "failed to update promo code")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *PromoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if err := h.promos.Delete(r.Context(), code); err != nil {
		if errors.Is(err, repository.ErrPromoNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "Promo code not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal", "failed to delete promo code")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
