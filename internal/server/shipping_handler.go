package server

import (
	"encoding/json"
	"net/http"

	"github.com/steadybroo69-afk/gym/internal/domain"
	"github.com/steadybroo69-afk/gym/internal/shipping"
	"github.com/steadybroo69-afk/gym/pkg/logx"
)

type ShippingHandler struct {
	shipping *shipping.Client
}

func NewShippingHandler(client *shipping.Client) *ShippingHandler {
	return &ShippingHandler{shipping: client}
}

type ShippingRatesRequestDTO struct {
	Address  domain.ShippingAddress `json:"address"`
	WeightLb float64                `json:"weight_lb"`
	LengthIn float64                `json:"length_in"`
	WidthIn  float64                `json:"width_in"`
	HeightIn float64                `json:"height_in"`
}

type ShippingRatesResponseDTO struct {
	Success bool                  `json:"success"`
	Rates   []domain.ShippingRate `json:"rates"`
	Message string                `json:"message,omitempty"`
}

// Rates quotes carrier options for an address. Rate-service failures degrade
// to an empty list with a message so checkout can fall back to flat shipping.
func (h *ShippingHandler) Rates(w http.ResponseWriter, r *http.Request) {
	var req ShippingRatesRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Address.PostalCode == "" || req.Address.Country == "" {
		respondError(w, http.StatusBadRequest, "invalid_address", "postal code and country are required")
		return
	}

	rates, err := h.shipping.Rates(r.Context(), shipping.RateRequest{
		AddressTo: req.Address,
		WeightLb:  req.WeightLb,
		LengthIn:  req.LengthIn,
		WidthIn:   req.WidthIn,
		HeightIn:  req.HeightIn,
	})
	if err != nil {
		logx.Warn().Err(err).Msg("shipping rate lookup failed")
		respondJSON(w, http.StatusOK, ShippingRatesResponseDTO{
			Success: false,
			Rates:   []domain.ShippingRate{},
			Message: "Live rates unavailable, flat rate shipping will be applied",
		})
		return
	}
	if rates == nil {
		rates = []domain.ShippingRate{}
	}
	respondJSON(w, http.StatusOK, ShippingRatesResponseDTO{Success: true, Rates: rates})
}
