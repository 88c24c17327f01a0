package server

import (
	"encoding/json"
	"net/http"

	"github.com/steadybroo69-afk/gym/internal/domain"
	"github.com/steadybroo69-afk/gym/internal/marketing"
)

type EmailsHandler struct {
	marketing *marketing.Service
}

func NewEmailsHandler(svc *marketing.Service) *EmailsHandler {
	return &EmailsHandler{marketing: svc}
}

type SubscribeRequestDTO struct {
	Email       string `json:"email"`
	Source      string `json:"source"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Drop        string `json:"drop"`
}

func (h *EmailsHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Source == "" {
		req.Source = string(domain.SourceGiveawayPopup)
	}

	res, err := h.marketing.Subscribe(r.Context(), req.Email, domain.SubscriptionSource(req.Source), req.ProductID, req.ProductName, req.Drop)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *EmailsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.marketing.Stats(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "failed to load subscription stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
