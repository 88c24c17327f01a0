package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/steadybroo69-afk/gym/internal/engagement"
	"github.com/steadybroo69-afk/gym/internal/waitlist"
)

type WaitlistHandler struct {
	waitlist *waitlist.Service
	spots    *engagement.SpotsCounter
}

func NewWaitlistHandler(svc *waitlist.Service, spots *engagement.SpotsCounter) *WaitlistHandler {
	return &WaitlistHandler{waitlist: svc, spots: spots}
}

type WaitlistJoinRequestDTO struct {
	Email       string `json:"email"`
	ProductID   int    `json:"product_id"`
	ProductName string `json:"product_name"`
	Variant     string `json:"variant"`
	Size        string `json:"size"`
}

func (h *WaitlistHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req WaitlistJoinRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	res, err := h.waitlist.Join(r.Context(), req.Email, req.ProductID, req.ProductName, req.Variant, req.Size)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_email", "a valid email address is required")
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *WaitlistHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.waitlist.Status(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "failed to load waitlist status")
		return
	}
	respondJSON(w, http.StatusOK, status)
}

func (h *WaitlistHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	res, err := h.waitlist.VerifyCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "failed to verify access code")
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// Spots serves the marketing scarcity counter shown next to the waitlist CTA.
func (h *WaitlistHandler) Spots(w http.ResponseWriter, r *http.Request) {
	remaining, err := h.spots.Remaining(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "failed to load spots counter")
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"spots_remaining": remaining})
}
