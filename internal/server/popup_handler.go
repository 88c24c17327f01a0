package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/steadybroo69-afk/gym/internal/engagement"
)

type PopupHandler struct {
	policies map[string]*engagement.PopupPolicy
}

// NewPopupHandler registers the named popup policies. The storefront ships
// with "giveaway" self-managed and "early-access" externally controlled.
func NewPopupHandler(policies map[string]*engagement.PopupPolicy) *PopupHandler {
	return &PopupHandler{policies: policies}
}

type PopupEligibilityDTO struct {
	Eligible bool  `json:"eligible"`
	Open     bool  `json:"open"`
	DelayMS  int64 `json:"delay_ms"`
}

func (h *PopupHandler) Eligibility(w http.ResponseWriter, r *http.Request) {
	policy, ok := h.policies[chi.URLParam(r, "name")]
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", "unknown popup")
		return
	}

	d, err := policy.Evaluate(r.Context(), popupVisitorKey(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "failed to evaluate popup")
		return
	}
	respondJSON(w, http.StatusOK, PopupEligibilityDTO{
		Eligible: d.Eligible,
		Open:     d.Open,
		DelayMS:  d.Delay.Milliseconds(),
	})
}

func (h *PopupHandler) Shown(w http.ResponseWriter, r *http.Request) {
	policy, ok := h.policies[chi.URLParam(r, "name")]
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", "unknown popup")
		return
	}

	if err := policy.MarkShown(r.Context(), popupVisitorKey(r)); err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "failed to record popup show")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *PopupHandler) Dismissed(w http.ResponseWriter, r *http.Request) {
	policy, ok := h.policies[chi.URLParam(r, "name")]
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", "unknown popup")
		return
	}

	if err := policy.MarkDismissed(r.Context(), popupVisitorKey(r)); err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "failed to record popup dismissal")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// popupVisitorKey namespaces popup state per popup name so two popups never
// share a cooldown window.
func popupVisitorKey(r *http.Request) string {
	return chi.URLParam(r, "name") + ":" + visitorIDFrom(r.Context())
}
