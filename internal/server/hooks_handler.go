package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// SignupNotifier relays account registrations to the automation platform.
type SignupNotifier interface {
	Signup(ctx context.Context, email, name, discountCode, method string)
}

// HooksHandler receives callbacks from the external identity service.
type HooksHandler struct {
	hooks SignupNotifier
}

func NewHooksHandler(hooks SignupNotifier) *HooksHandler {
	return &HooksHandler{hooks: hooks}
}

type SignupHookRequestDTO struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	DiscountCode string `json:"discount_code"`
	Method       string `json:"method"`
}

// Signup forwards a registration event. Delivery is fire-and-forget; the
// identity service only needs an ack.
func (h *HooksHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupHookRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		respondError(w, http.StatusBadRequest, "invalid_email", "a valid email address is required")
		return
	}
	if req.Method == "" {
		req.Method = "email"
	}

	go h.hooks.Signup(context.WithoutCancel(r.Context()), req.Email, req.Name, req.DiscountCode, req.Method)
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
