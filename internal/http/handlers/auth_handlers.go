package handlers

import (
	"net/http"

	"github.com/circlehq/circles-api/internal/http/response"
)

// RequestOTP handles POST /v1/auth/otp
func (h *Handlers) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.authService.RequestOTP(r.Context(), req.Email); err != nil {
		response.FromError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// VerifyOTP handles POST /v1/auth/verify
func (h *Handlers) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := h.authService.Verify(r.Context(), req.Email, req.Code)
	if err != nil {
		response.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
