package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/circlehq/circles-api/internal/domain"
	custommw "github.com/circlehq/circles-api/internal/http/middleware"
	"github.com/circlehq/circles-api/internal/http/response"
)

// CreateUser handles POST /v1/users
func (h *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		DisplayName string `json:"display_name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.registryService.RegisterUser(r.Context(), req.Email, req.DisplayName)
	if err != nil {
		response.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// ListUsers handles GET /v1/users
func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.registryService.ListUsers(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// ListMyCircles handles GET /v1/users/me/circles
func (h *Handlers) ListMyCircles(w http.ResponseWriter, r *http.Request) {
	circles, err := h.registryService.ListUserCircles(r.Context(), custommw.UserID(r))
	if err != nil {
		response.FromError(w, err)
		return
	}
	if circles == nil {
		circles = []domain.Circle{}
	}
	writeJSON(w, http.StatusOK, circles)
}

// CreateCircle handles POST /v1/circles
func (h *Handlers) CreateCircle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	circle, err := h.registryService.CreateCircle(r.Context(), req.Name, domain.CircleType(req.Type), custommw.UserID(r))
	if err != nil {
		response.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, circle)
}

// ListCircles handles GET /v1/circles
func (h *Handlers) ListCircles(w http.ResponseWriter, r *http.Request) {
	circles, err := h.registryService.ListCircles(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, circles)
}

// JoinCircle handles POST /v1/circles/{id}/join
func (h *Handlers) JoinCircle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Role string `json:"role"`
	}
	// Body is optional; default role applies.
	_ = decodeOptionalJSON(r, &req)

	m, created, err := h.registryService.JoinCircle(r.Context(), chi.URLParam(r, "id"), custommw.UserID(r), domain.Role(req.Role))
	if err != nil {
		response.FromError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, m)
}

// AddMember handles POST /v1/circles/{id}/members
func (h *Handlers) AddMember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
		Role   string `json:"role"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" {
		response.BadRequest(w, "user_id required")
		return
	}

	role := domain.Role(req.Role)
	if role == "" {
		role = domain.RoleResident
	}

	m, err := h.registryService.AddMember(r.Context(), chi.URLParam(r, "id"), custommw.UserID(r), req.UserID, role)
	if err != nil {
		response.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, m)
}

// ListMembers handles GET /v1/circles/{id}/members
func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.registryService.ListMembers(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

// InviteMember handles POST /v1/circles/{id}/invite
func (h *Handlers) InviteMember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	invite, err := h.registryService.InviteMember(r.Context(), chi.URLParam(r, "id"), custommw.UserID(r), req.Email)
	if err != nil {
		response.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, invite)
}

// VerifyMember handles POST /v1/members/{id}/verify
func (h *Handlers) VerifyMember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Verified *bool `json:"verified"`
	}
	_ = decodeOptionalJSON(r, &req)

	verified := true
	if req.Verified != nil {
		verified = *req.Verified
	}

	m, err := h.registryService.SetVerified(r.Context(), chi.URLParam(r, "id"), verified, custommw.UserID(r))
	if err != nil {
		response.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, m)
}

// GetReputation handles GET /v1/circles/{id}/reputation
func (h *Handlers) GetReputation(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		userID = custommw.UserID(r)
	}

	view, err := h.reputationService.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}
