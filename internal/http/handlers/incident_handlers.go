package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/circlehq/circles-api/internal/domain"
	custommw "github.com/circlehq/circles-api/internal/http/middleware"
	"github.com/circlehq/circles-api/internal/http/response"
	"github.com/circlehq/circles-api/internal/repo"
)

// CreateIncident handles POST /v1/incidents
func (h *Handlers) CreateIncident(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CircleID    string `json:"circle_id"`
		Type        string `json:"type"`
		Severity    string `json:"severity"`
		Description string `json:"description"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	incident, err := h.incidentService.Create(r.Context(), &domain.Incident{
		CircleID:    req.CircleID,
		ReporterID:  custommw.UserID(r),
		Type:        req.Type,
		Severity:    domain.IncidentSeverity(req.Severity),
		Description: req.Description,
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, incident)
}

// ListIncidents handles GET /v1/incidents?mine=1
func (h *Handlers) ListIncidents(w http.ResponseWriter, r *http.Request) {
	incidents, err := h.incidentService.ListMine(r.Context(), custommw.UserID(r))
	if err != nil {
		response.FromError(w, err)
		return
	}
	if incidents == nil {
		incidents = []domain.Incident{}
	}
	writeJSON(w, http.StatusOK, incidents)
}

// AdminListIncidents handles GET /v1/admin/incidents
func (h *Handlers) AdminListIncidents(w http.ResponseWriter, r *http.Request) {
	f := repo.IncidentFilter{
		CircleID: r.URL.Query().Get("circle_id"),
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		st := domain.IncidentStatus(raw)
		f.Status = &st
	}
	if raw := r.URL.Query().Get("min_severity"); raw != "" {
		sev, ok := domain.ParseSeverity(raw)
		if !ok {
			response.BadRequest(w, "Invalid min_severity parameter")
			return
		}
		f.MinSeverity = &sev
	}

	incidents, err := h.incidentService.ListAdmin(r.Context(), custommw.UserID(r), f)
	if err != nil {
		response.FromError(w, err)
		return
	}
	if incidents == nil {
		incidents = []domain.Incident{}
	}
	writeJSON(w, http.StatusOK, incidents)
}

// AdvanceIncident handles POST /v1/incidents/{id}/advance
func (h *Handlers) AdvanceIncident(w http.ResponseWriter, r *http.Request) {
	incident, err := h.incidentService.Advance(r.Context(), chi.URLParam(r, "id"), custommw.UserID(r))
	if err != nil {
		response.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, incident)
}
