package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/circlehq/circles-api/internal/domain"
	custommw "github.com/circlehq/circles-api/internal/http/middleware"
	"github.com/circlehq/circles-api/internal/http/response"
)

// CreatePoll handles POST /v1/circles/{id}/polls
func (h *Handlers) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string   `json:"question"`
		Options  []string `json:"options"`
		Multi    bool     `json:"multi"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	poll, err := h.pollService.Create(r.Context(), chi.URLParam(r, "id"), custommw.UserID(r), req.Question, req.Options, req.Multi)
	if err != nil {
		response.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, poll)
}

// ListPolls handles GET /v1/circles/{id}/polls
func (h *Handlers) ListPolls(w http.ResponseWriter, r *http.Request) {
	polls, err := h.pollService.ListByCircle(r.Context(), chi.URLParam(r, "id"), custommw.UserID(r))
	if err != nil {
		response.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, polls)
}

// VotePoll handles POST /v1/polls/{id}/vote
func (h *Handlers) VotePoll(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OptionID string `json:"option_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.pollService.Vote(r.Context(), chi.URLParam(r, "id"), req.OptionID, custommw.UserID(r)); err != nil {
		response.FromError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateEvent handles POST /v1/circles/{id}/events
func (h *Handlers) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title        string    `json:"title"`
		StartsAt     time.Time `json:"starts_at"`
		EndsAt       time.Time `json:"ends_at"`
		LocationHint string    `json:"location_hint"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	event, err := h.communityService.CreateEvent(r.Context(), &domain.Event{
		CircleID:     chi.URLParam(r, "id"),
		Title:        req.Title,
		StartsAt:     req.StartsAt,
		EndsAt:       req.EndsAt,
		LocationHint: req.LocationHint,
		CreatedBy:    custommw.UserID(r),
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, event)
}

// ListEvents handles GET /v1/circles/{id}/events
func (h *Handlers) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.communityService.ListEvents(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// RSVPEvent handles POST /v1/events/{id}/rsvp
func (h *Handlers) RSVPEvent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	rsvp, created, err := h.communityService.RSVP(r.Context(), chi.URLParam(r, "id"), custommw.UserID(r), domain.RSVPStatus(req.Status))
	if err != nil {
		response.FromError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, rsvp)
}

// ListMyEvents handles GET /v1/events?mine=1
func (h *Handlers) ListMyEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.communityService.ListMyEvents(r.Context(), custommw.UserID(r))
	if err != nil {
		response.FromError(w, err)
		return
	}
	if events == nil {
		events = []domain.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

// CreateAnnouncement handles POST /v1/circles/{id}/announcements
func (h *Handlers) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title  string `json:"title"`
		BodyMD string `json:"body_md"`
		Pinned bool   `json:"pinned"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	announcement, err := h.communityService.CreateAnnouncement(r.Context(), &domain.Announcement{
		CircleID: chi.URLParam(r, "id"),
		Title:    req.Title,
		BodyMD:   req.BodyMD,
		Pinned:   req.Pinned,
	}, custommw.UserID(r))
	if err != nil {
		response.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, announcement)
}

// ListAnnouncements handles GET /v1/circles/{id}/announcements
func (h *Handlers) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
	announcements, err := h.communityService.ListAnnouncements(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, announcements)
}
