package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/circlehq/circles-api/internal/domain"
	custommw "github.com/circlehq/circles-api/internal/http/middleware"
	"github.com/circlehq/circles-api/internal/http/response"
	"github.com/circlehq/circles-api/internal/repo"
)

// ListAmenities handles GET /v1/circles/{id}/amenities
func (h *Handlers) ListAmenities(w http.ResponseWriter, r *http.Request) {
	amenities, err := h.reservationService.ListAmenities(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, amenities)
}

// CreateAmenity handles POST /v1/circles/{id}/amenities
func (h *Handlers) CreateAmenity(w http.ResponseWriter, r *http.Request) {
	var req domain.Amenity
	if !decodeJSON(w, r, &req) {
		return
	}
	req.CircleID = chi.URLParam(r, "id")

	amenity, err := h.reservationService.CreateAmenity(r.Context(), &req, custommw.UserID(r))
	if err != nil {
		response.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, amenity)
}

// CreateBooking handles POST /v1/bookings
func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req domain.BookingCreateReq
	if !decodeJSON(w, r, &req) {
		return
	}
	req.UserID = custommw.UserID(r)

	booking, err := h.reservationService.CreateBooking(r.Context(), req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, booking)
}

// ListBookings handles GET /v1/bookings?mine=1
func (h *Handlers) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.reservationService.ListMine(r.Context(), custommw.UserID(r))
	if err != nil {
		response.FromError(w, err)
		return
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	writeJSON(w, http.StatusOK, bookings)
}

// AdminListBookings handles GET /v1/admin/bookings
func (h *Handlers) AdminListBookings(w http.ResponseWriter, r *http.Request) {
	f := repo.BookingFilter{
		CircleID:  r.URL.Query().Get("circle_id"),
		AmenityID: r.URL.Query().Get("amenity_id"),
		UserID:    r.URL.Query().Get("user_id"),
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		st, ok := domain.ParseBookingStatus(raw)
		if !ok {
			response.BadRequest(w, "Invalid status parameter")
			return
		}
		f.Status = &st
	}

	bookings, err := h.reservationService.ListAdmin(r.Context(), custommw.UserID(r), f)
	if err != nil {
		response.FromError(w, err)
		return
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	writeJSON(w, http.StatusOK, bookings)
}

// UpdateBookingStatus handles POST /v1/bookings/{id}/status
func (h *Handlers) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	status, ok := domain.ParseBookingStatus(req.Status)
	if !ok {
		response.BadRequest(w, "Invalid status parameter")
		return
	}

	booking, err := h.reservationService.UpdateStatus(r.Context(), chi.URLParam(r, "id"), status, custommw.UserID(r))
	if err != nil {
		response.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, booking)
}

// CheckInBooking handles POST /v1/bookings/{id}/checkin
func (h *Handlers) CheckInBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.reservationService.CheckIn(r.Context(), chi.URLParam(r, "id"), custommw.UserID(r))
	if err != nil {
		response.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// CancelBooking handles POST /v1/bookings/{id}/cancel
func (h *Handlers) CancelBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.reservationService.UpdateStatus(r.Context(), chi.URLParam(r, "id"), domain.BookingCanceled, custommw.UserID(r))
	if err != nil {
		response.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// BookingCalendar handles GET /v1/bookings/{id}/ics
func (h *Handlers) BookingCalendar(w http.ResponseWriter, r *http.Request) {
	uri, err := h.reservationService.CalendarURI(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"ics": uri})
}
