package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	custommw "github.com/circlehq/circles-api/internal/http/middleware"
	"github.com/circlehq/circles-api/internal/http/response"
	"github.com/circlehq/circles-api/internal/service"
	"github.com/circlehq/circles-api/pkg/config"
)

type Handlers struct {
	authService        service.AuthService
	registryService    service.RegistryService
	reservationService service.ReservationService
	incidentService    service.IncidentService
	reputationService  service.ReputationService
	feedService        service.FeedService
	pollService        service.PollService
	communityService   service.CommunityService
	guardService       service.GuardService
	config             *config.Config
}

func New(
	authService service.AuthService,
	registryService service.RegistryService,
	reservationService service.ReservationService,
	incidentService service.IncidentService,
	reputationService service.ReputationService,
	feedService service.FeedService,
	pollService service.PollService,
	communityService service.CommunityService,
	guardService service.GuardService,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		authService:        authService,
		registryService:    registryService,
		reservationService: reservationService,
		incidentService:    incidentService,
		reputationService:  reputationService,
		feedService:        feedService,
		pollService:        pollService,
		communityService:   communityService,
		guardService:       guardService,
		config:             cfg,
	}
}

// Routes mounts the full v1 API. Everything except auth requires a
// bearer token.
func (h *Handlers) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/auth/otp", h.RequestOTP)
	r.Post("/auth/verify", h.VerifyOTP)
	r.Post("/users", h.CreateUser)

	r.Group(func(r chi.Router) {
		r.Use(custommw.RequireUser(h.config.Auth.JWTSecret))

		r.Get("/users", h.ListUsers)
		r.Get("/users/me/circles", h.ListMyCircles)

		r.Post("/circles", h.CreateCircle)
		r.Get("/circles", h.ListCircles)
		r.Post("/circles/{id}/join", h.JoinCircle)
		r.Post("/circles/{id}/members", h.AddMember)
		r.Get("/circles/{id}/members", h.ListMembers)
		r.Post("/circles/{id}/invite", h.InviteMember)
		r.Post("/members/{id}/verify", h.VerifyMember)

		r.Get("/circles/{id}/amenities", h.ListAmenities)
		r.Post("/circles/{id}/amenities", h.CreateAmenity)
		r.Post("/bookings", h.CreateBooking)
		r.Get("/bookings", h.ListBookings)
		r.Get("/admin/bookings", h.AdminListBookings)
		r.Post("/bookings/{id}/status", h.UpdateBookingStatus)
		r.Post("/bookings/{id}/checkin", h.CheckInBooking)
		r.Post("/bookings/{id}/cancel", h.CancelBooking)
		r.Get("/bookings/{id}/ics", h.BookingCalendar)

		r.Post("/incidents", h.CreateIncident)
		r.Get("/incidents", h.ListIncidents)
		r.Get("/admin/incidents", h.AdminListIncidents)
		r.Post("/incidents/{id}/advance", h.AdvanceIncident)

		r.Post("/posts", h.CreatePost)
		r.Get("/feed", h.GetFeed)
		r.Post("/posts/{id}/react", h.ReactToPost)
		r.Post("/asks/{id}/claim", h.ClaimAsk)
		r.Post("/asks/{id}/thank", h.ThankAsk)
		r.Get("/circles/{id}/stage", h.GetStage)
		r.Get("/circles/{id}/reputation", h.GetReputation)

		r.Post("/report", h.CreateReport)
		r.Post("/block", h.CreateBlock)
		r.Get("/reports", h.ListReports)
		r.Get("/blocks", h.ListBlocks)
		r.Post("/admin/cleanup-ttl", h.CleanupTTL)
		r.Post("/now-cell", h.SwitchNowCell)

		r.Post("/circles/{id}/polls", h.CreatePoll)
		r.Get("/circles/{id}/polls", h.ListPolls)
		r.Post("/polls/{id}/vote", h.VotePoll)

		r.Post("/circles/{id}/events", h.CreateEvent)
		r.Get("/circles/{id}/events", h.ListEvents)
		r.Post("/events/{id}/rsvp", h.RSVPEvent)
		r.Get("/events", h.ListMyEvents)

		r.Post("/circles/{id}/announcements", h.CreateAnnouncement)
		r.Get("/circles/{id}/announcements", h.ListAnnouncements)
	})

	return r
}

// Helper functions for common response patterns
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return false
	}
	return true
}

func decodeOptionalJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	return json.NewDecoder(r.Body).Decode(dst)
}

func parseLimit(r *http.Request, fallback int) int {
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			return n
		}
	}
	return fallback
}
