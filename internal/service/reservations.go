package service

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/circlehq/circles-api/internal/domain"
	"github.com/circlehq/circles-api/internal/repo"
	"github.com/circlehq/circles-api/pkg/events"
	"github.com/circlehq/circles-api/pkg/logger"
)

// ReservationService manages amenity bookings: creation under the
// approval policy, the status lifecycle, check-in, and calendar export.
type ReservationService interface {
	CreateAmenity(ctx context.Context, a *domain.Amenity, actingUserID string) (*domain.Amenity, error)
	ListAmenities(ctx context.Context, circleID string) ([]domain.Amenity, error)
	CreateBooking(ctx context.Context, req domain.BookingCreateReq) (*domain.Booking, error)
	GetBooking(ctx context.Context, id string) (*domain.Booking, error)
	ListMine(ctx context.Context, userID string) ([]domain.Booking, error)
	ListAdmin(ctx context.Context, actingUserID string, f repo.BookingFilter) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, bookingID string, to domain.BookingStatus, actingUserID string) (*domain.Booking, error)
	CheckIn(ctx context.Context, bookingID, actingUserID string) (*domain.Booking, error)
	CalendarURI(ctx context.Context, bookingID string) (string, error)
}

type reservationService struct {
	amenityRepo repo.AmenityRepo
	bookingRepo repo.BookingRepo
	registry    RegistryService
	eventBus    events.EventBus
	now         func() time.Time
}

func NewReservationService(
	amenityRepo repo.AmenityRepo,
	bookingRepo repo.BookingRepo,
	registry RegistryService,
	eventBus events.EventBus,
) ReservationService {
	return &reservationService{
		amenityRepo: amenityRepo,
		bookingRepo: bookingRepo,
		registry:    registry,
		eventBus:    eventBus,
		now:         time.Now,
	}
}

func (s *reservationService) CreateAmenity(ctx context.Context, a *domain.Amenity, actingUserID string) (*domain.Amenity, error) {
	if a.CircleID == "" || a.Name == "" {
		return nil, domain.Validationf("circle_id and name required")
	}

	admin, err := s.registry.IsAdmin(ctx, actingUserID, a.CircleID)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, domain.ErrPermissionDenied
	}

	return s.amenityRepo.Create(ctx, a)
}

func (s *reservationService) ListAmenities(ctx context.Context, circleID string) ([]domain.Amenity, error) {
	return s.amenityRepo.ListByCircle(ctx, circleID)
}

func (s *reservationService) CreateBooking(ctx context.Context, req domain.BookingCreateReq) (*domain.Booking, error) {
	if req.CircleID == "" || req.AmenityID == "" || req.UserID == "" {
		return nil, domain.Validationf("circle_id, amenity_id and user_id required")
	}
	if req.StartAt.IsZero() || req.EndAt.IsZero() {
		return nil, domain.Validationf("start_at and end_at required")
	}
	if !req.EndAt.After(req.StartAt) {
		return nil, domain.Validationf("end_at must be after start_at")
	}

	amenity, err := s.amenityRepo.GetByID(ctx, req.AmenityID)
	if err != nil {
		return nil, err
	}
	if amenity == nil || amenity.CircleID != req.CircleID {
		return nil, domain.ErrNotFound
	}

	member, err := s.registry.IsMember(ctx, req.UserID, req.CircleID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, domain.ErrNotMember
	}

	booking, err := s.bookingRepo.Create(ctx, &domain.Booking{
		CircleID:  req.CircleID,
		AmenityID: req.AmenityID,
		UserID:    req.UserID,
		StartAt:   req.StartAt,
		EndAt:     req.EndAt,
	}, amenity.RequiresApproval)
	if err != nil {
		return nil, err
	}

	if err := s.eventBus.Publish(ctx, events.BookingCreated, events.BookingCreatedEvent{
		BookingID: booking.ID,
		CircleID:  booking.CircleID,
		AmenityID: booking.AmenityID,
		UserID:    booking.UserID,
		StartAt:   booking.StartAt,
		EndAt:     booking.EndAt,
		Status:    string(booking.Status),
	}); err != nil {
		logger.ErrorContext(ctx, "Failed to publish booking created event", "error", err, "booking_id", booking.ID)
	}

	return booking, nil
}

func (s *reservationService) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

func (s *reservationService) ListMine(ctx context.Context, userID string) ([]domain.Booking, error) {
	return s.bookingRepo.List(ctx, repo.BookingFilter{UserID: userID})
}

// ListAdmin serves the management view. Scoping to a circle requires an
// administrative role in that circle.
func (s *reservationService) ListAdmin(ctx context.Context, actingUserID string, f repo.BookingFilter) ([]domain.Booking, error) {
	if f.CircleID != "" {
		admin, err := s.registry.IsAdmin(ctx, actingUserID, f.CircleID)
		if err != nil {
			return nil, err
		}
		if !admin {
			return nil, domain.ErrPermissionDenied
		}
	}
	return s.bookingRepo.List(ctx, f)
}

func (s *reservationService) UpdateStatus(ctx context.Context, bookingID string, to domain.BookingStatus, actingUserID string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, domain.ErrNotFound
	}

	admin, err := s.registry.IsAdmin(ctx, actingUserID, booking.CircleID)
	if err != nil {
		return nil, err
	}

	switch to {
	case domain.BookingApproved, domain.BookingRejected:
		if !admin {
			return nil, domain.ErrPermissionDenied
		}
	case domain.BookingCanceled:
		if !admin && booking.UserID != actingUserID {
			return nil, domain.ErrPermissionDenied
		}
	default:
		return nil, domain.Validationf("status must be APPROVED, REJECTED or CANCELED")
	}

	from := booking.Status
	updated, err := s.bookingRepo.Transition(ctx, bookingID, to, actingUserID, s.now())
	if err != nil {
		return nil, err
	}

	subject := events.BookingStatusChanged
	if to == domain.BookingCanceled {
		subject = events.BookingCanceled
	}
	if err := s.eventBus.Publish(ctx, subject, events.BookingStatusChangedEvent{
		BookingID: updated.ID,
		CircleID:  updated.CircleID,
		From:      string(from),
		To:        string(updated.Status),
		ActorID:   actingUserID,
	}); err != nil {
		logger.ErrorContext(ctx, "Failed to publish booking status event", "error", err, "booking_id", updated.ID)
	}

	return updated, nil
}

func (s *reservationService) CheckIn(ctx context.Context, bookingID, actingUserID string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, domain.ErrNotFound
	}
	if booking.UserID != actingUserID {
		return nil, domain.ErrPermissionDenied
	}

	return s.bookingRepo.CheckIn(ctx, bookingID, s.now())
}

// CalendarURI renders the booking as a data: URI holding a minimal
// VCALENDAR, importable by any calendar client.
func (s *reservationService) CalendarURI(ctx context.Context, bookingID string) (string, error) {
	booking, err := s.GetBooking(ctx, bookingID)
	if err != nil {
		return "", err
	}

	amenityName := "Amenity"
	if a, err := s.amenityRepo.GetByID(ctx, booking.AmenityID); err == nil && a != nil {
		amenityName = a.Name
	}

	const stamp = "20060102T150405Z"
	ics := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Circles//Bookings//EN",
		"BEGIN:VEVENT",
		"UID:" + booking.ID,
		"DTSTART:" + booking.StartAt.UTC().Format(stamp),
		"DTEND:" + booking.EndAt.UTC().Format(stamp),
		"SUMMARY:" + amenityName + " booking",
		"END:VEVENT",
		"END:VCALENDAR",
	}, "\n")

	return "data:text/calendar;charset=utf8," + url.QueryEscape(ics), nil
}
