package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/circlehq/circles-api/internal/domain"
	"github.com/circlehq/circles-api/internal/repo"
)

type amenityRepo struct {
	mu        sync.RWMutex
	amenities map[string]*domain.Amenity
	order     []string
}

func NewAmenityRepo() repo.AmenityRepo {
	return &amenityRepo{amenities: make(map[string]*domain.Amenity)}
}

func (r *amenityRepo) Create(_ context.Context, a *domain.Amenity) (*domain.Amenity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *a
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	r.amenities[stored.ID] = &stored
	r.order = append(r.order, stored.ID)

	out := stored
	return &out, nil
}

func (r *amenityRepo) GetByID(_ context.Context, id string) (*domain.Amenity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.amenities[id]
	if !ok {
		return nil, nil
	}
	out := *a
	return &out, nil
}

func (r *amenityRepo) ListByCircle(_ context.Context, circleID string) ([]domain.Amenity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []domain.Amenity
	for _, id := range r.order {
		if a := r.amenities[id]; a.CircleID == circleID {
			items = append(items, *a)
		}
	}
	return items, nil
}

type bookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*domain.Booking
	order    []string
}

func NewBookingRepo() repo.BookingRepo {
	return &bookingRepo{bookings: make(map[string]*domain.Booking)}
}

// Create runs the overlap scan and the insert under one lock so two
// concurrent requests for the same slot cannot both resolve to APPROVED.
func (r *bookingRepo) Create(_ context.Context, b *domain.Booking, requiresApproval bool) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	overlap := false
	for _, other := range r.bookings {
		if other.CircleID != b.CircleID || other.AmenityID != b.AmenityID {
			continue
		}
		if other.Status.Active() && other.Overlaps(b.StartAt, b.EndAt) {
			overlap = true
			break
		}
	}

	stored := *b
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	stored.Status = domain.ResolveBookingStatus(requiresApproval, overlap)

	r.bookings[stored.ID] = &stored
	r.order = append(r.order, stored.ID)

	out := stored
	return &out, nil
}

func (r *bookingRepo) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	out := *b
	return &out, nil
}

func (r *bookingRepo) List(_ context.Context, f repo.BookingFilter) ([]domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var items []domain.Booking
	for _, id := range r.order {
		b := r.bookings[id]
		if f.CircleID != "" && b.CircleID != f.CircleID {
			continue
		}
		if f.AmenityID != "" && b.AmenityID != f.AmenityID {
			continue
		}
		if f.UserID != "" && b.UserID != f.UserID {
			continue
		}
		if f.Status != nil && b.Status != *f.Status {
			continue
		}
		items = append(items, *b)
	}
	return items, nil
}

func (r *bookingRepo) Transition(_ context.Context, id string, to domain.BookingStatus, actorID string, now time.Time) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	if !b.CanTransition(to) {
		return nil, domain.ErrInvalidState
	}

	b.Status = to
	switch to {
	case domain.BookingApproved:
		b.ApprovedBy = actorID
		t := now
		b.ApprovedAt = &t
	case domain.BookingCanceled:
		t := now
		b.CanceledAt = &t
	}

	out := *b
	return &out, nil
}

func (r *bookingRepo) CheckIn(_ context.Context, id string, now time.Time) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	if b.CheckedInAt == nil {
		t := now
		b.CheckedInAt = &t
	}

	out := *b
	return &out, nil
}
