package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/circlehq/circles-api/internal/domain"
	"github.com/circlehq/circles-api/internal/repo"
)

type communityRepo struct {
	mu            sync.RWMutex
	events        map[string]*domain.Event
	eventOrder    []string // newest first
	rsvps         map[string][]domain.EventRSVP // event id -> rsvps
	announcements map[string][]domain.Announcement // circle id -> newest first
}

func NewCommunityRepo() repo.CommunityRepo {
	return &communityRepo{
		events:        make(map[string]*domain.Event),
		rsvps:         make(map[string][]domain.EventRSVP),
		announcements: make(map[string][]domain.Announcement),
	}
}

func (r *communityRepo) CreateEvent(_ context.Context, e *domain.Event) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *e
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	r.events[stored.ID] = &stored
	r.eventOrder = append([]string{stored.ID}, r.eventOrder...)

	out := stored
	return &out, nil
}

func (r *communityRepo) GetEvent(_ context.Context, id string) (*domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.events[id]
	if !ok {
		return nil, nil
	}
	out := *e
	return &out, nil
}

func (r *communityRepo) ListEventsByCircle(_ context.Context, circleID string) ([]domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []domain.Event
	for _, id := range r.eventOrder {
		if e := r.events[id]; e.CircleID == circleID {
			items = append(items, *e)
		}
	}
	return items, nil
}

func (r *communityRepo) ListRSVPs(_ context.Context, eventID string) ([]domain.EventRSVP, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.EventRSVP(nil), r.rsvps[eventID]...), nil
}

func (r *communityRepo) UpsertRSVP(_ context.Context, eventID, userID string, status domain.RSVPStatus, now time.Time) (*domain.EventRSVP, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.rsvps[eventID]
	for i := range list {
		if list[i].UserID == userID {
			list[i].Status = status
			list[i].UpdatedAt = now
			out := list[i]
			return &out, false, nil
		}
	}

	rsvp := domain.EventRSVP{
		ID:        uuid.NewString(),
		EventID:   eventID,
		UserID:    userID,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.rsvps[eventID] = append(list, rsvp)

	out := rsvp
	return &out, true, nil
}

func (r *communityRepo) ListEventsRSVPedBy(_ context.Context, userID string) ([]domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	for eventID, list := range r.rsvps {
		for _, v := range list {
			if v.UserID == userID {
				seen[eventID] = true
				break
			}
		}
	}

	var items []domain.Event
	for _, id := range r.eventOrder {
		if seen[id] {
			items = append(items, *r.events[id])
		}
	}
	return items, nil
}

func (r *communityRepo) CreateAnnouncement(_ context.Context, a *domain.Announcement) (*domain.Announcement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *a
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	list := r.announcements[stored.CircleID]
	if stored.Pinned {
		for i := range list {
			list[i].Pinned = false
		}
	}
	r.announcements[stored.CircleID] = append([]domain.Announcement{stored}, list...)

	out := stored
	return &out, nil
}

func (r *communityRepo) ListAnnouncements(_ context.Context, circleID string) ([]domain.Announcement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Announcement(nil), r.announcements[circleID]...), nil
}
