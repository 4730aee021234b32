package service

import (
	"context"
	"time"

	"github.com/circlehq/circles-api/internal/domain"
	"github.com/circlehq/circles-api/internal/repo"
)

// CommunityService covers circle happenings outside the feed proper:
// scheduled events with RSVPs and pinned announcements.
type CommunityService interface {
	CreateEvent(ctx context.Context, e *domain.Event) (*domain.Event, error)
	GetEvent(ctx context.Context, id string) (*domain.EventWithRSVPs, error)
	ListEvents(ctx context.Context, circleID string) ([]domain.EventWithRSVPs, error)
	RSVP(ctx context.Context, eventID, userID string, status domain.RSVPStatus) (rsvp *domain.EventRSVP, created bool, err error)
	ListMyEvents(ctx context.Context, userID string) ([]domain.Event, error)
	CreateAnnouncement(ctx context.Context, a *domain.Announcement, actingUserID string) (*domain.Announcement, error)
	ListAnnouncements(ctx context.Context, circleID string) ([]domain.Announcement, error)
}

type communityService struct {
	communityRepo repo.CommunityRepo
	registry      RegistryService
	now           func() time.Time
}

func NewCommunityService(communityRepo repo.CommunityRepo, registry RegistryService) CommunityService {
	return &communityService{
		communityRepo: communityRepo,
		registry:      registry,
		now:           time.Now,
	}
}

func (s *communityService) CreateEvent(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	if e.CircleID == "" || e.Title == "" {
		return nil, domain.Validationf("circle_id and title required")
	}
	if e.StartsAt.IsZero() || e.EndsAt.IsZero() || !e.EndsAt.After(e.StartsAt) {
		return nil, domain.Validationf("ends_at must be after starts_at")
	}

	member, err := s.registry.IsMember(ctx, e.CreatedBy, e.CircleID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, domain.ErrNotMember
	}

	return s.communityRepo.CreateEvent(ctx, e)
}

func (s *communityService) GetEvent(ctx context.Context, id string) (*domain.EventWithRSVPs, error) {
	e, err := s.communityRepo.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	return s.withRSVPs(ctx, e)
}

func (s *communityService) ListEvents(ctx context.Context, circleID string) ([]domain.EventWithRSVPs, error) {
	eventsList, err := s.communityRepo.ListEventsByCircle(ctx, circleID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.EventWithRSVPs, 0, len(eventsList))
	for i := range eventsList {
		ewr, err := s.withRSVPs(ctx, &eventsList[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *ewr)
	}
	return out, nil
}

// RSVP upserts the caller's response; re-responding updates in place.
func (s *communityService) RSVP(ctx context.Context, eventID, userID string, status domain.RSVPStatus) (*domain.EventRSVP, bool, error) {
	if _, ok := domain.ParseRSVPStatus(string(status)); !ok {
		return nil, false, domain.Validationf("status must be GOING, INTERESTED or DECLINED")
	}

	e, err := s.communityRepo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, false, err
	}
	if e == nil {
		return nil, false, domain.ErrNotFound
	}

	member, err := s.registry.IsMember(ctx, userID, e.CircleID)
	if err != nil {
		return nil, false, err
	}
	if !member {
		return nil, false, domain.ErrNotMember
	}

	return s.communityRepo.UpsertRSVP(ctx, eventID, userID, status, s.now())
}

func (s *communityService) ListMyEvents(ctx context.Context, userID string) ([]domain.Event, error) {
	return s.communityRepo.ListEventsRSVPedBy(ctx, userID)
}

func (s *communityService) CreateAnnouncement(ctx context.Context, a *domain.Announcement, actingUserID string) (*domain.Announcement, error) {
	if a.CircleID == "" || a.Title == "" {
		return nil, domain.Validationf("circle_id and title required")
	}

	admin, err := s.registry.IsAdmin(ctx, actingUserID, a.CircleID)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, domain.ErrPermissionDenied
	}

	return s.communityRepo.CreateAnnouncement(ctx, a)
}

func (s *communityService) ListAnnouncements(ctx context.Context, circleID string) ([]domain.Announcement, error) {
	return s.communityRepo.ListAnnouncements(ctx, circleID)
}

func (s *communityService) withRSVPs(ctx context.Context, e *domain.Event) (*domain.EventWithRSVPs, error) {
	rsvps, err := s.communityRepo.ListRSVPs(ctx, e.ID)
	if err != nil {
		return nil, err
	}

	counts := map[domain.RSVPStatus]int{
		domain.RSVPGoing:      0,
		domain.RSVPInterested: 0,
		domain.RSVPDeclined:   0,
	}
	for _, r := range rsvps {
		counts[r.Status]++
	}

	return &domain.EventWithRSVPs{Event: *e, RSVPCounts: counts}, nil
}
