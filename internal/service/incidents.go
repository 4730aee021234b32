package service

import (
	"context"
	"time"

	"github.com/circlehq/circles-api/internal/domain"
	"github.com/circlehq/circles-api/internal/repo"
	"github.com/circlehq/circles-api/pkg/events"
	"github.com/circlehq/circles-api/pkg/logger"
)

// IncidentService tracks operational incidents through their one-way
// lifecycle: OPEN, IN_PROGRESS, RESOLVED.
type IncidentService interface {
	Create(ctx context.Context, inc *domain.Incident) (*domain.Incident, error)
	Get(ctx context.Context, id string) (*domain.Incident, error)
	Advance(ctx context.Context, id, actingUserID string) (*domain.Incident, error)
	ListMine(ctx context.Context, userID string) ([]domain.Incident, error)
	ListAdmin(ctx context.Context, actingUserID string, f repo.IncidentFilter) ([]domain.Incident, error)
}

type incidentService struct {
	incidentRepo repo.IncidentRepo
	registry     RegistryService
	eventBus     events.EventBus
	now          func() time.Time
}

func NewIncidentService(incidentRepo repo.IncidentRepo, registry RegistryService, eventBus events.EventBus) IncidentService {
	return &incidentService{
		incidentRepo: incidentRepo,
		registry:     registry,
		eventBus:     eventBus,
		now:          time.Now,
	}
}

func (s *incidentService) Create(ctx context.Context, inc *domain.Incident) (*domain.Incident, error) {
	if inc.CircleID == "" || inc.Type == "" || inc.Description == "" {
		return nil, domain.Validationf("circle_id, type and description required")
	}
	if _, ok := domain.ParseSeverity(string(inc.Severity)); !ok {
		return nil, domain.Validationf("severity must be LOW, MEDIUM, HIGH or CRITICAL")
	}

	member, err := s.registry.IsMember(ctx, inc.ReporterID, inc.CircleID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, domain.ErrNotMember
	}

	created, err := s.incidentRepo.Create(ctx, inc)
	if err != nil {
		return nil, err
	}

	if err := s.eventBus.Publish(ctx, events.IncidentCreated, events.IncidentEvent{
		IncidentID: created.ID,
		CircleID:   created.CircleID,
		Severity:   string(created.Severity),
		Status:     string(created.Status),
	}); err != nil {
		logger.ErrorContext(ctx, "Failed to publish incident created event", "error", err, "incident_id", created.ID)
	}

	return created, nil
}

func (s *incidentService) Get(ctx context.Context, id string) (*domain.Incident, error) {
	inc, err := s.incidentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inc == nil {
		return nil, domain.ErrNotFound
	}
	return inc, nil
}

// Advance moves the incident one step forward. Only administrative roles
// in the incident's circle may drive the lifecycle.
func (s *incidentService) Advance(ctx context.Context, id, actingUserID string) (*domain.Incident, error) {
	inc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	admin, err := s.registry.IsAdmin(ctx, actingUserID, inc.CircleID)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, domain.ErrPermissionDenied
	}

	updated, err := s.incidentRepo.Advance(ctx, id, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.eventBus.Publish(ctx, events.IncidentAdvanced, events.IncidentEvent{
		IncidentID: updated.ID,
		CircleID:   updated.CircleID,
		Severity:   string(updated.Severity),
		Status:     string(updated.Status),
	}); err != nil {
		logger.ErrorContext(ctx, "Failed to publish incident advanced event", "error", err, "incident_id", updated.ID)
	}

	return updated, nil
}

func (s *incidentService) ListMine(ctx context.Context, userID string) ([]domain.Incident, error) {
	return s.incidentRepo.List(ctx, repo.IncidentFilter{ReporterID: userID})
}

func (s *incidentService) ListAdmin(ctx context.Context, actingUserID string, f repo.IncidentFilter) ([]domain.Incident, error) {
	if f.CircleID != "" {
		admin, err := s.registry.IsAdmin(ctx, actingUserID, f.CircleID)
		if err != nil {
			return nil, err
		}
		if !admin {
			return nil, domain.ErrPermissionDenied
		}
	}
	return s.incidentRepo.List(ctx, f)
}
