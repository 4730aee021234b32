package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/circlehq/circles-api/internal/domain"
	"github.com/circlehq/circles-api/internal/repo"
)

type incidentRepo struct {
	mu        sync.RWMutex
	incidents map[string]*domain.Incident
	order     []string // newest first
}

func NewIncidentRepo() repo.IncidentRepo {
	return &incidentRepo{incidents: make(map[string]*domain.Incident)}
}

func (r *incidentRepo) Create(_ context.Context, i *domain.Incident) (*domain.Incident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *i
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	stored.Status = domain.IncidentOpen

	r.incidents[stored.ID] = &stored
	r.order = append([]string{stored.ID}, r.order...)

	out := stored
	return &out, nil
}

func (r *incidentRepo) GetByID(_ context.Context, id string) (*domain.Incident, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.incidents[id]
	if !ok {
		return nil, nil
	}
	out := *i
	return &out, nil
}

func (r *incidentRepo) List(_ context.Context, f repo.IncidentFilter) ([]domain.Incident, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []domain.Incident
	for _, id := range r.order {
		i := r.incidents[id]
		if f.CircleID != "" && i.CircleID != f.CircleID {
			continue
		}
		if f.ReporterID != "" && i.ReporterID != f.ReporterID {
			continue
		}
		if f.Status != nil && i.Status != *f.Status {
			continue
		}
		if f.MinSeverity != nil && i.Severity.Rank() < f.MinSeverity.Rank() {
			continue
		}
		items = append(items, *i)
	}
	return items, nil
}

func (r *incidentRepo) Advance(_ context.Context, id string, now time.Time) (*domain.Incident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.incidents[id]
	if !ok {
		return nil, nil
	}

	next := i.NextStatus()
	if next == domain.IncidentResolved && i.Status != domain.IncidentResolved {
		t := now
		i.ResolvedAt = &t
	}
	i.Status = next

	out := *i
	return &out, nil
}
