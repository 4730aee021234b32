package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/circlehq/circles-api/internal/domain"
	"github.com/circlehq/circles-api/internal/repo"
)

type circleRepo struct {
	mu      sync.RWMutex
	circles map[string]*domain.Circle
	order   []string
}

func NewCircleRepo() repo.CircleRepo {
	return &circleRepo{circles: make(map[string]*domain.Circle)}
}

func (r *circleRepo) Create(_ context.Context, c *domain.Circle) (*domain.Circle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *c
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	r.circles[stored.ID] = &stored
	r.order = append(r.order, stored.ID)

	out := stored
	return &out, nil
}

func (r *circleRepo) GetByID(_ context.Context, id string) (*domain.Circle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.circles[id]
	if !ok {
		return nil, nil
	}
	out := *c
	return &out, nil
}

func (r *circleRepo) List(_ context.Context) ([]domain.Circle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	circles := make([]domain.Circle, 0, len(r.order))
	for _, id := range r.order {
		circles = append(circles, *r.circles[id])
	}
	return circles, nil
}

type membershipRepo struct {
	mu          sync.RWMutex
	memberships map[string]*domain.Membership
	byPair      map[string]string // circleID+"/"+userID -> id
}

func NewMembershipRepo() repo.MembershipRepo {
	return &membershipRepo{
		memberships: make(map[string]*domain.Membership),
		byPair:      make(map[string]string),
	}
}

func pairKey(circleID, userID string) string { return circleID + "/" + userID }

func (r *membershipRepo) Create(_ context.Context, m *domain.Membership) (*domain.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Unique per (circle, user): return the existing membership unchanged.
	if id, exists := r.byPair[pairKey(m.CircleID, m.UserID)]; exists {
		out := *r.memberships[id]
		return &out, nil
	}

	stored := *m
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	r.memberships[stored.ID] = &stored
	r.byPair[pairKey(stored.CircleID, stored.UserID)] = stored.ID

	out := stored
	return &out, nil
}

func (r *membershipRepo) GetByID(_ context.Context, id string) (*domain.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.memberships[id]
	if !ok {
		return nil, nil
	}
	out := *m
	return &out, nil
}

func (r *membershipRepo) Get(_ context.Context, circleID, userID string) (*domain.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byPair[pairKey(circleID, userID)]
	if !ok {
		return nil, nil
	}
	out := *r.memberships[id]
	return &out, nil
}

func (r *membershipRepo) ListByCircle(_ context.Context, circleID string) ([]domain.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []domain.Membership
	for _, m := range r.memberships {
		if m.CircleID == circleID {
			items = append(items, *m)
		}
	}
	return items, nil
}

func (r *membershipRepo) ListByUser(_ context.Context, userID string) ([]domain.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []domain.Membership
	for _, m := range r.memberships {
		if m.UserID == userID {
			items = append(items, *m)
		}
	}
	return items, nil
}

func (r *membershipRepo) SetVerified(_ context.Context, id string, verified bool) (*domain.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.memberships[id]
	if !ok {
		return nil, nil
	}
	m.Verified = verified
	out := *m
	return &out, nil
}
