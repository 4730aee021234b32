package memory

import (
	"context"
	"math"
	"sync"

	"github.com/circlehq/circles-api/internal/domain"
	"github.com/circlehq/circles-api/internal/repo"
)

type reputationRepo struct {
	mu      sync.Mutex
	entries map[string]*domain.Reputation // userID+"/"+circleID
}

func NewReputationRepo() repo.ReputationRepo {
	return &reputationRepo{entries: make(map[string]*domain.Reputation)}
}

func (r *reputationRepo) get(userID, circleID string) *domain.Reputation {
	key := userID + "/" + circleID
	rep, ok := r.entries[key]
	if !ok {
		rep = domain.NewReputation(userID, circleID)
		r.entries[key] = rep
	}
	return rep
}

func copyRep(rep *domain.Reputation) *domain.Reputation {
	out := *rep
	out.Badges = append([]string(nil), rep.Badges...)
	return &out
}

func (r *reputationRepo) GetOrCreate(_ context.Context, userID, circleID string) (*domain.Reputation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copyRep(r.get(userID, circleID)), nil
}

func (r *reputationRepo) ApplyThank(_ context.Context, userID, circleID string) (*domain.Reputation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rep := r.get(userID, circleID)
	rep.ThanksCount++
	rep.TrustScore = math.Min(domain.TrustScoreMax, rep.TrustScore+domain.TrustDeltaThank)
	if rep.ThanksCount >= domain.HelperBadgeThreshold {
		rep.AddBadge(domain.HelperBadge)
	}
	return copyRep(rep), nil
}

func (r *reputationRepo) ApplyClaimCompleted(_ context.Context, userID, circleID string) (*domain.Reputation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rep := r.get(userID, circleID)
	rep.ClaimsCompleted++
	rep.TrustScore = math.Min(domain.TrustScoreMax, rep.TrustScore+domain.TrustDeltaClaim)
	if rep.ClaimsCompleted >= domain.HelperBadgeThreshold {
		rep.AddBadge(domain.HelperBadge)
	}
	return copyRep(rep), nil
}
