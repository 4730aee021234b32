package service

import (
	"context"

	"github.com/circlehq/circles-api/internal/domain"
	"github.com/circlehq/circles-api/internal/repo"
)

// ReputationView is the public read model: the raw entry plus the
// derived Creator Mode privileges.
type ReputationView struct {
	Reputation  *domain.Reputation `json:"reputation"`
	CreatorMode domain.CreatorMode `json:"creator_mode"`
}

// ReputationService owns the trust ledger. Scores move on exactly two
// triggers, a received thank and a completed ask claim, and never go
// down.
type ReputationService interface {
	Get(ctx context.Context, userID, circleID string) (*ReputationView, error)
	OnThanked(ctx context.Context, userID, circleID string) (*domain.Reputation, error)
	OnClaimCompleted(ctx context.Context, userID, circleID string) (*domain.Reputation, error)
	CreatorModeUnlocked(ctx context.Context, userID, circleID string) (bool, error)
}

type reputationService struct {
	reputationRepo repo.ReputationRepo
}

func NewReputationService(reputationRepo repo.ReputationRepo) ReputationService {
	return &reputationService{reputationRepo: reputationRepo}
}

func (s *reputationService) Get(ctx context.Context, userID, circleID string) (*ReputationView, error) {
	rep, err := s.reputationRepo.GetOrCreate(ctx, userID, circleID)
	if err != nil {
		return nil, err
	}

	return &ReputationView{
		Reputation: rep,
		CreatorMode: domain.CreatorMode{
			IsUnlocked: rep.CreatorModeUnlocked(),
			Criteria: domain.CreatorModeCriteria{
				TrustScore:  domain.CreatorModeMinScore,
				ThanksCount: domain.CreatorModeMinThanks,
			},
			Perks: domain.CreatorModePerks{
				MaxClipDuration: 45,
				CanSchedule:     true,
				CanDuet:         true,
			},
		},
	}, nil
}

func (s *reputationService) OnThanked(ctx context.Context, userID, circleID string) (*domain.Reputation, error) {
	return s.reputationRepo.ApplyThank(ctx, userID, circleID)
}

func (s *reputationService) OnClaimCompleted(ctx context.Context, userID, circleID string) (*domain.Reputation, error) {
	return s.reputationRepo.ApplyClaimCompleted(ctx, userID, circleID)
}

func (s *reputationService) CreatorModeUnlocked(ctx context.Context, userID, circleID string) (bool, error) {
	rep, err := s.reputationRepo.GetOrCreate(ctx, userID, circleID)
	if err != nil {
		return false, err
	}
	return rep.CreatorModeUnlocked(), nil
}
