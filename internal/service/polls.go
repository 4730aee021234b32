package service

import (
	"context"

	"github.com/circlehq/circles-api/internal/domain"
	"github.com/circlehq/circles-api/internal/repo"
)

// PollService handles lightweight circle polls with last-vote-wins
// semantics.
type PollService interface {
	Create(ctx context.Context, circleID, creatorID, question string, options []string, multi bool) (*domain.PollWithOptions, error)
	Get(ctx context.Context, pollID, viewerID string) (*domain.PollWithOptions, error)
	ListByCircle(ctx context.Context, circleID, viewerID string) ([]domain.PollWithOptions, error)
	Vote(ctx context.Context, pollID, optionID, userID string) error
}

type pollService struct {
	pollRepo repo.PollRepo
	registry RegistryService
}

func NewPollService(pollRepo repo.PollRepo, registry RegistryService) PollService {
	return &pollService{pollRepo: pollRepo, registry: registry}
}

func (s *pollService) Create(ctx context.Context, circleID, creatorID, question string, options []string, multi bool) (*domain.PollWithOptions, error) {
	if circleID == "" || question == "" {
		return nil, domain.Validationf("circle_id and question required")
	}
	if len(options) < 2 {
		return nil, domain.Validationf("at least two options required")
	}

	member, err := s.registry.IsMember(ctx, creatorID, circleID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, domain.ErrNotMember
	}

	poll, opts, err := s.pollRepo.CreatePoll(ctx, &domain.Poll{
		CircleID: circleID,
		Question: question,
		Multi:    multi,
	}, options)
	if err != nil {
		return nil, err
	}

	return &domain.PollWithOptions{
		Poll:    *poll,
		Options: opts,
		Summary: domain.PollSummary{ByOption: []domain.PollOptionCount{}},
	}, nil
}

func (s *pollService) Get(ctx context.Context, pollID, viewerID string) (*domain.PollWithOptions, error) {
	poll, err := s.pollRepo.GetPoll(ctx, pollID)
	if err != nil {
		return nil, err
	}
	if poll == nil {
		return nil, domain.ErrNotFound
	}
	return s.assemble(ctx, poll, viewerID)
}

func (s *pollService) ListByCircle(ctx context.Context, circleID, viewerID string) ([]domain.PollWithOptions, error) {
	polls, err := s.pollRepo.ListByCircle(ctx, circleID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.PollWithOptions, 0, len(polls))
	for i := range polls {
		pwo, err := s.assemble(ctx, &polls[i], viewerID)
		if err != nil {
			return nil, err
		}
		out = append(out, *pwo)
	}
	return out, nil
}

func (s *pollService) Vote(ctx context.Context, pollID, optionID, userID string) error {
	if optionID == "" {
		return domain.Validationf("option_id required")
	}

	poll, err := s.pollRepo.GetPoll(ctx, pollID)
	if err != nil {
		return err
	}
	if poll == nil {
		return domain.ErrNotFound
	}

	member, err := s.registry.IsMember(ctx, userID, poll.CircleID)
	if err != nil {
		return err
	}
	if !member {
		return domain.ErrNotMember
	}

	return s.pollRepo.Vote(ctx, pollID, optionID, userID)
}

func (s *pollService) assemble(ctx context.Context, poll *domain.Poll, viewerID string) (*domain.PollWithOptions, error) {
	opts, err := s.pollRepo.ListOptions(ctx, poll.ID)
	if err != nil {
		return nil, err
	}
	votes, err := s.pollRepo.ListVotes(ctx, poll.ID)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	youVoted := ""
	for _, v := range votes {
		counts[v.OptionID]++
		if v.UserID == viewerID {
			youVoted = v.OptionID
		}
	}

	byOption := make([]domain.PollOptionCount, 0, len(opts))
	for _, o := range opts {
		byOption = append(byOption, domain.PollOptionCount{OptionID: o.ID, Count: counts[o.ID]})
	}

	return &domain.PollWithOptions{
		Poll:    *poll,
		Options: opts,
		Summary: domain.PollSummary{
			ByOption: byOption,
			Total:    len(votes),
			YouVoted: youVoted,
		},
	}, nil
}
