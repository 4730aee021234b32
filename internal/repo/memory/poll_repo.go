package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/circlehq/circles-api/internal/domain"
	"github.com/circlehq/circles-api/internal/repo"
)

type pollRepo struct {
	mu      sync.RWMutex
	polls   map[string]*domain.Poll
	options map[string][]domain.PollOption // poll id -> options
	votes   map[string][]domain.PollVote   // poll id -> votes
	order   []string                       // newest first
}

func NewPollRepo() repo.PollRepo {
	return &pollRepo{
		polls:   make(map[string]*domain.Poll),
		options: make(map[string][]domain.PollOption),
		votes:   make(map[string][]domain.PollVote),
	}
}

func (r *pollRepo) CreatePoll(_ context.Context, p *domain.Poll, options []string) (*domain.Poll, []domain.PollOption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *p
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	opts := make([]domain.PollOption, 0, len(options))
	for _, text := range options {
		opts = append(opts, domain.PollOption{
			ID:     uuid.NewString(),
			PollID: stored.ID,
			Text:   text,
		})
	}

	r.polls[stored.ID] = &stored
	r.options[stored.ID] = opts
	r.order = append([]string{stored.ID}, r.order...)

	out := stored
	return &out, append([]domain.PollOption(nil), opts...), nil
}

func (r *pollRepo) GetPoll(_ context.Context, id string) (*domain.Poll, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.polls[id]
	if !ok {
		return nil, nil
	}
	out := *p
	return &out, nil
}

func (r *pollRepo) ListByCircle(_ context.Context, circleID string) ([]domain.Poll, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []domain.Poll
	for _, id := range r.order {
		if p := r.polls[id]; p.CircleID == circleID {
			items = append(items, *p)
		}
	}
	return items, nil
}

func (r *pollRepo) ListOptions(_ context.Context, pollID string) ([]domain.PollOption, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.PollOption(nil), r.options[pollID]...), nil
}

func (r *pollRepo) ListVotes(_ context.Context, pollID string) ([]domain.PollVote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.PollVote(nil), r.votes[pollID]...), nil
}

func (r *pollRepo) Vote(_ context.Context, pollID, optionID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.polls[pollID]; !ok {
		return domain.ErrNotFound
	}

	valid := false
	for _, o := range r.options[pollID] {
		if o.ID == optionID {
			valid = true
			break
		}
	}
	if !valid {
		return domain.Validationf("option does not belong to poll")
	}

	// Last vote wins: drop any prior vote by this user.
	votes := r.votes[pollID][:0]
	for _, v := range r.votes[pollID] {
		if v.UserID != userID {
			votes = append(votes, v)
		}
	}
	votes = append(votes, domain.PollVote{
		ID:       uuid.NewString(),
		PollID:   pollID,
		OptionID: optionID,
		UserID:   userID,
	})
	r.votes[pollID] = votes

	return nil
}
