package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/circlehq/circles-api/internal/domain"
	"github.com/circlehq/circles-api/internal/repo"
)

// feedRepo owns posts and their ask records together so ask transitions
// and TTL cascade deletes stay atomic.
type feedRepo struct {
	mu    sync.Mutex
	posts map[string]*domain.Post
	asks  map[string]*domain.Ask // keyed by post id
	order []string               // newest first
}

func NewFeedRepo() repo.FeedRepo {
	return &feedRepo{
		posts: make(map[string]*domain.Post),
		asks:  make(map[string]*domain.Ask),
	}
}

func copyPost(p *domain.Post) *domain.Post {
	out := *p
	out.Tags = append([]string(nil), p.Tags...)
	return &out
}

func (r *feedRepo) CreatePost(_ context.Context, p *domain.Post, withAsk bool) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *copyPost(p)
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.Tags == nil {
		stored.Tags = []string{}
	}

	r.posts[stored.ID] = &stored
	r.order = append([]string{stored.ID}, r.order...)

	if withAsk {
		r.asks[stored.ID] = &domain.Ask{
			PostID:   stored.ID,
			CircleID: stored.CircleID,
			Status:   domain.AskOpen,
		}
	}

	return copyPost(&stored), nil
}

func (r *feedRepo) GetPost(_ context.Context, id string) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, nil
	}
	return copyPost(p), nil
}

func (r *feedRepo) ListByCircle(_ context.Context, circleID string) ([]domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var items []domain.Post
	for _, id := range r.order {
		if p := r.posts[id]; p.CircleID == circleID {
			items = append(items, *copyPost(p))
		}
	}
	return items, nil
}

func (r *feedRepo) AddThank(_ context.Context, postID string) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[postID]
	if !ok {
		return nil, nil
	}
	p.ThanksCount++
	return copyPost(p), nil
}

func (r *feedRepo) IncrementReports(_ context.Context, postID string) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[postID]
	if !ok {
		return nil, nil
	}
	p.ReportsCount++
	return copyPost(p), nil
}

func (r *feedRepo) GetAsk(_ context.Context, postID string) (*domain.Ask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.asks[postID]
	if !ok {
		return nil, nil
	}
	out := *a
	return &out, nil
}

func (r *feedRepo) ClaimAsk(_ context.Context, postID, claimerID string, now time.Time) (*domain.Ask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.asks[postID]
	if !ok {
		return nil, nil
	}
	if a.Status != domain.AskOpen {
		return nil, domain.ErrInvalidState
	}

	a.Status = domain.AskClaimed
	a.ClaimerID = claimerID
	t := now
	a.ClaimedAt = &t

	out := *a
	return &out, nil
}

func (r *feedRepo) CompleteAsk(_ context.Context, postID, callerID string, now time.Time) (*domain.Ask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.asks[postID]
	if !ok {
		return nil, nil
	}
	if a.Status != domain.AskClaimed || a.ClaimerID != callerID {
		return nil, domain.ErrInvalidState
	}

	a.Status = domain.AskDone
	t := now
	a.ClosedAt = &t

	out := *a
	return &out, nil
}

func (r *feedRepo) DeleteExpired(_ context.Context, now time.Time) (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	kept := r.order[:0]
	for _, id := range r.order {
		p := r.posts[id]
		if p.ExpiresAt.Before(now) {
			delete(r.posts, id)
			delete(r.asks, id)
			removed++
			continue
		}
		kept = append(kept, id)
	}
	r.order = kept

	return removed, len(r.posts), nil
}
