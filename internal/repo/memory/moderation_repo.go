package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/circlehq/circles-api/internal/domain"
	"github.com/circlehq/circles-api/internal/repo"
)

type moderationRepo struct {
	mu      sync.RWMutex
	reports []domain.Report // newest first
	blocks  []domain.Block
}

func NewModerationRepo() repo.ModerationRepo {
	return &moderationRepo{}
}

func (r *moderationRepo) CreateReport(_ context.Context, rep *domain.Report) (*domain.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *rep
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	stored.Status = domain.ReportQueued

	r.reports = append([]domain.Report{stored}, r.reports...)

	out := stored
	return &out, nil
}

func (r *moderationRepo) CreateBlock(_ context.Context, b *domain.Block) (*domain.Block, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *b
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	r.blocks = append([]domain.Block{stored}, r.blocks...)

	out := stored
	return &out, nil
}

func (r *moderationRepo) RecentReports(_ context.Context, limit int) (int, []domain.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := limit
	if n > len(r.reports) {
		n = len(r.reports)
	}
	items := append([]domain.Report(nil), r.reports[:n]...)
	return len(r.reports), items, nil
}

func (r *moderationRepo) RecentBlocks(_ context.Context, limit int) (int, []domain.Block, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := limit
	if n > len(r.blocks) {
		n = len(r.blocks)
	}
	items := append([]domain.Block(nil), r.blocks[:n]...)
	return len(r.blocks), items, nil
}
