package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/circlehq/circles-api/internal/domain"
)

func TestNowCellDailyQuota(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	gs := f.guard.(*guardService)
	day1 := time.Date(2025, 6, 1, 23, 30, 0, 0, time.UTC)
	gs.now = func() time.Time { return day1 }

	for i := 0; i < f.cfg.Guard.NowCellDailyMax; i++ {
		cell, err := f.guard.SwitchNowCell(ctx, "u1")
		if err != nil {
			t.Fatalf("switch %d: %v", i+1, err)
		}
		if cell != NowCellID {
			t.Errorf("cell id = %s, want %s", cell, NowCellID)
		}
	}

	if _, err := f.guard.SwitchNowCell(ctx, "u1"); !errors.Is(err, domain.ErrRateLimited) {
		t.Errorf("4th switch: got %v, want ErrRateLimited", err)
	}

	// Another user has their own quota.
	if _, err := f.guard.SwitchNowCell(ctx, "u2"); err != nil {
		t.Errorf("other user switch: %v", err)
	}

	// Midnight UTC resets the counter.
	gs.now = func() time.Time { return day1.Add(time.Hour) }
	if _, err := f.guard.SwitchNowCell(ctx, "u1"); err != nil {
		t.Errorf("switch after UTC day rollover: %v", err)
	}
}

func TestAllowSignalBoundary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < f.cfg.Guard.SignalLimit; i++ {
		if err := f.guard.AllowSignal(ctx, "u9"); err != nil {
			t.Fatalf("signal %d: %v", i+1, err)
		}
	}
	if err := f.guard.AllowSignal(ctx, "u9"); !errors.Is(err, domain.ErrRateLimited) {
		t.Errorf("signal over limit: got %v, want ErrRateLimited", err)
	}
}
