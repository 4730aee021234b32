package service

import (
	"context"
	"fmt"
	"time"

	"github.com/circlehq/circles-api/internal/domain"
	"github.com/circlehq/circles-api/internal/rate"
	"github.com/circlehq/circles-api/pkg/config"
	"github.com/circlehq/circles-api/pkg/logger"
)

// NowCellID is the resolution-8 cell the prototype hardware reports.
// Real geo lookup lands when the location pipeline ships.
const NowCellID = "884c8d364dbffff"

// GuardService enforces the per-user quotas that keep the feed and the
// presence map honest: a rolling cap on signal posts and a daily cap on
// now-cell switches.
type GuardService interface {
	AllowSignal(ctx context.Context, userID string) error
	SwitchNowCell(ctx context.Context, userID string) (cellID string, err error)
}

type guardService struct {
	limiter rate.Limiter
	cfg     config.GuardConfig
	now     func() time.Time
}

func NewGuardService(limiter rate.Limiter, cfg config.GuardConfig) GuardService {
	return &guardService{
		limiter: limiter,
		cfg:     cfg,
		now:     time.Now,
	}
}

// AllowSignal admits a signal post if the author is under the rolling
// window cap. Counting happens on admission, so a rejected post still
// burned one slot only if the limiter counted it; the memory and redis
// backends both count the probe itself.
func (s *guardService) AllowSignal(ctx context.Context, userID string) error {
	key := "signals:" + userID

	ok, err := s.limiter.Allow(ctx, key, s.cfg.SignalLimit, s.cfg.SignalWindow)
	if err != nil {
		logger.ErrorContext(ctx, "Signal throttle check failed", "error", err, "user_id", userID)
		return nil
	}
	if !ok {
		return domain.ErrRateLimited
	}
	return nil
}

// SwitchNowCell records a presence-cell switch. The quota key carries
// the UTC calendar day, so the counter resets at midnight UTC no matter
// which backend holds it.
func (s *guardService) SwitchNowCell(ctx context.Context, userID string) (string, error) {
	day := s.now().UTC().Format("2006-01-02")
	key := fmt.Sprintf("nowcell:%s:%s", userID, day)

	ok, err := s.limiter.Allow(ctx, key, s.cfg.NowCellDailyMax, 24*time.Hour)
	if err != nil {
		logger.ErrorContext(ctx, "Now-cell quota check failed", "error", err, "user_id", userID)
		return NowCellID, nil
	}
	if !ok {
		return "", domain.ErrRateLimited
	}
	return NowCellID, nil
}
