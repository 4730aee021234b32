package memory

import (
	"context"
	"testing"

	"github.com/circlehq/circles-api/internal/domain"
)

func TestReputationDefaults(t *testing.T) {
	r := NewReputationRepo()

	rep, err := r.GetOrCreate(context.Background(), "u1", "c1")
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	if rep.TrustScore != domain.TrustScoreInitial {
		t.Errorf("initial score = %f, want %f", rep.TrustScore, domain.TrustScoreInitial)
	}
	if rep.ThanksCount != 0 || rep.ClaimsCompleted != 0 || len(rep.Badges) != 0 {
		t.Errorf("fresh entry = %+v", rep)
	}
}

func TestReputationScoreCapsAtMax(t *testing.T) {
	r := NewReputationRepo()
	ctx := context.Background()

	var last *domain.Reputation
	for i := 0; i < 200; i++ {
		var err error
		last, err = r.ApplyThank(ctx, "u1", "c1")
		if err != nil {
			t.Fatalf("thank %d: %v", i+1, err)
		}
	}

	if last.TrustScore != domain.TrustScoreMax {
		t.Errorf("score after 200 thanks = %f, want capped at %f", last.TrustScore, domain.TrustScoreMax)
	}
	if last.ThanksCount != 200 {
		t.Errorf("thanks count = %d, want 200", last.ThanksCount)
	}
}

func TestHelperBadgeAwardedOnce(t *testing.T) {
	r := NewReputationRepo()
	ctx := context.Background()

	var rep *domain.Reputation
	for i := 0; i < 5; i++ {
		rep, _ = r.ApplyClaimCompleted(ctx, "u1", "c1")
	}

	badges := 0
	for _, b := range rep.Badges {
		if b == domain.HelperBadge {
			badges++
		}
	}
	if badges != 1 {
		t.Errorf("helper badge count = %d, want exactly 1", badges)
	}
}

func TestReputationScopedPerCircle(t *testing.T) {
	r := NewReputationRepo()
	ctx := context.Background()

	if _, err := r.ApplyThank(ctx, "u1", "c1"); err != nil {
		t.Fatalf("thank: %v", err)
	}

	other, _ := r.GetOrCreate(ctx, "u1", "c2")
	if other.ThanksCount != 0 || other.TrustScore != domain.TrustScoreInitial {
		t.Errorf("standing leaked across circles: %+v", other)
	}
}
