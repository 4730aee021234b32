package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/circlehq/circles-api/internal/domain"
)

// feedClock advances the feed service clock one step per call so every
// post gets a distinct creation time.
func feedClock(svc FeedService, start time.Time, step time.Duration) {
	fs := svc.(*feedService)
	current := start
	fs.now = func() time.Time {
		current = current.Add(step)
		return current
	}
}

func mustPost(t *testing.T, f *fixture, author string, lane domain.Lane, kind domain.PostKind) *domain.Post {
	t.Helper()
	p, err := f.feed.CreatePost(context.Background(), &domain.Post{
		AuthorID: author,
		CircleID: "c1",
		Content:  "hello neighbors",
		Lane:     lane,
		Kind:     kind,
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	return p
}

func TestAskLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	post := mustPost(t, f, "u1", domain.LaneHelp, domain.KindAsk)

	ask, err := f.feed.GetAsk(ctx, post.ID)
	if err != nil {
		t.Fatalf("get ask: %v", err)
	}
	if ask.Status != domain.AskOpen {
		t.Fatalf("new ask status = %v, want open", ask.Status)
	}

	// The author cannot claim their own ask.
	if _, err := f.feed.ClaimAsk(ctx, post.ID, "u1"); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("author claim: got %v, want ErrInvalidState", err)
	}

	claimed, err := f.feed.ClaimAsk(ctx, post.ID, "u2")
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if claimed.Status != domain.AskClaimed || claimed.ClaimerID != "u2" {
		t.Errorf("claim result: %+v", claimed)
	}

	// Claimed asks cannot be claimed again.
	if _, err := f.feed.ClaimAsk(ctx, post.ID, "u3"); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("second claim: got %v, want ErrInvalidState", err)
	}

	// Only the claimer completes.
	if _, err := f.feed.CompleteAsk(ctx, post.ID, "u3"); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("complete by non-claimer: got %v, want ErrInvalidState", err)
	}

	done, err := f.feed.CompleteAsk(ctx, post.ID, "u2")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Status != domain.AskDone || done.ClosedAt == nil {
		t.Errorf("complete result: %+v", done)
	}

	// Completion credited the claimer's trust score.
	view, err := f.reputation.Get(ctx, "u2", "c1")
	if err != nil {
		t.Fatalf("reputation: %v", err)
	}
	if view.Reputation.ClaimsCompleted != 1 {
		t.Errorf("claims completed = %d, want 1", view.Reputation.ClaimsCompleted)
	}
	if got, want := view.Reputation.TrustScore, domain.TrustScoreInitial+domain.TrustDeltaClaim; got != want {
		t.Errorf("trust score = %f, want %f", got, want)
	}

	// Terminal state.
	if _, err := f.feed.CompleteAsk(ctx, post.ID, "u2"); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("double complete: got %v, want ErrInvalidState", err)
	}
}

func TestThankCreditsAuthor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	post := mustPost(t, f, "u1", domain.LaneHelp, domain.KindSignal)

	updated, err := f.feed.Thank(ctx, post.ID, "u2")
	if err != nil {
		t.Fatalf("thank: %v", err)
	}
	if updated.ThanksCount != 1 {
		t.Errorf("thanks count = %d, want 1", updated.ThanksCount)
	}

	view, _ := f.reputation.Get(ctx, "u1", "c1")
	if view.Reputation.ThanksCount != 1 {
		t.Errorf("author thanks = %d, want 1", view.Reputation.ThanksCount)
	}
	if got, want := view.Reputation.TrustScore, domain.TrustScoreInitial+domain.TrustDeltaThank; got != want {
		t.Errorf("author trust score = %f, want %f", got, want)
	}

	if _, err := f.feed.Thank(ctx, post.ID, "stranger"); !errors.Is(err, domain.ErrNotMember) {
		t.Errorf("thank by non-member: got %v, want ErrNotMember", err)
	}
}

func TestSignalThrottle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < f.cfg.Guard.SignalLimit; i++ {
		if _, err := f.feed.CreatePost(ctx, &domain.Post{
			AuthorID: "u1", CircleID: "c1", Content: "ping", Lane: domain.LaneHelp, Kind: domain.KindSignal,
		}); err != nil {
			t.Fatalf("signal %d: %v", i+1, err)
		}
	}

	_, err := f.feed.CreatePost(ctx, &domain.Post{
		AuthorID: "u1", CircleID: "c1", Content: "ping", Lane: domain.LaneHelp, Kind: domain.KindSignal,
	})
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Errorf("signal over limit: got %v, want ErrRateLimited", err)
	}

	// Other kinds and other authors are not throttled.
	if _, err := f.feed.CreatePost(ctx, &domain.Post{
		AuthorID: "u1", CircleID: "c1", Content: "need a drill", Lane: domain.LaneHelp, Kind: domain.KindAsk,
	}); err != nil {
		t.Errorf("ask should not be throttled: %v", err)
	}
	if _, err := f.feed.CreatePost(ctx, &domain.Post{
		AuthorID: "u2", CircleID: "c1", Content: "ping", Lane: domain.LaneHelp, Kind: domain.KindSignal,
	}); err != nil {
		t.Errorf("other author should not be throttled: %v", err)
	}
}

func TestShowLaneRequiresCreatorMode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.feed.CreatePost(ctx, &domain.Post{
		AuthorID: "u1", CircleID: "c1", Content: "my clip", Lane: domain.LaneShow, Kind: domain.KindBulletin,
	})
	if !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("locked show post: got %v, want ErrPermissionDenied", err)
	}

	// Enough thanks pushes the score past both unlock thresholds.
	for i := 0; i < 26; i++ {
		if _, err := f.reputation.OnThanked(ctx, "u1", "c1"); err != nil {
			t.Fatalf("thank %d: %v", i+1, err)
		}
	}

	unlocked, err := f.reputation.CreatorModeUnlocked(ctx, "u1", "c1")
	if err != nil || !unlocked {
		t.Fatalf("creator mode unlocked = %v, err %v", unlocked, err)
	}

	if _, err := f.feed.CreatePost(ctx, &domain.Post{
		AuthorID: "u1", CircleID: "c1", Content: "my clip", Lane: domain.LaneShow, Kind: domain.KindBulletin,
	}); err != nil {
		t.Errorf("unlocked show post: %v", err)
	}
}

func TestFeedRankingAndPagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	feedClock(f.feed, time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC), time.Minute)

	oldSignal := mustPost(t, f, "u1", domain.LaneHelp, domain.KindSignal)
	ask := mustPost(t, f, "u1", domain.LaneHelp, domain.KindAsk)
	newSignal := mustPost(t, f, "u2", domain.LaneHelp, domain.KindSignal)

	lane := domain.LaneHelp
	page, err := f.feed.GetFeed(ctx, "c1", &lane, "", 2)
	if err != nil {
		t.Fatalf("feed page 1: %v", err)
	}
	if page.Total != 3 {
		t.Errorf("total = %d, want 3", page.Total)
	}
	if len(page.Posts) != 2 || page.Posts[0].ID != ask.ID || page.Posts[1].ID != newSignal.ID {
		t.Fatalf("page 1 order wrong: %+v", ids(page.Posts))
	}
	if page.NextCursor == nil || *page.NextCursor != newSignal.ID {
		t.Fatalf("next cursor = %v, want %s", page.NextCursor, newSignal.ID)
	}

	page2, err := f.feed.GetFeed(ctx, "c1", &lane, *page.NextCursor, 2)
	if err != nil {
		t.Fatalf("feed page 2: %v", err)
	}
	if len(page2.Posts) != 1 || page2.Posts[0].ID != oldSignal.ID {
		t.Fatalf("page 2 order wrong: %+v", ids(page2.Posts))
	}
	if page2.NextCursor != nil {
		t.Errorf("last page cursor = %v, want nil", *page2.NextCursor)
	}

	if page.Posts[0].AuthorReputation == nil {
		t.Error("feed entries should carry author reputation")
	}
}

func ids(posts []domain.FeedPost) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}

func TestTTLCleanupIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	fs := f.feed.(*feedService)
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	fs.now = func() time.Time { return base }

	short, err := f.feed.CreatePost(ctx, &domain.Post{
		AuthorID: "u1", CircleID: "c1", Content: "gone soon", Lane: domain.LaneHelp, Kind: domain.KindSignal, TTLHours: 1,
	})
	if err != nil {
		t.Fatalf("short post: %v", err)
	}
	if _, err := f.feed.CreatePost(ctx, &domain.Post{
		AuthorID: "u1", CircleID: "c1", Content: "sticks around", Lane: domain.LaneHelp, Kind: domain.KindSignal, TTLHours: 48,
	}); err != nil {
		t.Fatalf("long post: %v", err)
	}

	fs.now = func() time.Time { return base.Add(2 * time.Hour) }

	// Expired content disappears from reads even before the sweep.
	page, _ := f.feed.GetFeed(ctx, "c1", nil, "", 10)
	if len(page.Posts) != 1 {
		t.Fatalf("pre-sweep feed length = %d, want 1", len(page.Posts))
	}

	result, err := f.feed.CleanupExpired(ctx)
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if result.CleanedPosts != 1 || result.RemainingPosts != 1 {
		t.Errorf("cleanup = %+v, want 1 cleaned 1 remaining", result)
	}

	again, err := f.feed.CleanupExpired(ctx)
	if err != nil {
		t.Fatalf("second cleanup: %v", err)
	}
	if again.CleanedPosts != 0 || again.RemainingPosts != 1 {
		t.Errorf("second cleanup = %+v, want 0 cleaned 1 remaining", again)
	}

	if _, err := f.feed.GetAsk(ctx, short.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("ask lookup after sweep: got %v, want ErrNotFound", err)
	}
}

func TestStageExcludesReported(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	feedClock(f.feed, time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC), time.Minute)

	quiet := mustPost(t, f, "u1", domain.LaneHelp, domain.KindSignal)
	popular := mustPost(t, f, "u1", domain.LaneHelp, domain.KindSignal)
	flagged := mustPost(t, f, "u2", domain.LaneHelp, domain.KindSignal)

	for i := 0; i < 2; i++ {
		if _, err := f.feed.Thank(ctx, popular.ID, "u3"); err != nil {
			t.Fatalf("thank: %v", err)
		}
	}
	for i := 0; i < 3; i++ {
		if _, err := f.feed.Report(ctx, "u3", "post", flagged.ID, "spam"); err != nil {
			t.Fatalf("report: %v", err)
		}
	}

	stage, err := f.feed.GetStage(ctx, "c1")
	if err != nil {
		t.Fatalf("stage: %v", err)
	}
	if len(stage.StagePosts) != 2 {
		t.Fatalf("stage length = %d, want 2 (flagged post excluded)", len(stage.StagePosts))
	}
	if stage.StagePosts[0].ID != popular.ID {
		t.Errorf("stage leader = %s, want %s", stage.StagePosts[0].ID, popular.ID)
	}
	if stage.StagePosts[1].ID != quiet.ID {
		t.Errorf("stage runner-up = %s, want %s", stage.StagePosts[1].ID, quiet.ID)
	}
}

func TestCreatePostMembershipAndValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.feed.CreatePost(ctx, &domain.Post{
		AuthorID: "stranger", CircleID: "c1", Content: "hi", Lane: domain.LaneHelp, Kind: domain.KindSignal,
	})
	if !errors.Is(err, domain.ErrNotMember) {
		t.Errorf("non-member post: got %v, want ErrNotMember", err)
	}

	_, err = f.feed.CreatePost(ctx, &domain.Post{
		AuthorID: "u1", CircleID: "c1", Content: "hi", Lane: "weird", Kind: domain.KindSignal,
	})
	if !domain.IsValidation(err) {
		t.Errorf("bad lane: got %v, want validation error", err)
	}

	p, err := f.feed.CreatePost(ctx, &domain.Post{
		AuthorID: "u1", CircleID: "c1", Content: "hi", Lane: domain.LaneHelp, Kind: domain.KindSignal,
	})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if p.TTLHours != f.cfg.Feed.DefaultTTLHours {
		t.Errorf("default TTL = %d, want %d", p.TTLHours, f.cfg.Feed.DefaultTTLHours)
	}
	if !p.ExpiresAt.Equal(p.CreatedAt.Add(time.Duration(p.TTLHours) * time.Hour)) {
		t.Errorf("expires_at mismatch: created %v expires %v", p.CreatedAt, p.ExpiresAt)
	}
}
