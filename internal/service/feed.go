package service

import (
	"context"
	"sort"
	"time"

	"github.com/circlehq/circles-api/internal/domain"
	"github.com/circlehq/circles-api/internal/repo"
	"github.com/circlehq/circles-api/pkg/config"
	"github.com/circlehq/circles-api/pkg/events"
	"github.com/circlehq/circles-api/pkg/logger"
)

const (
	stageWindow     = 7 * 24 * time.Hour
	stageSize       = 10
	stageReportsCap = 3
)

// FeedService runs the dual-lane feed: ephemeral posts with a TTL, the
// ask claim lifecycle, thanks, moderation intake, and the weekly stage.
type FeedService interface {
	CreatePost(ctx context.Context, p *domain.Post) (*domain.Post, error)
	GetPost(ctx context.Context, id string) (*domain.Post, error)
	GetFeed(ctx context.Context, circleID string, lane *domain.Lane, after string, limit int) (*domain.FeedPage, error)
	Thank(ctx context.Context, postID, userID string) (*domain.Post, error)
	Report(ctx context.Context, reporterID, targetType, targetID, reason string) (*domain.Report, error)
	Block(ctx context.Context, blockerID, blockedID string) (*domain.Block, error)
	ModQueue(ctx context.Context, limit int) (reports []domain.Report, blocks []domain.Block, totals [2]int, err error)
	GetAsk(ctx context.Context, postID string) (*domain.Ask, error)
	ClaimAsk(ctx context.Context, postID, claimerID string) (*domain.Ask, error)
	CompleteAsk(ctx context.Context, postID, callerID string) (*domain.Ask, error)
	GetStage(ctx context.Context, circleID string) (*domain.Stage, error)
	CleanupExpired(ctx context.Context) (*domain.CleanupResult, error)
}

type feedService struct {
	feedRepo       repo.FeedRepo
	moderationRepo repo.ModerationRepo
	reputation     ReputationService
	registry       RegistryService
	guard          GuardService
	eventBus       events.EventBus
	cfg            config.FeedConfig
	now            func() time.Time
}

func NewFeedService(
	feedRepo repo.FeedRepo,
	moderationRepo repo.ModerationRepo,
	reputation ReputationService,
	registry RegistryService,
	guard GuardService,
	eventBus events.EventBus,
	cfg config.FeedConfig,
) FeedService {
	return &feedService{
		feedRepo:       feedRepo,
		moderationRepo: moderationRepo,
		reputation:     reputation,
		registry:       registry,
		guard:          guard,
		eventBus:       eventBus,
		cfg:            cfg,
		now:            time.Now,
	}
}

func (s *feedService) CreatePost(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	if p.CircleID == "" || p.Content == "" {
		return nil, domain.Validationf("circle_id and content required")
	}
	if _, ok := domain.ParseLane(string(p.Lane)); !ok {
		return nil, domain.Validationf("lane must be help or show")
	}
	if _, ok := domain.ParsePostKind(string(p.Kind)); !ok {
		return nil, domain.Validationf("unknown post kind")
	}

	member, err := s.registry.IsMember(ctx, p.AuthorID, p.CircleID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, domain.ErrNotMember
	}

	// The show lane is earned, not given.
	if p.Lane == domain.LaneShow {
		unlocked, err := s.reputation.CreatorModeUnlocked(ctx, p.AuthorID, p.CircleID)
		if err != nil {
			return nil, err
		}
		if !unlocked {
			return nil, domain.ErrPermissionDenied
		}
	}

	if p.Kind == domain.KindSignal {
		if err := s.guard.AllowSignal(ctx, p.AuthorID); err != nil {
			return nil, err
		}
	}

	if p.TTLHours <= 0 {
		p.TTLHours = s.cfg.DefaultTTLHours
	}
	now := s.now()
	p.CreatedAt = now
	p.ExpiresAt = now.Add(time.Duration(p.TTLHours) * time.Hour)

	created, err := s.feedRepo.CreatePost(ctx, p, p.Kind == domain.KindAsk)
	if err != nil {
		return nil, err
	}

	if err := s.eventBus.Publish(ctx, events.PostCreated, events.PostCreatedEvent{
		PostID:    created.ID,
		CircleID:  created.CircleID,
		AuthorID:  created.AuthorID,
		Lane:      string(created.Lane),
		Kind:      string(created.Kind),
		ExpiresAt: created.ExpiresAt,
	}); err != nil {
		logger.ErrorContext(ctx, "Failed to publish post created event", "error", err, "post_id", created.ID)
	}

	return created, nil
}

func (s *feedService) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	p, err := s.feedRepo.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// GetFeed ranks live posts for one circle. The help lane sorts by kind
// priority then recency; the show lane sorts by thanks plus a recency
// tiebreak. Pagination is an opaque after-id cursor over the ranked
// order.
func (s *feedService) GetFeed(ctx context.Context, circleID string, lane *domain.Lane, after string, limit int) (*domain.FeedPage, error) {
	if circleID == "" {
		return nil, domain.Validationf("circleId required")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	all, err := s.feedRepo.ListByCircle(ctx, circleID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var posts []domain.Post
	for _, p := range all {
		if !p.ExpiresAt.After(now) {
			continue
		}
		if lane != nil && p.Lane != *lane {
			continue
		}
		posts = append(posts, p)
	}

	pageLane := domain.LaneHelp
	if lane != nil {
		pageLane = *lane
	}

	if pageLane == domain.LaneShow {
		sort.SliceStable(posts, func(i, j int) bool {
			return showScore(&posts[i]) > showScore(&posts[j])
		})
	} else {
		sort.SliceStable(posts, func(i, j int) bool {
			pi, pj := posts[i].Kind.Priority(), posts[j].Kind.Priority()
			if pi != pj {
				return pi > pj
			}
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		})
	}

	total := len(posts)

	start := 0
	if after != "" {
		for i, p := range posts {
			if p.ID == after {
				start = i + 1
				break
			}
		}
	}

	end := start + limit
	if end > len(posts) {
		end = len(posts)
	}
	window := posts[start:end]

	feedPosts := make([]domain.FeedPost, 0, len(window))
	for _, p := range window {
		fp := domain.FeedPost{Post: p}
		if rep, err := s.reputation.Get(ctx, p.AuthorID, p.CircleID); err == nil {
			fp.AuthorReputation = &domain.AuthorReputation{
				TrustScore:  rep.Reputation.TrustScore,
				ThanksCount: rep.Reputation.ThanksCount,
				Badges:      rep.Reputation.Badges,
			}
		}
		feedPosts = append(feedPosts, fp)
	}

	var next *string
	if end < len(posts) && len(window) > 0 {
		id := window[len(window)-1].ID
		next = &id
	}

	return &domain.FeedPage{
		Posts:      feedPosts,
		NextCursor: next,
		Lane:       pageLane,
		Total:      total,
	}, nil
}

func showScore(p *domain.Post) float64 {
	return float64(p.ThanksCount) + p.RecencyScore()
}

// Thank records gratitude on a post and credits the author's trust
// score. Thanking is additive; there is no un-thank.
func (s *feedService) Thank(ctx context.Context, postID, userID string) (*domain.Post, error) {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	member, err := s.registry.IsMember(ctx, userID, post.CircleID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, domain.ErrNotMember
	}

	updated, err := s.feedRepo.AddThank(ctx, postID)
	if err != nil {
		return nil, err
	}

	if _, err := s.reputation.OnThanked(ctx, post.AuthorID, post.CircleID); err != nil {
		logger.ErrorContext(ctx, "Failed to credit thank", "error", err, "post_id", postID)
	}

	if err := s.eventBus.Publish(ctx, events.PostThanked, events.PostCreatedEvent{
		PostID:   updated.ID,
		CircleID: updated.CircleID,
		AuthorID: updated.AuthorID,
		Lane:     string(updated.Lane),
		Kind:     string(updated.Kind),
	}); err != nil {
		logger.ErrorContext(ctx, "Failed to publish post thanked event", "error", err, "post_id", postID)
	}

	return updated, nil
}

func (s *feedService) Report(ctx context.Context, reporterID, targetType, targetID, reason string) (*domain.Report, error) {
	if targetType == "" || targetID == "" {
		return nil, domain.Validationf("target_type and target_id required")
	}

	report, err := s.moderationRepo.CreateReport(ctx, &domain.Report{
		ReporterID: reporterID,
		TargetType: targetType,
		TargetID:   targetID,
		Reason:     reason,
		Status:     domain.ReportQueued,
	})
	if err != nil {
		return nil, err
	}

	// Reported posts carry a visible counter the stage uses to exclude
	// flagged content.
	if targetType == "post" {
		if _, err := s.feedRepo.IncrementReports(ctx, targetID); err != nil {
			logger.ErrorContext(ctx, "Failed to bump report counter", "error", err, "post_id", targetID)
		}
	}

	return report, nil
}

func (s *feedService) Block(ctx context.Context, blockerID, blockedID string) (*domain.Block, error) {
	if blockedID == "" {
		return nil, domain.Validationf("blocked_id required")
	}
	if blockerID == blockedID {
		return nil, domain.Validationf("cannot block yourself")
	}

	return s.moderationRepo.CreateBlock(ctx, &domain.Block{
		BlockerID: blockerID,
		BlockedID: blockedID,
	})
}

func (s *feedService) ModQueue(ctx context.Context, limit int) ([]domain.Report, []domain.Block, [2]int, error) {
	if limit <= 0 {
		limit = 50
	}

	reportTotal, reports, err := s.moderationRepo.RecentReports(ctx, limit)
	if err != nil {
		return nil, nil, [2]int{}, err
	}
	blockTotal, blocks, err := s.moderationRepo.RecentBlocks(ctx, limit)
	if err != nil {
		return nil, nil, [2]int{}, err
	}

	return reports, blocks, [2]int{reportTotal, blockTotal}, nil
}

func (s *feedService) GetAsk(ctx context.Context, postID string) (*domain.Ask, error) {
	ask, err := s.feedRepo.GetAsk(ctx, postID)
	if err != nil {
		return nil, err
	}
	if ask == nil {
		return nil, domain.ErrNotFound
	}
	return ask, nil
}

func (s *feedService) ClaimAsk(ctx context.Context, postID, claimerID string) (*domain.Ask, error) {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID == claimerID {
		return nil, domain.ErrInvalidState
	}

	ask, err := s.feedRepo.ClaimAsk(ctx, postID, claimerID, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.eventBus.Publish(ctx, events.AskClaimed, events.AskEvent{
		PostID:    ask.PostID,
		CircleID:  ask.CircleID,
		ClaimerID: ask.ClaimerID,
		Status:    string(ask.Status),
	}); err != nil {
		logger.ErrorContext(ctx, "Failed to publish ask claimed event", "error", err, "post_id", postID)
	}

	return ask, nil
}

// CompleteAsk closes a claimed ask. Only the claimer may complete, and
// completion is what credits the claim bonus.
func (s *feedService) CompleteAsk(ctx context.Context, postID, callerID string) (*domain.Ask, error) {
	ask, err := s.feedRepo.CompleteAsk(ctx, postID, callerID, s.now())
	if err != nil {
		return nil, err
	}

	if _, err := s.reputation.OnClaimCompleted(ctx, ask.ClaimerID, ask.CircleID); err != nil {
		logger.ErrorContext(ctx, "Failed to credit claim completion", "error", err, "post_id", postID)
	}

	if err := s.eventBus.Publish(ctx, events.AskCompleted, events.AskEvent{
		PostID:    ask.PostID,
		CircleID:  ask.CircleID,
		ClaimerID: ask.ClaimerID,
		Status:    string(ask.Status),
	}); err != nil {
		logger.ErrorContext(ctx, "Failed to publish ask completed event", "error", err, "post_id", postID)
	}

	return ask, nil
}

// GetStage computes the weekly leaderboard: live posts from the trailing
// seven days with fewer than three reports, ranked by thanks with a
// recency tiebreak, top ten.
func (s *feedService) GetStage(ctx context.Context, circleID string) (*domain.Stage, error) {
	if circleID == "" {
		return nil, domain.Validationf("circleId required")
	}

	all, err := s.feedRepo.ListByCircle(ctx, circleID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	weekStart := now.Add(-stageWindow)

	var ranked []domain.StagePost
	for _, p := range all {
		if p.CreatedAt.Before(weekStart) || !p.ExpiresAt.After(now) {
			continue
		}
		if p.ReportsCount >= stageReportsCap {
			continue
		}
		ranked = append(ranked, domain.StagePost{
			Post:  p,
			Score: float64(p.ThanksCount)*10 + p.RecencyScore(),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > stageSize {
		ranked = ranked[:stageSize]
	}

	return &domain.Stage{
		StagePosts: ranked,
		WeekStart:  weekStart,
		NextStage:  now.Add(stageWindow),
	}, nil
}

// CleanupExpired sweeps posts past their TTL. Safe to run repeatedly;
// a second sweep with no new expiries removes nothing.
func (s *feedService) CleanupExpired(ctx context.Context) (*domain.CleanupResult, error) {
	removed, remaining, err := s.feedRepo.DeleteExpired(ctx, s.now())
	if err != nil {
		return nil, err
	}
	return &domain.CleanupResult{
		CleanedPosts:   removed,
		RemainingPosts: remaining,
	}, nil
}
