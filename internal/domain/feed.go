package domain

import "time"

type Lane string

const (
	LaneHelp Lane = "help"
	LaneShow Lane = "show"
)

func ParseLane(s string) (Lane, bool) {
	switch Lane(s) {
	case LaneHelp, LaneShow:
		return Lane(s), true
	default:
		return "", false
	}
}

type PostKind string

const (
	KindSignal   PostKind = "signal"
	KindAsk      PostKind = "ask"
	KindEvent    PostKind = "event"
	KindSwap     PostKind = "swap"
	KindBulletin PostKind = "bulletin"
	KindSafety   PostKind = "safety"
)

func ParsePostKind(s string) (PostKind, bool) {
	switch PostKind(s) {
	case KindSignal, KindAsk, KindEvent, KindSwap, KindBulletin, KindSafety:
		return PostKind(s), true
	default:
		return "", false
	}
}

// Priority boosts asks and safety content to the top of the help lane.
func (k PostKind) Priority() int {
	if k == KindAsk || k == KindSafety {
		return 10
	}
	return 1
}

type Post struct {
	ID           string    `json:"id"`
	AuthorID     string    `json:"author_id"`
	CircleID     string    `json:"circle_id"`
	Content      string    `json:"content"`
	Lane         Lane      `json:"lane"`
	Kind         PostKind  `json:"kind"`
	MediaURL     string    `json:"media_url,omitempty"`
	Tags         []string  `json:"tags"`
	TTLHours     int       `json:"ttl_hours"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
	ThanksCount  int       `json:"thanks_count"`
	ReportsCount int       `json:"reports_count"`
}

// RecencyScore is a monotonically increasing function of creation time,
// so newer posts with equal thanks rank higher.
func (p *Post) RecencyScore() float64 {
	return float64(p.CreatedAt.UnixMilli()) / 1e6
}

type AskStatus string

const (
	AskOpen      AskStatus = "open"
	AskClaimed   AskStatus = "claimed"
	AskDone      AskStatus = "done"
	AskCancelled AskStatus = "cancelled"
)

// Ask tracks the claim lifecycle of a post with kind=ask.
type Ask struct {
	PostID    string     `json:"post_id"`
	CircleID  string     `json:"circle_id"`
	Status    AskStatus  `json:"status"`
	ClaimerID string     `json:"claimer_id,omitempty"`
	ClaimedAt *time.Time `json:"claimed_at,omitempty"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
}

type ReportStatus string

const (
	ReportQueued    ReportStatus = "queue"
	ReportActioned  ReportStatus = "actioned"
	ReportDismissed ReportStatus = "dismissed"
)

type Report struct {
	ID         string       `json:"id"`
	ReporterID string       `json:"reporter_id"`
	TargetType string       `json:"target_type"`
	TargetID   string       `json:"target_id"`
	Reason     string       `json:"reason"`
	Status     ReportStatus `json:"status"`
	CreatedAt  time.Time    `json:"created_at"`
}

type Block struct {
	ID        string    `json:"id"`
	BlockerID string    `json:"blocker_id"`
	BlockedID string    `json:"blocked_id"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthorReputation is the reputation summary attached to feed entries.
type AuthorReputation struct {
	TrustScore  float64  `json:"trust_score"`
	ThanksCount int      `json:"thanks_count"`
	Badges      []string `json:"badges"`
}

type FeedPost struct {
	Post
	AuthorReputation *AuthorReputation `json:"author_reputation"`
}

type FeedPage struct {
	Posts      []FeedPost `json:"posts"`
	NextCursor *string    `json:"next_cursor"`
	Lane       Lane       `json:"lane"`
	Total      int        `json:"total"`
}

type StagePost struct {
	Post
	Score float64 `json:"score"`
}

type Stage struct {
	StagePosts []StagePost `json:"stage_posts"`
	WeekStart  time.Time   `json:"week_start"`
	NextStage  time.Time   `json:"next_stage"`
}

type CleanupResult struct {
	CleanedPosts   int `json:"cleaned_posts"`
	RemainingPosts int `json:"remaining_posts"`
}
