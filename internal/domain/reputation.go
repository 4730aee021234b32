package domain

// Reputation trust-score rules. Scores only ever move up; there is no
// penalty or decay path.
const (
	TrustScoreInitial = 2.5
	TrustScoreMax     = 5.0
	TrustDeltaThank   = 0.02
	TrustDeltaClaim   = 0.05

	HelperBadge          = "Helper"
	HelperBadgeThreshold = 3

	CreatorModeMinScore  = 3.0
	CreatorModeMinThanks = 3
)

// Reputation is scoped per (user, circle); standing does not transfer
// across circles.
type Reputation struct {
	UserID          string   `json:"user_id"`
	CircleID        string   `json:"circle_id"`
	TrustScore      float64  `json:"trust_score"`
	ThanksCount     int      `json:"thanks_count"`
	ClaimsCompleted int      `json:"claims_completed"`
	Badges          []string `json:"badges"`
}

func NewReputation(userID, circleID string) *Reputation {
	return &Reputation{
		UserID:     userID,
		CircleID:   circleID,
		TrustScore: TrustScoreInitial,
		Badges:     []string{},
	}
}

func (r *Reputation) CreatorModeUnlocked() bool {
	return r.TrustScore >= CreatorModeMinScore && r.ThanksCount >= CreatorModeMinThanks
}

func (r *Reputation) HasBadge(badge string) bool {
	for _, b := range r.Badges {
		if b == badge {
			return true
		}
	}
	return false
}

func (r *Reputation) AddBadge(badge string) {
	if !r.HasBadge(badge) {
		r.Badges = append(r.Badges, badge)
	}
}

// CreatorMode is the derived privilege view returned alongside a
// reputation read.
type CreatorMode struct {
	IsUnlocked bool                `json:"is_unlocked"`
	Criteria   CreatorModeCriteria `json:"criteria"`
	Perks      CreatorModePerks    `json:"perks"`
}

type CreatorModeCriteria struct {
	TrustScore  float64 `json:"trust_score"`
	ThanksCount int     `json:"thanks_count"`
}

type CreatorModePerks struct {
	MaxClipDuration int  `json:"max_clip_duration"`
	CanSchedule     bool `json:"can_schedule"`
	CanDuet         bool `json:"can_duet"`
}
