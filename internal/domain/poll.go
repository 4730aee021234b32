package domain

import "time"

type Poll struct {
	ID        string    `json:"id"`
	CircleID  string    `json:"circle_id"`
	Question  string    `json:"question"`
	Multi     bool      `json:"multi"`
	CreatedAt time.Time `json:"created_at"`
}

type PollOption struct {
	ID     string `json:"id"`
	PollID string `json:"poll_id"`
	Text   string `json:"text"`
}

// PollVote is keyed by (poll, user); re-voting replaces the prior choice.
type PollVote struct {
	ID       string `json:"id"`
	PollID   string `json:"poll_id"`
	OptionID string `json:"option_id"`
	UserID   string `json:"user_id"`
}

type PollOptionCount struct {
	OptionID string `json:"option_id"`
	Count    int    `json:"count"`
}

type PollSummary struct {
	ByOption []PollOptionCount `json:"by_option"`
	Total    int               `json:"total"`
	YouVoted string            `json:"you_voted,omitempty"`
}

type PollWithOptions struct {
	Poll
	Options []PollOption `json:"options"`
	Summary PollSummary  `json:"summary"`
}
