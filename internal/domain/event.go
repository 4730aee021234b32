package domain

import "time"

type RSVPStatus string

const (
	RSVPGoing      RSVPStatus = "GOING"
	RSVPInterested RSVPStatus = "INTERESTED"
	RSVPDeclined   RSVPStatus = "DECLINED"
)

func ParseRSVPStatus(s string) (RSVPStatus, bool) {
	switch RSVPStatus(s) {
	case RSVPGoing, RSVPInterested, RSVPDeclined:
		return RSVPStatus(s), true
	default:
		return "", false
	}
}

type Event struct {
	ID           string    `json:"id"`
	CircleID     string    `json:"circle_id"`
	Title        string    `json:"title"`
	StartsAt     time.Time `json:"starts_at"`
	EndsAt       time.Time `json:"ends_at"`
	LocationHint string    `json:"location_hint,omitempty"`
	CreatedBy    string    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
}

type EventRSVP struct {
	ID        string     `json:"id"`
	EventID   string     `json:"event_id"`
	UserID    string     `json:"user_id"`
	Status    RSVPStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type EventWithRSVPs struct {
	Event
	RSVPCounts map[RSVPStatus]int `json:"rsvp_counts"`
}

// Announcement is a circle bulletin; at most one may be pinned per circle.
type Announcement struct {
	ID        string    `json:"id"`
	CircleID  string    `json:"circle_id"`
	Title     string    `json:"title"`
	BodyMD    string    `json:"body_md"`
	Pinned    bool      `json:"pinned"`
	CreatedAt time.Time `json:"created_at"`
}
