package domain

import "time"

type IncidentStatus string

const (
	IncidentOpen       IncidentStatus = "OPEN"
	IncidentInProgress IncidentStatus = "IN_PROGRESS"
	IncidentResolved   IncidentStatus = "RESOLVED"
)

type IncidentSeverity string

const (
	SeverityLow      IncidentSeverity = "LOW"
	SeverityMedium   IncidentSeverity = "MEDIUM"
	SeverityHigh     IncidentSeverity = "HIGH"
	SeverityCritical IncidentSeverity = "CRITICAL"
)

func ParseSeverity(s string) (IncidentSeverity, bool) {
	switch IncidentSeverity(s) {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return IncidentSeverity(s), true
	default:
		return "", false
	}
}

// Rank orders severities for minimum-severity filtering.
func (s IncidentSeverity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	default:
		return 0
	}
}

type Incident struct {
	ID          string           `json:"id"`
	CircleID    string           `json:"circle_id"`
	ReporterID  string           `json:"reporter_id"`
	Type        string           `json:"type"`
	Severity    IncidentSeverity `json:"severity"`
	Description string           `json:"description"`
	Status      IncidentStatus   `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	ResolvedAt  *time.Time       `json:"resolved_at,omitempty"`
}

// NextStatus returns the single forward step in the incident lifecycle.
// RESOLVED is terminal and maps to itself.
func (i *Incident) NextStatus() IncidentStatus {
	switch i.Status {
	case IncidentOpen:
		return IncidentInProgress
	case IncidentInProgress:
		return IncidentResolved
	default:
		return IncidentResolved
	}
}
