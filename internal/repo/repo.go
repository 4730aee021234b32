// Package repo declares the repository contracts the engines depend on.
// The reference implementation is the in-memory store under memory/;
// a persistent store must preserve the same per-operation atomicity.
package repo

import (
	"context"
	"time"

	"github.com/circlehq/circles-api/internal/domain"
)

// Get methods return (nil, nil) for unknown ids; services translate that
// to domain.ErrNotFound at the operation boundary.

type UserRepo interface {
	// Create fails with domain.ErrDuplicateEmail on a case-insensitive
	// email collision.
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

type CircleRepo interface {
	Create(ctx context.Context, c *domain.Circle) (*domain.Circle, error)
	GetByID(ctx context.Context, id string) (*domain.Circle, error)
	List(ctx context.Context) ([]domain.Circle, error)
}

type MembershipRepo interface {
	Create(ctx context.Context, m *domain.Membership) (*domain.Membership, error)
	GetByID(ctx context.Context, id string) (*domain.Membership, error)
	Get(ctx context.Context, circleID, userID string) (*domain.Membership, error)
	ListByCircle(ctx context.Context, circleID string) ([]domain.Membership, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Membership, error)
	SetVerified(ctx context.Context, id string, verified bool) (*domain.Membership, error)
}

type AmenityRepo interface {
	Create(ctx context.Context, a *domain.Amenity) (*domain.Amenity, error)
	GetByID(ctx context.Context, id string) (*domain.Amenity, error)
	ListByCircle(ctx context.Context, circleID string) ([]domain.Amenity, error)
}

type BookingFilter struct {
	CircleID  string
	AmenityID string
	UserID    string
	Status    *domain.BookingStatus
}

type BookingRepo interface {
	// Create resolves the booking status from the approval flag and the
	// overlap test against active bookings on the same (circle, amenity).
	// Check and insert are indivisible with respect to concurrent creates.
	Create(ctx context.Context, b *domain.Booking, requiresApproval bool) (*domain.Booking, error)
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	List(ctx context.Context, f BookingFilter) ([]domain.Booking, error)
	// Transition applies a legal status move and stamps approval or
	// cancellation fields; returns domain.ErrInvalidState otherwise.
	Transition(ctx context.Context, id string, to domain.BookingStatus, actorID string, now time.Time) (*domain.Booking, error)
	// CheckIn stamps checked_in_at once; later calls return the booking
	// unchanged so the original timestamp is never overwritten.
	CheckIn(ctx context.Context, id string, now time.Time) (*domain.Booking, error)
}

type IncidentFilter struct {
	CircleID    string
	ReporterID  string
	Status      *domain.IncidentStatus
	MinSeverity *domain.IncidentSeverity
}

type IncidentRepo interface {
	Create(ctx context.Context, i *domain.Incident) (*domain.Incident, error)
	GetByID(ctx context.Context, id string) (*domain.Incident, error)
	List(ctx context.Context, f IncidentFilter) ([]domain.Incident, error)
	// Advance moves the incident one lifecycle step; RESOLVED is a no-op.
	Advance(ctx context.Context, id string, now time.Time) (*domain.Incident, error)
}

type ReputationRepo interface {
	// GetOrCreate lazily initializes the entry with defaults.
	GetOrCreate(ctx context.Context, userID, circleID string) (*domain.Reputation, error)
	ApplyThank(ctx context.Context, userID, circleID string) (*domain.Reputation, error)
	ApplyClaimCompleted(ctx context.Context, userID, circleID string) (*domain.Reputation, error)
}

type FeedRepo interface {
	CreatePost(ctx context.Context, p *domain.Post, withAsk bool) (*domain.Post, error)
	GetPost(ctx context.Context, id string) (*domain.Post, error)
	ListByCircle(ctx context.Context, circleID string) ([]domain.Post, error)
	AddThank(ctx context.Context, postID string) (*domain.Post, error)
	IncrementReports(ctx context.Context, postID string) (*domain.Post, error)
	GetAsk(ctx context.Context, postID string) (*domain.Ask, error)
	// ClaimAsk transitions open→claimed; any other state is ErrInvalidState.
	ClaimAsk(ctx context.Context, postID, claimerID string, now time.Time) (*domain.Ask, error)
	// CompleteAsk transitions claimed→done when callerID is the claimer.
	CompleteAsk(ctx context.Context, postID, callerID string, now time.Time) (*domain.Ask, error)
	// DeleteExpired removes posts past their TTL and their asks.
	DeleteExpired(ctx context.Context, now time.Time) (removed, remaining int, err error)
}

type ModerationRepo interface {
	CreateReport(ctx context.Context, r *domain.Report) (*domain.Report, error)
	CreateBlock(ctx context.Context, b *domain.Block) (*domain.Block, error)
	RecentReports(ctx context.Context, limit int) (total int, items []domain.Report, err error)
	RecentBlocks(ctx context.Context, limit int) (total int, items []domain.Block, err error)
}

type PollRepo interface {
	CreatePoll(ctx context.Context, p *domain.Poll, options []string) (*domain.Poll, []domain.PollOption, error)
	GetPoll(ctx context.Context, id string) (*domain.Poll, error)
	ListByCircle(ctx context.Context, circleID string) ([]domain.Poll, error)
	ListOptions(ctx context.Context, pollID string) ([]domain.PollOption, error)
	ListVotes(ctx context.Context, pollID string) ([]domain.PollVote, error)
	// Vote replaces any prior vote by the same user on the same poll.
	Vote(ctx context.Context, pollID, optionID, userID string) error
}

type CommunityRepo interface {
	CreateEvent(ctx context.Context, e *domain.Event) (*domain.Event, error)
	GetEvent(ctx context.Context, id string) (*domain.Event, error)
	ListEventsByCircle(ctx context.Context, circleID string) ([]domain.Event, error)
	ListRSVPs(ctx context.Context, eventID string) ([]domain.EventRSVP, error)
	// UpsertRSVP reports created=true when no prior RSVP existed.
	UpsertRSVP(ctx context.Context, eventID, userID string, status domain.RSVPStatus, now time.Time) (rsvp *domain.EventRSVP, created bool, err error)
	ListEventsRSVPedBy(ctx context.Context, userID string) ([]domain.Event, error)
	// CreateAnnouncement unpins any previously pinned announcement in the
	// circle when the new one is pinned.
	CreateAnnouncement(ctx context.Context, a *domain.Announcement) (*domain.Announcement, error)
	ListAnnouncements(ctx context.Context, circleID string) ([]domain.Announcement, error)
}
