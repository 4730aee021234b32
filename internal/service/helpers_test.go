package service

import (
	"context"
	"testing"
	"time"

	"github.com/circlehq/circles-api/internal/domain"
	"github.com/circlehq/circles-api/internal/rate"
	"github.com/circlehq/circles-api/internal/repo/memory"
	"github.com/circlehq/circles-api/pkg/config"
	"github.com/circlehq/circles-api/pkg/events"
)

// recordingMailer captures outbound mail for assertions.
type recordingMailer struct {
	invites []string
	otps    map[string]string
}

func newRecordingMailer() *recordingMailer {
	return &recordingMailer{otps: make(map[string]string)}
}

func (m *recordingMailer) SendInvite(toEmail, circleName, inviterName string) error {
	m.invites = append(m.invites, toEmail)
	return nil
}

func (m *recordingMailer) SendOTP(toEmail, code string) error {
	m.otps[toEmail] = code
	return nil
}

// fixture wires every engine against fresh in-memory state.
type fixture struct {
	mailer       *recordingMailer
	registry     RegistryService
	reservations ReservationService
	incidents    IncidentService
	reputation   ReputationService
	feed         FeedService
	polls        PollService
	community    CommunityService
	guard        GuardService
	cfg          *config.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := &config.Config{
		Guard: config.GuardConfig{
			Backend:         "memory",
			SignalLimit:     10,
			SignalWindow:    5 * time.Minute,
			NowCellDailyMax: 3,
		},
		Feed: config.FeedConfig{
			CleanupInterval: 10 * time.Minute,
			DefaultTTLHours: 24,
		},
		Auth: config.AuthConfig{
			JWTSecret: "test-secret",
			TokenTTL:  time.Hour,
		},
	}

	mail := newRecordingMailer()
	bus := events.NewNoopEventBus()

	userRepo := memory.NewUserRepo()
	circleRepo := memory.NewCircleRepo()
	membershipRepo := memory.NewMembershipRepo()
	amenityRepo := memory.NewAmenityRepo()
	bookingRepo := memory.NewBookingRepo()
	incidentRepo := memory.NewIncidentRepo()
	reputationRepo := memory.NewReputationRepo()
	feedRepo := memory.NewFeedRepo()
	moderationRepo := memory.NewModerationRepo()
	pollRepo := memory.NewPollRepo()
	communityRepo := memory.NewCommunityRepo()

	registry := NewRegistryService(userRepo, circleRepo, membershipRepo, mail, bus)
	reputation := NewReputationService(reputationRepo)
	guard := NewGuardService(rate.NewMemoryLimiter(), cfg.Guard)

	f := &fixture{
		mailer:       mail,
		registry:     registry,
		reservations: NewReservationService(amenityRepo, bookingRepo, registry, bus),
		incidents:    NewIncidentService(incidentRepo, registry, bus),
		reputation:   reputation,
		feed:         NewFeedService(feedRepo, moderationRepo, reputation, registry, guard, bus, cfg.Feed),
		polls:        NewPollService(pollRepo, registry),
		community:    NewCommunityService(communityRepo, registry),
		guard:        guard,
		cfg:          cfg,
	}

	ctx := context.Background()
	seedUsers := []domain.User{
		{ID: "u1", Email: "maya@example.com", DisplayName: "Maya"},
		{ID: "u2", Email: "admin@example.com", DisplayName: "Alex"},
		{ID: "u3", Email: "riley@example.com", DisplayName: "Riley"},
	}
	for i := range seedUsers {
		if _, err := userRepo.Create(ctx, &seedUsers[i]); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
	if _, err := circleRepo.Create(ctx, &domain.Circle{ID: "c1", Name: "Maple Court", Type: domain.CircleApartment}); err != nil {
		t.Fatalf("seed circle: %v", err)
	}
	seedMembers := []domain.Membership{
		{ID: "m1", CircleID: "c1", UserID: "u1", Role: domain.RoleResident, Verified: true},
		{ID: "m2", CircleID: "c1", UserID: "u2", Role: domain.RoleAdmin, Verified: true},
		{ID: "m3", CircleID: "c1", UserID: "u3", Role: domain.RoleResident, Verified: true},
	}
	for i := range seedMembers {
		if _, err := membershipRepo.Create(ctx, &seedMembers[i]); err != nil {
			t.Fatalf("seed membership: %v", err)
		}
	}
	seedAmenities := []domain.Amenity{
		{ID: "gym", CircleID: "c1", Name: "Gym", RequiresApproval: false},
		{ID: "roof", CircleID: "c1", Name: "Rooftop", RequiresApproval: true},
	}
	for i := range seedAmenities {
		if _, err := amenityRepo.Create(ctx, &seedAmenities[i]); err != nil {
			t.Fatalf("seed amenity: %v", err)
		}
	}

	return f
}
