package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/circlehq/circles-api/internal/domain"
	"github.com/circlehq/circles-api/internal/platform/mailer"
	"github.com/circlehq/circles-api/internal/repo"
	"github.com/circlehq/circles-api/pkg/events"
	"github.com/circlehq/circles-api/pkg/logger"
)

// RegistryService answers who a user is and what role they hold in a
// circle. Every other engine resolves permissions through it.
type RegistryService interface {
	RegisterUser(ctx context.Context, email, displayName string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	CreateCircle(ctx context.Context, name string, circleType domain.CircleType, creatorID string) (*domain.Circle, error)
	ListCircles(ctx context.Context) ([]domain.Circle, error)
	ListUserCircles(ctx context.Context, userID string) ([]domain.Circle, error)
	JoinCircle(ctx context.Context, circleID, userID string, requestedRole domain.Role) (m *domain.Membership, created bool, err error)
	AddMember(ctx context.Context, circleID, actingUserID, userID string, role domain.Role) (*domain.Membership, error)
	ListMembers(ctx context.Context, circleID string) ([]domain.Membership, error)
	IsAdmin(ctx context.Context, userID, circleID string) (bool, error)
	SetVerified(ctx context.Context, membershipID string, verified bool, actingUserID string) (*domain.Membership, error)
	InviteMember(ctx context.Context, circleID, actingUserID, email string) (*domain.Invite, error)
	IsMember(ctx context.Context, userID, circleID string) (bool, error)
}

type registryService struct {
	userRepo       repo.UserRepo
	circleRepo     repo.CircleRepo
	membershipRepo repo.MembershipRepo
	mail           mailer.Mailer
	eventBus       events.EventBus
}

func NewRegistryService(
	userRepo repo.UserRepo,
	circleRepo repo.CircleRepo,
	membershipRepo repo.MembershipRepo,
	mail mailer.Mailer,
	eventBus events.EventBus,
) RegistryService {
	return &registryService{
		userRepo:       userRepo,
		circleRepo:     circleRepo,
		membershipRepo: membershipRepo,
		mail:           mail,
		eventBus:       eventBus,
	}
}

func (s *registryService) RegisterUser(ctx context.Context, email, displayName string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || displayName == "" {
		return nil, domain.Validationf("email and display_name required")
	}

	return s.userRepo.Create(ctx, &domain.User{
		Email:       email,
		DisplayName: displayName,
	})
}

func (s *registryService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (s *registryService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.List(ctx)
}

func (s *registryService) CreateCircle(ctx context.Context, name string, circleType domain.CircleType, creatorID string) (*domain.Circle, error) {
	if name == "" {
		return nil, domain.Validationf("name and type required")
	}

	circle, err := s.circleRepo.Create(ctx, &domain.Circle{
		Name:      name,
		Type:      circleType,
		CreatedBy: creatorID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create circle: %w", err)
	}

	// The creator is enrolled as a verified admin.
	if _, err := s.membershipRepo.Create(ctx, &domain.Membership{
		CircleID: circle.ID,
		UserID:   creatorID,
		Role:     domain.RoleAdmin,
		Verified: true,
	}); err != nil {
		return nil, fmt.Errorf("failed to enroll circle creator: %w", err)
	}

	return circle, nil
}

func (s *registryService) ListCircles(ctx context.Context) ([]domain.Circle, error) {
	return s.circleRepo.List(ctx)
}

func (s *registryService) ListUserCircles(ctx context.Context, userID string) ([]domain.Circle, error) {
	memberships, err := s.membershipRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var circles []domain.Circle
	for _, m := range memberships {
		c, err := s.circleRepo.GetByID(ctx, m.CircleID)
		if err != nil {
			return nil, err
		}
		if c != nil {
			circles = append(circles, *c)
		}
	}
	return circles, nil
}

func (s *registryService) JoinCircle(ctx context.Context, circleID, userID string, requestedRole domain.Role) (*domain.Membership, bool, error) {
	circle, err := s.circleRepo.GetByID(ctx, circleID)
	if err != nil {
		return nil, false, err
	}
	if circle == nil {
		return nil, false, domain.ErrNotFound
	}

	// Idempotent: an existing membership is returned unchanged.
	if existing, err := s.membershipRepo.Get(ctx, circleID, userID); err != nil {
		return nil, false, err
	} else if existing != nil {
		return existing, false, nil
	}

	role := requestedRole
	if role == "" {
		role = domain.RoleResident
	}

	m, err := s.membershipRepo.Create(ctx, &domain.Membership{
		CircleID: circleID,
		UserID:   userID,
		Role:     role,
		Verified: false,
	})
	if err != nil {
		return nil, false, err
	}

	if err := s.eventBus.Publish(ctx, events.MemberJoined, events.MemberJoinedEvent{
		MembershipID: m.ID,
		CircleID:     m.CircleID,
		UserID:       m.UserID,
		Role:         string(m.Role),
	}); err != nil {
		logger.ErrorContext(ctx, "Failed to publish member joined event", "error", err, "membership_id", m.ID)
	}

	return m, true, nil
}

func (s *registryService) AddMember(ctx context.Context, circleID, actingUserID, userID string, role domain.Role) (*domain.Membership, error) {
	admin, err := s.IsAdmin(ctx, actingUserID, circleID)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, domain.ErrPermissionDenied
	}

	return s.membershipRepo.Create(ctx, &domain.Membership{
		CircleID: circleID,
		UserID:   userID,
		Role:     role,
	})
}

func (s *registryService) ListMembers(ctx context.Context, circleID string) ([]domain.Membership, error) {
	return s.membershipRepo.ListByCircle(ctx, circleID)
}

func (s *registryService) IsAdmin(ctx context.Context, userID, circleID string) (bool, error) {
	m, err := s.membershipRepo.Get(ctx, circleID, userID)
	if err != nil {
		return false, err
	}
	if m == nil {
		return false, nil
	}
	return m.Role.Administrative(), nil
}

func (s *registryService) IsMember(ctx context.Context, userID, circleID string) (bool, error) {
	m, err := s.membershipRepo.Get(ctx, circleID, userID)
	if err != nil {
		return false, err
	}
	return m != nil, nil
}

func (s *registryService) SetVerified(ctx context.Context, membershipID string, verified bool, actingUserID string) (*domain.Membership, error) {
	m, err := s.membershipRepo.GetByID(ctx, membershipID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}

	admin, err := s.IsAdmin(ctx, actingUserID, m.CircleID)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, domain.ErrPermissionDenied
	}

	return s.membershipRepo.SetVerified(ctx, membershipID, verified)
}

func (s *registryService) InviteMember(ctx context.Context, circleID, actingUserID, email string) (*domain.Invite, error) {
	if email == "" {
		return nil, domain.Validationf("email required")
	}

	circle, err := s.circleRepo.GetByID(ctx, circleID)
	if err != nil {
		return nil, err
	}
	if circle == nil {
		return nil, domain.ErrNotFound
	}

	admin, err := s.IsAdmin(ctx, actingUserID, circleID)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, domain.ErrPermissionDenied
	}

	inviter, err := s.userRepo.GetByID(ctx, actingUserID)
	inviterName := actingUserID
	if err == nil && inviter != nil {
		inviterName = inviter.DisplayName
	}

	if err := s.mail.SendInvite(email, circle.Name, inviterName); err != nil {
		logger.ErrorContext(ctx, "Failed to send invite email", "error", err, "circle_id", circleID)
	}

	return &domain.Invite{
		CircleID: circleID,
		Email:    email,
		Status:   "pending",
	}, nil
}
