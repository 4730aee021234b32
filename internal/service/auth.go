package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/circlehq/circles-api/internal/domain"
	"github.com/circlehq/circles-api/internal/platform/mailer"
	"github.com/circlehq/circles-api/internal/repo"
	"github.com/circlehq/circles-api/pkg/auth"
	"github.com/circlehq/circles-api/pkg/config"
	"github.com/circlehq/circles-api/pkg/logger"
)

const otpTTL = 15 * time.Minute

// AuthService implements passwordless email sign-in: a short-lived OTP
// delivered by mail, exchanged for a bearer token.
type AuthService interface {
	RequestOTP(ctx context.Context, email string) error
	Verify(ctx context.Context, email, code string) (token string, err error)
}

type otpEntry struct {
	code      string
	expiresAt time.Time
}

type authService struct {
	userRepo repo.UserRepo
	mail     mailer.Mailer
	cfg      config.AuthConfig

	mu    sync.Mutex
	codes map[string]otpEntry
	now   func() time.Time
}

func NewAuthService(userRepo repo.UserRepo, mail mailer.Mailer, cfg config.AuthConfig) AuthService {
	return &authService{
		userRepo: userRepo,
		mail:     mail,
		cfg:      cfg,
		codes:    make(map[string]otpEntry),
		now:      time.Now,
	}
}

// RequestOTP always reports success to the caller so email addresses
// cannot be enumerated; the code is only sent when the account exists.
func (s *authService) RequestOTP(ctx context.Context, email string) error {
	if email == "" {
		return domain.Validationf("email required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		logger.WarnContext(ctx, "OTP requested for unknown email")
		return nil
	}

	code, err := generateOTP()
	if err != nil {
		return fmt.Errorf("failed to generate OTP: %w", err)
	}

	s.mu.Lock()
	s.codes[user.Email] = otpEntry{code: code, expiresAt: s.now().Add(otpTTL)}
	s.mu.Unlock()

	if err := s.mail.SendOTP(user.Email, code); err != nil {
		logger.ErrorContext(ctx, "Failed to send OTP email", "error", err)
	}

	return nil
}

func (s *authService) Verify(ctx context.Context, email, code string) (string, error) {
	if email == "" || code == "" {
		return "", domain.Validationf("email and code required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", domain.ErrNotFound
	}

	s.mu.Lock()
	entry, ok := s.codes[user.Email]
	if ok && entry.code == code && s.now().Before(entry.expiresAt) {
		delete(s.codes, user.Email)
	} else {
		ok = false
	}
	s.mu.Unlock()

	if !ok {
		return "", domain.Validationf("invalid or expired code")
	}

	return auth.NewToken(user.ID, user.Email, s.cfg.JWTSecret, s.cfg.TokenTTL)
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
