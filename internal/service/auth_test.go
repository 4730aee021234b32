package service

import (
	"context"
	"testing"
	"time"

	"github.com/circlehq/circles-api/internal/domain"
	"github.com/circlehq/circles-api/internal/repo/memory"
	"github.com/circlehq/circles-api/pkg/auth"
	"github.com/circlehq/circles-api/pkg/config"
)

func newAuthFixture(t *testing.T) (AuthService, *recordingMailer, config.AuthConfig) {
	t.Helper()

	cfg := config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour}
	mail := newRecordingMailer()
	userRepo := memory.NewUserRepo()
	if _, err := userRepo.Create(context.Background(), &domain.User{
		ID: "u1", Email: "maya@example.com", DisplayName: "Maya",
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	return NewAuthService(userRepo, mail, cfg), mail, cfg
}

func TestOTPFlow(t *testing.T) {
	svc, mail, cfg := newAuthFixture(t)
	ctx := context.Background()

	if err := svc.RequestOTP(ctx, "maya@example.com"); err != nil {
		t.Fatalf("request otp: %v", err)
	}
	code, ok := mail.otps["maya@example.com"]
	if !ok || len(code) != 6 {
		t.Fatalf("no 6-digit code delivered: %q", code)
	}

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	if _, err := svc.Verify(ctx, "maya@example.com", wrong); !domain.IsValidation(err) {
		t.Errorf("wrong code: got %v, want validation error", err)
	}

	token, err := svc.Verify(ctx, "maya@example.com", code)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	claims, err := auth.Parse(token, cfg.JWTSecret)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Sub != "u1" || claims.Email != "maya@example.com" {
		t.Errorf("claims = %+v", claims)
	}

	// Codes are single-use.
	if _, err := svc.Verify(ctx, "maya@example.com", code); !domain.IsValidation(err) {
		t.Errorf("code reuse: got %v, want validation error", err)
	}
}

func TestOTPUnknownEmail(t *testing.T) {
	svc, mail, _ := newAuthFixture(t)
	ctx := context.Background()

	// No enumeration: the request succeeds but nothing is sent.
	if err := svc.RequestOTP(ctx, "ghost@example.com"); err != nil {
		t.Fatalf("request otp for unknown email: %v", err)
	}
	if _, ok := mail.otps["ghost@example.com"]; ok {
		t.Error("no code should be sent for unknown accounts")
	}
}

func TestOTPExpiry(t *testing.T) {
	svc, mail, _ := newAuthFixture(t)
	ctx := context.Background()

	as := svc.(*authService)
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	as.now = func() time.Time { return base }

	if err := svc.RequestOTP(ctx, "maya@example.com"); err != nil {
		t.Fatalf("request otp: %v", err)
	}
	code := mail.otps["maya@example.com"]

	as.now = func() time.Time { return base.Add(16 * time.Minute) }
	if _, err := svc.Verify(ctx, "maya@example.com", code); !domain.IsValidation(err) {
		t.Errorf("expired code: got %v, want validation error", err)
	}
}
