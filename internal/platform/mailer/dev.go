package mailer

import (
	"github.com/circlehq/circles-api/pkg/logger"
)

// DevMailer logs instead of sending. Default when no MailerSend key is
// configured.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) SendInvite(toEmail, circleName, inviterName string) error {
	logger.Info("[DEV MAIL] Circle invite",
		"to", toEmail,
		"circle", circleName,
		"invited_by", inviterName,
	)
	return nil
}

func (d *DevMailer) SendOTP(toEmail, code string) error {
	logger.Info("[DEV MAIL] Sign-in code",
		"to", toEmail,
		"code", code,
	)
	return nil
}
