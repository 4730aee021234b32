package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"
)

type MailerSendClient struct {
	client  *mailersend.Mailersend
	from    mailersend.From
	enabled bool
}

func NewMailerSend(apiKey, fromName, fromEmail string) *MailerSendClient {
	m := &MailerSendClient{
		enabled: apiKey != "" && fromEmail != "",
		from: mailersend.From{
			Name:  fromName,
			Email: fromEmail,
		},
	}

	if m.enabled {
		m.client = mailersend.NewMailersend(apiKey)
	}

	return m
}

func (m *MailerSendClient) SendInvite(toEmail, circleName, inviterName string) error {
	if !m.enabled {
		return fmt.Errorf("MailerSend not configured")
	}

	subject := fmt.Sprintf("You're invited to join %s", circleName)
	html := fmt.Sprintf(`
		<h2>You're invited!</h2>
		<p>%s invited you to join <strong>%s</strong> on Circles.</p>
		<p>Open the app and join with this email address to get started.</p>
	`, inviterName, circleName)

	text := fmt.Sprintf("%s invited you to join %s on Circles. Open the app and join with this email address.", inviterName, circleName)

	return m.sendEmail(toEmail, "", subject, text, html)
}

func (m *MailerSendClient) SendOTP(toEmail, code string) error {
	if !m.enabled {
		return fmt.Errorf("MailerSend not configured")
	}

	subject := "Your Circles sign-in code"
	html := fmt.Sprintf(`
		<h2>Your sign-in code</h2>
		<p>Your code is: <strong style="font-size: 24px;">%s</strong></p>
		<p>This code will expire in 15 minutes.</p>
	`, code)

	text := fmt.Sprintf("Your Circles sign-in code is: %s", code)

	return m.sendEmail(toEmail, "", subject, text, html)
}

func (m *MailerSendClient) sendEmail(toEmail, toName, subject, text, html string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Name: toName, Email: toEmail}})
	msg.SetSubject(subject)

	if strings.TrimSpace(text) != "" {
		msg.SetText(text)
	}
	if strings.TrimSpace(html) != "" {
		msg.SetHTML(html)
	}

	_, err := m.client.Email.Send(ctx, msg)
	return err
}
