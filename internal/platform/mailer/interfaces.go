package mailer

// Mailer delivers the two transactional emails the service sends:
// circle invites and the sign-in OTP stub.
type Mailer interface {
	SendInvite(toEmail, circleName, inviterName string) error
	SendOTP(toEmail, code string) error
}
