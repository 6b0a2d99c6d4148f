package utils

import (
	"context"
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"CREATESHARE_BACK-END/internal/config"
)

// Mailer delivers account emails
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, name, resetURL string) error
}

// EmailService handles email sending operations over SMTP
type EmailService struct {
	config *config.EmailConfig
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{
		config: cfg,
	}
}

// SendPasswordReset sends the password reset link to the user
func (e *EmailService) SendPasswordReset(ctx context.Context, to, name, resetURL string) error {
	subject := "Your password reset token (valid for 10 minutes)"
	body := fmt.Sprintf(`
Hi %s,

Forgot your password? Submit a PATCH request with your new password and passwordConfirm to:

%s

If you didn't forget your password, please ignore this email.

The %s Team
	`, name, resetURL, e.config.FromName)

	if err := ctx.Err(); err != nil {
		return err
	}
	return e.sendEmail(to, subject, body)
}

// sendEmail sends an email using SMTP
func (e *EmailService) sendEmail(to, subject, body string) error {
	if e.config.SMTPUsername == "" || e.config.SMTPPassword == "" {
		return fmt.Errorf("email credentials not configured")
	}

	auth := smtp.PlainAuth("", e.config.SMTPUsername, e.config.SMTPPassword, e.config.SMTPHost)

	fromEmail := e.config.FromEmail
	if fromEmail == "" {
		fromEmail = e.config.SMTPUsername
	}

	message := []byte(fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"\r\n"+
			"%s\r\n",
		e.config.FromName, fromEmail, to, subject, body))

	addr := e.config.SMTPHost + ":" + e.config.SMTPPort
	if err := smtp.SendMail(addr, auth, fromEmail, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// LogMailer records outgoing mail in the log instead of sending it.
// Used when SMTP is not configured.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a new LogMailer instance
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// SendPasswordReset logs the recipient. The reset link itself is not logged.
func (m *LogMailer) SendPasswordReset(_ context.Context, to, _, _ string) error {
	m.logger.Info("password reset email suppressed, SMTP not configured", zap.String("to", to))
	return nil
}
