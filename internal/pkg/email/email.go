package email

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// EmailService defines the interface for email operations
type EmailService interface {
	SendOTPEmail(toEmail, code string, validity time.Duration) error
}

// SMTPConfig holds configuration for the SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
}

// EmailServiceImpl implements EmailService over SMTP
type EmailServiceImpl struct {
	config SMTPConfig
	dialer *gomail.Dialer
	logger zerolog.Logger
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) EmailService {
	return &EmailServiceImpl{
		config: config,
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
		logger: logger,
	}
}

// SendOTPEmail sends the one-time passcode to the given address.
func (s *EmailServiceImpl) SendOTPEmail(toEmail, code string, validity time.Duration) error {
	// If credentials are not configured, log the code instead (development only)
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("code", code).
			Msg("SMTP credentials not configured - OTP email not sent. Use the code above for testing.")
		return nil
	}

	subject := "Your CampusLink Login Code"
	minutes := int(validity.Minutes())

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">CampusLink Login</h2>
				<p>Your one-time login code is:</p>

				<div style="text-align: center; margin: 30px 0;">
					<span style="font-size: 32px; letter-spacing: 8px; font-weight: bold;">%s</span>
				</div>

				<p>This code is valid for %d minutes and can be used once.</p>

				<p>If you did not request a login code, you can safely ignore this email.</p>

				<p>Best regards,<br>The CampusLink Team</p>
			</div>
		</body>
		</html>
	`, code, minutes)

	msg := gomail.NewMessage()
	msg.SetHeader("From", msg.FormatAddress(s.config.FromEmail, s.config.FromName))
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(msg); err != nil {
		s.logger.Error().Err(err).Str("toEmail", toEmail).Msg("Failed to send OTP email")
		return fmt.Errorf("failed to send OTP email: %w", err)
	}

	s.logger.Debug().Str("toEmail", toEmail).Msg("OTP email sent")
	return nil
}
