// internal/pkg/email/service.go
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/url"

	"github.com/nishantmakwanaa/clothing-store/internal/config"
	"github.com/sirupsen/logrus"
)

// Sender delivers a rendered email
type Sender interface {
	Send(ctx context.Context, email *Email) error
}

// LogSender writes emails to the log instead of delivering them
type LogSender struct {
	log logrus.FieldLogger
}

// NewLogSender creates a sender for development environments
func NewLogSender(log logrus.FieldLogger) *LogSender {
	return &LogSender{log: log}
}

// Send logs the message metadata and body
func (s *LogSender) Send(_ context.Context, email *Email) error {
	s.log.WithFields(logrus.Fields{
		"to":      email.To,
		"subject": email.Subject,
		"type":    email.Type,
	}).Info(email.TextContent)
	return nil
}

const passwordResetTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Reset your {{.SiteName}} password</h2>
  <p>Hi {{.UserName}},</p>
  <p>We received a request to reset the password for {{.UserEmail}}.</p>
  <p><a href="{{.ResetURL}}">Choose a new password</a></p>
  <p>Or use this reset code: <strong>{{.Token}}</strong></p>
  <p>This link expires in {{.ExpiryTime}}. If you did not ask for a reset you can ignore this email.</p>
  <p style="font-size: 12px; color: #999;">&copy; {{.Year}} {{.SiteName}}</p>
</body>
</html>`

// Service renders and sends account emails
type Service struct {
	sender      Sender
	cfg         config.EmailConfig
	resetExpiry string
	templates   map[EmailType]*template.Template
	log         logrus.FieldLogger
}

// NewService creates an email service using the configured provider
func NewService(cfg *config.Config, log logrus.FieldLogger) (*Service, error) {
	var sender Sender
	switch cfg.Email.Provider {
	case "smtp":
		smtpSender, err := NewSMTPSender(cfg.Email)
		if err != nil {
			return nil, err
		}
		sender = smtpSender
	case "log", "":
		sender = NewLogSender(log.WithField("component", "email"))
	default:
		return nil, fmt.Errorf("unsupported email provider: %s", cfg.Email.Provider)
	}
	return NewServiceWithSender(cfg, sender, log), nil
}

// NewServiceWithSender creates an email service around an explicit sender
func NewServiceWithSender(cfg *config.Config, sender Sender, log logrus.FieldLogger) *Service {
	return &Service{
		sender:      sender,
		cfg:         cfg.Email,
		resetExpiry: cfg.Security.PasswordResetExpiry.String(),
		templates: map[EmailType]*template.Template{
			EmailTypePasswordReset: template.Must(template.New(string(EmailTypePasswordReset)).Parse(passwordResetTemplate)),
		},
		log: log.WithField("component", "email_service"),
	}
}

// SendPasswordResetEmail sends the reset link for a freshly issued token
func (s *Service) SendPasswordResetEmail(ctx context.Context, to, name, token string) error {
	resetURL, err := s.resetLink(token)
	if err != nil {
		return err
	}

	data := PasswordResetData{
		EmailTemplateData: GetBaseTemplateData(s.cfg.FromName, name, to),
		ResetURL:          resetURL,
		Token:             token,
		ExpiryTime:        s.resetExpiry,
	}

	htmlContent, err := s.render(EmailTypePasswordReset, data)
	if err != nil {
		return fmt.Errorf("failed to render password reset template: %w", err)
	}

	email := &Email{
		To:          []string{to},
		Subject:     fmt.Sprintf("Reset your %s password", s.cfg.FromName),
		HTMLContent: htmlContent,
		TextContent: fmt.Sprintf("Reset your password: %s", resetURL),
		Type:        EmailTypePasswordReset,
	}

	if err := s.sender.Send(ctx, email); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	return nil
}

func (s *Service) resetLink(token string) (string, error) {
	u, err := url.Parse(s.cfg.ResetURL)
	if err != nil {
		return "", fmt.Errorf("invalid password reset URL: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (s *Service) render(t EmailType, data interface{}) (string, error) {
	tmpl, ok := s.templates[t]
	if !ok {
		return "", fmt.Errorf("template %s not found", t)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
