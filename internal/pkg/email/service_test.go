package email

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/nishantmakwanaa/clothing-store/internal/config"
	"github.com/nishantmakwanaa/clothing-store/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSender struct {
	sent []*Email
}

func (c *captureSender) Send(_ context.Context, email *Email) error {
	c.sent = append(c.sent, email)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Email: config.EmailConfig{
			Provider:  "log",
			FromEmail: "noreply@clothify.local",
			FromName:  "Clothify",
			ResetURL:  "https://clothify.local/reset",
		},
		Security: config.SecurityConfig{PasswordResetExpiry: time.Hour},
	}
}

func TestSendPasswordResetEmail(t *testing.T) {
	sender := &captureSender{}
	svc := NewServiceWithSender(testConfig(), sender, logger.Discard())

	err := svc.SendPasswordResetEmail(context.Background(), "ada@example.com", "Ada <Lovelace>", "tok-123")
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, []string{"ada@example.com"}, msg.To)
	assert.Equal(t, EmailTypePasswordReset, msg.Type)
	assert.Equal(t, "Reset your Clothify password", msg.Subject)
	assert.Contains(t, msg.HTMLContent, "https://clothify.local/reset?token=tok-123")
	assert.Contains(t, msg.HTMLContent, "Ada &lt;Lovelace&gt;")
	assert.Contains(t, msg.HTMLContent, "1h0m0s")
}

func TestNewServiceProviders(t *testing.T) {
	cfg := testConfig()
	_, err := NewService(cfg, logger.Discard())
	require.NoError(t, err)

	cfg.Email.Provider = "smtp"
	_, err = NewService(cfg, logger.Discard())
	assert.Error(t, err, "smtp needs a host")

	cfg.Email.Provider = "pigeon"
	_, err = NewService(cfg, logger.Discard())
	assert.Error(t, err)
}

func TestBuildMessageHeaders(t *testing.T) {
	msg := string(buildMessage(formatFrom("Clothify", "noreply@clothify.local"), &Email{
		To:          []string{"a@example.com", "b@example.com"},
		Subject:     "Hello",
		HTMLContent: "<p>hi</p>",
	}))

	assert.True(t, strings.HasPrefix(msg, "From: Clothify <noreply@clothify.local>\r\n"))
	assert.Contains(t, msg, "To: a@example.com, b@example.com\r\n")
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\n<p>hi</p>"))
}
