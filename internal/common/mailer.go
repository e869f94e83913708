package common

import (
	"context"
	"crypto/tls"
	"fmt"

	"gopkg.in/gomail.v2"

	"riverbend/portal/internal/config"
	"riverbend/portal/internal/logging"
)

// EmailMessage is a rendered transactional email.
type EmailMessage struct {
	To       string
	Subject  string
	HTML     string
	Template EmailTemplate
}

// Mailer delivers rendered email. Implementations do not retry.
type Mailer interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// SMTPMailer sends through the provider's SMTP relay. The provider API key
// is the SMTP password.
type SMTPMailer struct {
	from   string
	dialer *gomail.Dialer
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.EmailAPIKey)
	d.TLSConfig = &tls.Config{ServerName: cfg.SMTPHost, MinVersion: tls.VersionTLS12}
	return &SMTPMailer{from: cfg.EmailFrom, dialer: d}
}

func (m *SMTPMailer) Send(ctx context.Context, msg EmailMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/html", msg.HTML)

	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("failed to send %s email: %w", msg.Template, err)
	}
	return nil
}

// LogMailer writes emails to the log instead of sending them. Used when no
// provider key is configured outside production.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, msg EmailMessage) error {
	logging.Info("Email not sent (no provider configured)",
		"to", msg.To,
		"subject", msg.Subject,
		"template", string(msg.Template),
	)
	return nil
}

// NewMailer picks the SMTP relay when an API key is present.
func NewMailer(cfg *config.Config) Mailer {
	if cfg.EmailAPIKey == "" {
		return LogMailer{}
	}
	return NewSMTPMailer(cfg)
}
