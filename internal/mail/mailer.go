// Package mail provides outbound mail delivery for invite notifications.
package mail

import (
	"context"
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/config"
)

// Mailer sends a single outbound message. Delivery is fire-and-forget from
// the caller's point of view: failures are logged, never surfaced.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPMailer delivers mail through a plain SMTP endpoint.
type SMTPMailer struct {
	cfg    config.MailConfig
	logger *zap.SugaredLogger
}

// NewSMTPMailer creates a mailer from mail configuration.
func NewSMTPMailer(cfg config.MailConfig, logger *zap.SugaredLogger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, logger: logger}
}

// Send delivers one message, bounded by the configured send timeout.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.SendTimeout)
	defer cancel()

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.cfg.From, to, subject, body)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(m.cfg.Address(), auth, m.cfg.From, []string{to}, []byte(msg))
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send failed: %w", err)
		}
		m.logger.Infow("mail sent", "to", to, "subject", subject)
		return nil
	}
}

// NopMailer discards all messages. Used when outbound mail is disabled.
type NopMailer struct{}

// Send does nothing.
func (NopMailer) Send(ctx context.Context, to, subject, body string) error {
	return nil
}

// FromConfig returns the mailer matching the configuration.
func FromConfig(cfg config.MailConfig, logger *zap.SugaredLogger) Mailer {
	if !cfg.Enabled {
		return NopMailer{}
	}
	return NewSMTPMailer(cfg, logger)
}
