// Package mailer sends transactional mail for the password reset flow.
package mailer

import (
	"fmt"
	"net"
	"net/smtp"

	"github.com/gridworks/plotregistry/api/internal/config"
)

// Mailer sends a plain-text message to a single recipient.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer delivers mail through a single SMTP relay using PLAIN auth.
type SMTPMailer struct {
	cfg config.SMTPConfig
}

// New creates an SMTPMailer from configuration.
func New(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send delivers a plain-text message. It fails when the relay is not
// configured; callers decide whether that failure is surfaced (the
// forgot-password flow logs it and stays success-shaped).
func (m *SMTPMailer) Send(to, subject, body string) error {
	if m.cfg.Host == "" {
		return fmt.Errorf("smtp relay is not configured")
	}

	addr := net.JoinHostPort(m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)

	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s\r\n",
		m.cfg.From, to, subject, body,
	)

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}
