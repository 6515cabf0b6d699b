package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Sender delivers email. Implementations must return an error on any
// delivery failure so callers can roll back dependent state.
type Sender interface {
	Send(subject, body, from string, to []string) error
}

// SMTPSender sends mail through a plain SMTP relay.
type SMTPSender struct {
	addr string
	auth smtp.Auth
}

// NewSMTPSender creates a sender for host:port. Auth is skipped when
// username is empty (local relay).
func NewSMTPSender(host string, port int, username, password string) *SMTPSender {
	s := &SMTPSender{addr: fmt.Sprintf("%s:%d", host, port)}
	if username != "" {
		s.auth = smtp.PlainAuth("", username, password, host)
	}
	return s
}

// Send delivers a plain-text message.
func (s *SMTPSender) Send(subject, body, from string, to []string) error {
	msg := strings.Join([]string{
		"From: " + from,
		"To: " + strings.Join(to, ", "),
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(s.addr, s.auth, from, to, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
