package mailer

import (
	"fmt"
	"net/smtp"

	"gigbridge/config"
)

// Sender delivers an email. Failures are reported to the caller, who treats
// them as best-effort: logged, never surfaced as an operation failure.
type Sender interface {
	Send(to, subject, body string) error
}

// SMTPSender implements Sender over plain SMTP with optional auth.
type SMTPSender struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// NewSMTPSender builds a sender from the application config.
func NewSMTPSender() *SMTPSender {
	return &SMTPSender{
		host:     config.AppConfig.SMTPHost,
		port:     config.AppConfig.SMTPPort,
		username: config.AppConfig.SMTPUser,
		password: config.AppConfig.SMTPPassword,
		from:     config.AppConfig.SMTPFrom,
	}
}

func (s *SMTPSender) Send(to, subject, body string) error {
	if s.host == "" {
		return fmt.Errorf("smtp host not configured")
	}

	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"utf-8\"\r\n\r\n%s\r\n",
		s.from, to, subject, body))

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	addr := s.host + ":" + s.port
	if err := smtp.SendMail(addr, auth, s.from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
