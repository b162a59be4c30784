package mail

import (
	"fmt"
	"net/smtp"

	"esls/api/internal/config"
)

// Mailer delivers the activation code after registration.
type Mailer interface {
	SendActivation(to, name, code string) error
}

type SMTPMailer struct {
	cfg config.MailConfig
}

func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) SendActivation(to, name, code string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Account activation\r\n\r\n"+
		"Hello %s,\r\n\r\nYour activation code is %s. It expires soon, activate promptly.\r\n",
		m.cfg.From, to, name, code)

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send activation mail: %w", err)
	}
	return nil
}
