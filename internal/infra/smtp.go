package infra

import (
	"errors"
	"fmt"
	"net/smtp"

	"wareinc/internal/config"

	"github.com/jordan-wright/email"
)

// ErrMailerDisabled is returned when SMTP_HOST is not configured.
var ErrMailerDisabled = errors.New("mailer: SMTP no configurado")

// Mailer sends stock alerts and period backups by SMTP.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

func (m *Mailer) Enabled() bool { return m.host != "" }

// Send delivers a plain-text email; attachmentPath is optional.
func (m *Mailer) Send(to, subject, body, attachmentPath string) error {
	if !m.Enabled() {
		return ErrMailerDisabled
	}
	e := email.NewEmail()
	e.From = m.user
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	if attachmentPath != "" {
		if _, err := e.AttachFile(attachmentPath); err != nil {
			return fmt.Errorf("mailer: attach %s: %w", attachmentPath, err)
		}
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return e.Send(m.addr, auth)
}
