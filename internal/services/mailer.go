// internal/services/mailer.go
package services

import (
	"fmt"
	"net/smtp"

	"github.com/sirupsen/logrus"

	"github.com/wareflow/wareflow-backend/internal/config"
)

// EmailSender is the fire-and-forget email sink used by the dispatcher.
type EmailSender interface {
	Send(to, subject, body string) error
}

type smtpMailer struct {
	cfg config.EmailConfig
}

func NewSMTPMailer(cfg config.EmailConfig) EmailSender {
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) Send(to, subject, body string) error {
	if m.cfg.SMTPHost == "" {
		// Email not configured, just log
		logrus.WithFields(logrus.Fields{"to": to, "subject": subject}).Info("Email delivery skipped (SMTP not configured)")
		return nil
	}

	auth := smtp.PlainAuth("", m.cfg.SMTPUsername, m.cfg.SMTPPassword, m.cfg.SMTPHost)

	msg := []byte(fmt.Sprintf(
		"From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		m.cfg.FromName, m.cfg.FromEmail, to, subject, body))

	addr := fmt.Sprintf("%s:%s", m.cfg.SMTPHost, m.cfg.SMTPPort)
	return smtp.SendMail(addr, auth, m.cfg.FromEmail, []string{to}, msg)
}
