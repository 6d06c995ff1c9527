package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// AlertSender notifies operators about conditions the system tolerates
// but does not repair on its own: a ledger/external-toggle divergence
// and an abandoned scheduler tick.
type AlertSender interface {
	SendAlert(subject, body string) error
}

type Config struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	AlertEmail   string
}

type smtpSender struct {
	cfg    Config
	dialer *gomail.Dialer
}

func NewSMTPSender(cfg Config) AlertSender {
	return &smtpSender{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
	}
}

func (s *smtpSender) SendAlert(subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.FromEmail)
	m.SetHeader("To", s.cfg.AlertEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send alert mail: %w", err)
	}
	return nil
}

// NoopSender discards alerts. Used when alerting is disabled and in
// tests.
type NoopSender struct{}

func (NoopSender) SendAlert(subject, body string) error {
	return nil
}
