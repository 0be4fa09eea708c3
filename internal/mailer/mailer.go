// Package mailer delivers contact form submissions to the site owner.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/Zachkp/cosmic-portfolio/internal/config"
	"github.com/Zachkp/cosmic-portfolio/internal/platform/logger"
)

var ErrNotConfigured = errors.New("SMTP credentials not configured")

type Message struct {
	Name    string
	Email   string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, m Message) error
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type SMTPMailer struct {
	cfg  config.SMTPConfig
	log  *logger.Logger
	send sendFunc
}

func NewSMTP(cfg config.SMTPConfig, log *logger.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, log: log.With("service", "Mailer"), send: smtp.SendMail}
}

func (m *SMTPMailer) Configured() bool {
	return m.cfg.User != "" && m.cfg.Pass != "" && m.cfg.Host != ""
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if !m.Configured() {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	to := m.cfg.To
	if to == "" {
		to = m.cfg.User
	}

	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	addr := m.cfg.Host + ":" + m.cfg.Port
	if err := m.send(addr, auth, m.cfg.User, []string{to}, compose(m.cfg.User, to, msg)); err != nil {
		m.log.Error("Error sending email", "error", err)
		return fmt.Errorf("send contact email: %w", err)
	}
	m.log.Info("Contact email sent", "subject", msg.Subject)
	return nil
}

func compose(from, to string, msg Message) []byte {
	subject := fmt.Sprintf("Portfolio Contact: %s", oneLine(msg.Subject))
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Subject: %s
Message:
%s

---
Sent from your portfolio contact form
`, msg.Name, msg.Email, msg.Subject, msg.Body)

	return []byte("To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + from + "\r\n" +
		"Reply-To: " + oneLine(msg.Email) + "\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		body + "\r\n")
}

// oneLine strips CR and LF so user input cannot add headers.
func oneLine(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
