package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/kiliniks-api/internal/config"
)

// Dialer is the part of *gomail.Dialer the sender needs.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type Sender struct {
	dialer Dialer
	from   string
}

func NewSender(cfg config.EmailConfig) *Sender {
	return NewSenderWithDialer(gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password), cfg.From)
}

func NewSenderWithDialer(d Dialer, from string) *Sender {
	return &Sender{dialer: d, from: from}
}

// Send delivers a plain-text message to every recipient in one SMTP session.
func (s *Sender) Send(ctx context.Context, to []string, subject, body string) error {
	if len(to) == 0 {
		return fmt.Errorf("no recipients")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
