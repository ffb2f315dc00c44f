/*
Package mail delivers the emails produced by the reporting and lifecycle
flows.

PURPOSE:
  The engine's responsibility ends at recipient/subject/body (plus optional
  attachments); this package carries them to an SMTP server. Send failures
  are reported to the caller and never roll back state changes that
  triggered the notification.

SEE ALSO:
  - notifications.go: lifecycle notification bodies
  - dispatch/: company report delivery
*/
package mail

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"
)

// =============================================================================
// MESSAGE
// =============================================================================

// Attachment is a file attached to an outgoing message.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Message is one outgoing email.
type Message struct {
	To          []string
	Subject     string
	Text        string // plain-text body
	HTML        string // optional HTML alternative
	Attachments []Attachment
}

// Mailer delivers messages. Implementations carry their own timeout and
// retry policy.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// =============================================================================
// SMTP MAILER
// =============================================================================

// Config holds SMTP transport settings.
type Config struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
}

// SMTP is the production Mailer backed by an SMTP server.
type SMTP struct {
	cfg    Config
	dialer *gomail.Dialer
	log    *zap.Logger
}

// NewSMTP creates an SMTP mailer from config.
func NewSMTP(cfg Config, log *zap.Logger) *SMTP {
	if log == nil {
		log = zap.NewNop()
	}
	return &SMTP{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		log:    log,
	}
}

// Send delivers the message, honoring context cancellation between dial
// attempts.
func (s *SMTP) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.FromEmail, s.cfg.FromName)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		m.AddAlternative("text/html", msg.HTML)
	}
	for _, att := range msg.Attachments {
		att := att
		settings := []gomail.FileSetting{
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(att.Content)
				return err
			}),
		}
		if att.ContentType != "" {
			settings = append(settings, gomail.SetHeader(map[string][]string{
				"Content-Type": {att.ContentType},
			}))
		}
		m.Attach(att.Filename, settings...)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		s.log.Error("email send failed",
			zap.Strings("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Error(err))
		return fmt.Errorf("send email: %w", err)
	}

	s.log.Info("email sent",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}

var _ Mailer = (*SMTP)(nil)
