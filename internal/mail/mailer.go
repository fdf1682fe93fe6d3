// Package mail sends outreach messages over SMTP.
package mail

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	gomail "github.com/wneessen/go-mail"
)

// ErrNotConfigured is returned by senders that have no SMTP settings.
var ErrNotConfigured = errors.New("smtp not configured")

// Message is one outbound email. HTMLBody is optional; when set it is sent
// as an alternative part next to TextBody.
type Message struct {
	From        string
	To          []string
	Subject     string
	TextBody    string
	HTMLBody    string
	Attachments []string // file paths
}

// Validate checks the fields every send needs.
func (m Message) Validate() error {
	if strings.TrimSpace(m.From) == "" {
		return fmt.Errorf("sender address is required")
	}
	if len(m.To) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}
	if strings.TrimSpace(m.Subject) == "" {
		return fmt.Errorf("subject is required")
	}
	return nil
}

// Mailer delivers a Message or reports why it could not.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPConfig holds the relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// TLS is one of "mandatory", "opportunistic" or "none".
	TLS string
}

// Configured reports whether enough is set to attempt delivery.
func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.From != ""
}

// SMTPMailer implements Mailer with go-mail.
type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (s *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if !s.cfg.Configured() {
		return ErrNotConfigured
	}
	if msg.From == "" {
		msg.From = s.cfg.From
	}

	m, err := buildMessage(msg)
	if err != nil {
		return err
	}

	client, err := gomail.NewClient(s.cfg.Host, s.clientOptions()...)
	if err != nil {
		return fmt.Errorf("creating smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("sending mail via %s: %w", s.cfg.Host, err)
	}
	return nil
}

func (s *SMTPMailer) clientOptions() []gomail.Option {
	var opts []gomail.Option
	if s.cfg.Port > 0 {
		opts = append(opts, gomail.WithPort(s.cfg.Port))
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.cfg.Username),
			gomail.WithPassword(s.cfg.Password),
		)
	}
	switch strings.ToLower(s.cfg.TLS) {
	case "none":
		opts = append(opts, gomail.WithTLSPolicy(gomail.NoTLS))
	case "opportunistic":
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	default:
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	}
	return opts
}

// buildMessage converts msg to a go-mail message. Attachments must exist on
// disk; go-mail would otherwise drop them without an error.
func buildMessage(msg Message) (*gomail.Msg, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	m := gomail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", msg.From, err)
	}
	if err := m.To(msg.To...); err != nil {
		return nil, fmt.Errorf("invalid recipients %v: %w", msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextPlain, msg.TextBody)
	if msg.HTMLBody != "" {
		m.AddAlternativeString(gomail.TypeTextHTML, msg.HTMLBody)
	}

	for _, path := range msg.Attachments {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("attachment %s: %w", path, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("attachment %s is a directory", path)
		}
		m.AttachFile(path)
	}
	return m, nil
}

// Disabled is the Mailer used when no SMTP relay is configured. Every send
// fails with ErrNotConfigured.
type Disabled struct{}

func (Disabled) Send(context.Context, Message) error { return ErrNotConfigured }
