// Package mail sends outreach email over SMTP.
package mail

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/oklog/ulid/v2"
	"gopkg.in/gomail.v2"
)

// FromName is the display name on every outgoing message.
const FromName = "LeadFinder Outreach"

// ErrNotConfigured indicates SMTP credentials are missing.
var ErrNotConfigured = errors.New("smtp credentials not configured")

// Message is a single outgoing email.
type Message struct {
	To      string
	Subject string
	Body    string // plain text
}

// Sender delivers messages and returns the generated Message-ID.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
	Configured() bool
}

// Config holds SMTP connection settings.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
}

// dialer is the subset of gomail.Dialer used by SMTPSender.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender sends mail through an SMTP relay. The dial timeout is the
// gomail default of 10 seconds. Delivery is attempted once.
type SMTPSender struct {
	cfg    Config
	dialer dialer
}

// NewSMTPSender creates a sender for cfg.
func NewSMTPSender(cfg Config) *SMTPSender {
	return &SMTPSender{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
	}
}

// Configured reports whether credentials are present.
func (s *SMTPSender) Configured() bool {
	return s.cfg.User != "" && s.cfg.Password != ""
}

// Send delivers msg as a text/plain message with a text/html alternative.
func (s *SMTPSender) Send(ctx context.Context, msg Message) (string, error) {
	if !s.Configured() {
		return "", ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	messageID := newMessageID(s.cfg.Host)

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.User, FromName)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetHeader("Message-ID", messageID)
	m.SetBody("text/plain", msg.Body)
	m.AddAlternative("text/html", TextToHTML(msg.Body))

	if err := s.dialer.DialAndSend(m); err != nil {
		return "", fmt.Errorf("send smtp message: %w", err)
	}
	return messageID, nil
}

// TextToHTML escapes a plain text body and turns newlines into <br>.
func TextToHTML(body string) string {
	return strings.ReplaceAll(html.EscapeString(body), "\n", "<br>")
}

func newMessageID(host string) string {
	if host == "" {
		host = "localhost"
	}
	return fmt.Sprintf("<%s@%s>", strings.ToLower(ulid.Make().String()), host)
}
