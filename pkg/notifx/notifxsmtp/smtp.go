// Package notifxsmtp implements notifx.EmailSender against an SMTP relay
// using gomail.
package notifxsmtp

import (
	"context"
	"crypto/tls"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/maildeck/maildeck/pkg/logx"
	"github.com/maildeck/maildeck/pkg/notifx"
	mail "gopkg.in/gomail.v2"
)

// Config holds the SMTP relay settings.
type Config struct {
	Host          string
	Port          int
	Username      string
	Password      string
	SkipTLSVerify bool
}

// SMTPProvider sends mail through a single pre-configured relay dialer.
// The dialer is built once and shared; gomail dialers are safe to use from
// concurrent sends.
type SMTPProvider struct {
	dialer *mail.Dialer
	host   string
}

// NewSMTPProvider creates a provider for the given relay.
func NewSMTPProvider(cfg Config) *SMTPProvider {
	d := mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{
		ServerName:         cfg.Host,
		InsecureSkipVerify: cfg.SkipTLSVerify,
	}
	if cfg.SkipTLSVerify {
		logx.Warn("notifx/smtp: TLS certificate verification is disabled")
	}
	return &SMTPProvider{dialer: d, host: cfg.Host}
}

// SendEmail builds the MIME message and hands it to the relay. The returned
// identifier is the Message-ID header stamped on the outgoing mail.
func (p *SMTPProvider) SendEmail(ctx context.Context, msg notifx.EmailMessage, _ ...notifx.Option) (string, error) {
	m, messageID, err := p.buildMessage(msg)
	if err != nil {
		return "", err
	}

	if err := p.dialer.DialAndSend(m); err != nil {
		return "", smtpErrors.NewWithCause(ErrSendFailed, err).
			WithDetail("to", msg.To).
			WithDetail("subject", msg.Subject)
	}
	return messageID, nil
}

// buildMessage assembles the gomail message. Absent optional fields are
// left off the message entirely rather than set to empty headers.
func (p *SMTPProvider) buildMessage(msg notifx.EmailMessage) (*mail.Message, string, error) {
	m := mail.NewMessage()

	if msg.FromName != "" {
		m.SetAddressHeader("From", msg.From, msg.FromName)
	} else {
		m.SetHeader("From", msg.From)
	}
	m.SetHeader("To", msg.To...)
	if len(msg.CC) > 0 {
		m.SetHeader("Cc", msg.CC...)
	}
	if len(msg.BCC) > 0 {
		m.SetHeader("Bcc", msg.BCC...)
	}
	m.SetHeader("Subject", msg.Subject)

	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), p.host)
	m.SetHeader("Message-ID", messageID)

	switch {
	case msg.TextBody != "" && msg.HTMLBody != "":
		m.SetBody("text/plain", msg.TextBody)
		m.AddAlternative("text/html", msg.HTMLBody)
	case msg.HTMLBody != "":
		m.SetBody("text/html", msg.HTMLBody)
	case msg.TextBody != "":
		m.SetBody("text/plain", msg.TextBody)
	}

	for _, a := range msg.Attachments {
		if _, err := os.Stat(a.Path); err != nil {
			return nil, "", smtpErrors.NewWithCause(ErrAttachment, err).
				WithDetail("filename", a.Filename).
				WithDetail("path", a.Path)
		}
		m.Attach(a.Path, mail.Rename(a.Filename))
	}

	return m, messageID, nil
}
