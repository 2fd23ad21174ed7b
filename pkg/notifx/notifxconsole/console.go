// Package notifxconsole logs emails instead of sending them. Intended for
// development and tests.
package notifxconsole

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/maildeck/maildeck/pkg/logx"
	"github.com/maildeck/maildeck/pkg/notifx"
)

// ConsoleProvider prints emails to the log and pretends they were sent.
type ConsoleProvider struct{}

// NewConsoleProvider creates a new console provider.
func NewConsoleProvider() *ConsoleProvider {
	return &ConsoleProvider{}
}

// SendEmail logs the message details and returns a synthetic message ID.
func (p *ConsoleProvider) SendEmail(_ context.Context, msg notifx.EmailMessage, _ ...notifx.Option) (string, error) {
	messageID := "<" + uuid.NewString() + "@console>"

	logx.WithFields(logx.Fields{
		"from":        msg.From,
		"to":          strings.Join(msg.To, ", "),
		"subject":     msg.Subject,
		"attachments": len(msg.Attachments),
		"message_id":  messageID,
	}).Info("notifx/console: email sent (dev mode)")

	if msg.TextBody != "" {
		logx.Debugf("notifx/console: text body:\n%s", msg.TextBody)
	}
	if msg.HTMLBody != "" {
		logx.Debugf("notifx/console: html body:\n%s", msg.HTMLBody)
	}
	return messageID, nil
}
