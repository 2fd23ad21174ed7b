// Package notifxses implements notifx.EmailSender using AWS SES.
package notifxses

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/maildeck/maildeck/pkg/notifx"
)

// SESProvider sends mail through a shared SES client.
type SESProvider struct {
	client *ses.Client
}

// NewSESProvider creates a provider around an already-configured client.
func NewSESProvider(client *ses.Client) *SESProvider {
	return &SESProvider{client: client}
}

// SendEmail sends via the SES SendEmail API and returns the SES message ID.
// File attachments require the raw-message API and are not supported by
// this provider; select the SMTP provider for attachment sends.
func (p *SESProvider) SendEmail(ctx context.Context, msg notifx.EmailMessage, opts ...notifx.Option) (string, error) {
	if len(msg.Attachments) > 0 {
		return "", sesErrors.New(ErrAttachmentsUnsupported).
			WithDetail("attachments", len(msg.Attachments))
	}

	body := &types.Body{}
	if msg.TextBody != "" {
		body.Text = &types.Content{Data: aws.String(msg.TextBody), Charset: aws.String("UTF-8")}
	}
	if msg.HTMLBody != "" {
		body.Html = &types.Content{Data: aws.String(msg.HTMLBody), Charset: aws.String("UTF-8")}
	}

	input := &ses.SendEmailInput{
		Source: aws.String(msg.From),
		Destination: &types.Destination{
			ToAddresses:  msg.To,
			CcAddresses:  msg.CC,
			BccAddresses: msg.BCC,
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
			Body:    body,
		},
	}

	so := notifx.ApplySendOptions(opts)
	for k, v := range so.Tags {
		input.Tags = append(input.Tags, types.MessageTag{
			Name:  aws.String(k),
			Value: aws.String(v),
		})
	}

	out, err := p.client.SendEmail(ctx, input)
	if err != nil {
		return "", sesErrors.NewWithCause(ErrSendFailed, err).
			WithDetail("to", msg.To).
			WithDetail("subject", msg.Subject)
	}
	return aws.ToString(out.MessageId), nil
}
