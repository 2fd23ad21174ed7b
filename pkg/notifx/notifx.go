// Package notifx abstracts outbound email delivery behind a provider
// interface so the rest of the application never touches a concrete
// transport.
package notifx

import (
	"context"
)

// EmailSender delivers a single email and returns the transport-assigned
// message identifier.
type EmailSender interface {
	SendEmail(ctx context.Context, msg EmailMessage, opts ...Option) (string, error)
}

// Client is the entry point for sending email. It validates messages,
// renders templates and delegates delivery to the configured provider.
// A single Client is constructed at startup and shared by all requests;
// providers must be safe for concurrent use.
type Client struct {
	provider  EmailSender
	templates *TemplateRegistry
}

// NewClient creates a client around the given provider.
func NewClient(provider EmailSender) *Client {
	return &Client{
		provider:  provider,
		templates: NewTemplateRegistry(),
	}
}

// SendEmail sends a message through the provider after basic validation.
func (c *Client) SendEmail(ctx context.Context, msg EmailMessage, opts ...Option) (string, error) {
	if len(msg.To) == 0 {
		return "", notifxErrors.New(ErrInvalidMessage).WithDetail("reason", "no recipients")
	}
	if msg.Subject == "" {
		return "", notifxErrors.New(ErrInvalidMessage).WithDetail("reason", "empty subject")
	}
	return c.provider.SendEmail(ctx, msg, opts...)
}

// RegisterTemplate parses and stores a named template for later sends.
func (c *Client) RegisterTemplate(name, tmpl string) error {
	return c.templates.Register(name, tmpl)
}

// HasTemplate reports whether a template is registered under name.
func (c *Client) HasTemplate(name string) bool {
	return c.templates.Has(name)
}

// SendTemplatedEmail renders the named template with data into the HTML
// body and sends the result.
func (c *Client) SendTemplatedEmail(ctx context.Context, templateName string, data interface{}, msg EmailMessage, opts ...Option) (string, error) {
	body, err := c.templates.Render(templateName, data)
	if err != nil {
		return "", err
	}
	msg.HTMLBody = body
	return c.SendEmail(ctx, msg, opts...)
}
