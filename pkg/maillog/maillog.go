// Package maillog is the mail dispatch and logging bounded context: domain
// model, repository port and module errors.
package maillog

import "time"

// MailStatus is the lifecycle state of a send attempt.
type MailStatus string

const (
	StatusPending MailStatus = "pending"
	StatusSent    MailStatus = "sent"
	StatusFailed  MailStatus = "failed"
	StatusQueued  MailStatus = "queued"
)

// ValidStatus reports whether s is one of the four recognized statuses.
func ValidStatus(s MailStatus) bool {
	switch s {
	case StatusPending, StatusSent, StatusFailed, StatusQueued:
		return true
	}
	return false
}

// Terminal reports whether s admits no further transition.
func (s MailStatus) Terminal() bool {
	return s == StatusSent || s == StatusFailed
}

// EmailLog is the persisted record of one send attempt. Exactly one record
// exists per accepted send request; it is created before any transport call
// and only ever moves forward along
// pending -> {sent|failed} or queued -> {sent|failed}.
type EmailLog struct {
	ID           string
	From         string
	To           string
	Subject      string
	CC           string
	BCC          string
	Text         string
	HTML         string
	Template     string
	Status       MailStatus
	MessageID    string // set iff Status == sent
	ErrorMessage string // set iff Status == failed
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Attachment references an uploaded file to attach to an outgoing mail.
// It is transient: never persisted, and in queued dispatch the backing file
// is deleted once the attempt resolves.
type Attachment struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
}

// SendRequest is a validated request to dispatch one email.
type SendRequest struct {
	To           string                 `json:"to"`
	Subject      string                 `json:"subject"`
	Text         string                 `json:"text,omitempty"`
	HTML         string                 `json:"html,omitempty"`
	CC           string                 `json:"cc,omitempty"`
	BCC          string                 `json:"bcc,omitempty"`
	Template     string                 `json:"template,omitempty"`
	TemplateData map[string]interface{} `json:"templateData,omitempty"`
	Attachments  []Attachment           `json:"attachments,omitempty"`
}

// DispatchResult is returned to the caller of a send operation. It is
// distinct from the persisted log record.
type DispatchResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	MessageID string `json:"messageId,omitempty"`
	LogID     string `json:"logId,omitempty"`
}

// LogFilter narrows a log query. Zero values mean "no constraint".
type LogFilter struct {
	Status MailStatus
	From   string
	To     string
	Search string // case-insensitive substring across subject, from, to
}

// LogQuery combines a filter with pagination.
type LogQuery struct {
	Status string `query:"status"`
	Search string `query:"search"`
	From   string `query:"from"`
	To     string `query:"to"`
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
}
