// Package maillogsrv implements the mail dispatch and log query services.
package maillogsrv

import (
	"context"
	"net/mail"
	"strings"

	"github.com/maildeck/maildeck/pkg/asyncx"
	"github.com/maildeck/maildeck/pkg/fsx"
	"github.com/maildeck/maildeck/pkg/logx"
	"github.com/maildeck/maildeck/pkg/maillog"
	"github.com/maildeck/maildeck/pkg/notifx"
)

// Sender is the configured sender identity stamped on every envelope.
type Sender struct {
	Address string
	Name    string
}

// Quota limits how many send requests are accepted per day. A nil Quota
// means unlimited.
type Quota interface {
	Allow(ctx context.Context) error
}

// Service orchestrates send attempts: it owns the log-state transitions
// and defers delivery to the shared notifx client. One Service instance
// serves all requests; each request works on its own record.
type Service struct {
	repo   maillog.Repository
	mailer *notifx.Client
	sender Sender
	files  fsx.FileDeleter
	quota  Quota
}

// NewService wires the dispatch service. files is used only for attachment
// cleanup after queued sends; quota may be nil.
func NewService(repo maillog.Repository, mailer *notifx.Client, sender Sender, files fsx.FileDeleter, quota Quota) *Service {
	return &Service{
		repo:   repo,
		mailer: mailer,
		sender: sender,
		files:  files,
		quota:  quota,
	}
}

// Send dispatches an email synchronously: it logs a pending record, runs
// the transport call and reconciles the record to sent or failed before
// returning.
func (s *Service) Send(ctx context.Context, req maillog.SendRequest) (*maillog.DispatchResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := s.checkQuota(ctx); err != nil {
		return nil, err
	}

	rec := s.newLog(req, maillog.StatusPending)
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, maillog.NewErrorWithCause(maillog.ErrQueueFailed, err)
	}
	logx.Infof("maillog: created log entry (pending) for %s", req.To)

	messageID, err := s.deliver(ctx, req)
	if err != nil {
		s.markFailed(ctx, rec.ID, err)
		logx.Errorf("maillog: failed to send mail to %s: %v", req.To, err)
		return nil, maillog.NewErrorWithCause(maillog.ErrDispatchFailed, err)
	}

	if err := s.repo.MarkSent(ctx, rec.ID, messageID); err != nil {
		// The mail left the relay; the stale record is a logging defect,
		// not a dispatch failure.
		logx.Errorf("maillog: failed to mark log %s sent: %v", rec.ID, err)
	}
	logx.Infof("maillog: mail sent to %s (message id %s)", req.To, messageID)

	return &maillog.DispatchResult{
		Success:   true,
		Message:   "Mail sent successfully",
		MessageID: messageID,
		LogID:     rec.ID,
	}, nil
}

// Queue dispatches an email asynchronously: it logs a queued record,
// acknowledges the caller immediately and resolves the record in a
// background task. Attachment files are deleted once the attempt resolves,
// whatever the outcome; the log record is the only durable witness.
func (s *Service) Queue(ctx context.Context, req maillog.SendRequest) (*maillog.DispatchResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := s.checkQuota(ctx); err != nil {
		return nil, err
	}

	rec := s.newLog(req, maillog.StatusQueued)
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, maillog.NewErrorWithCause(maillog.ErrQueueFailed, err)
	}
	logx.Infof("maillog: created log entry (queued) for %s", req.To)

	asyncx.Do(func() {
		s.resolve(context.Background(), rec.ID, req)
	})

	return &maillog.DispatchResult{
		Success: true,
		Message: "Email queued successfully",
		LogID:   rec.ID,
	}, nil
}

// resolve runs the transport call for a queued record and reconciles the
// log. It is the background task's error boundary: nothing escapes it.
func (s *Service) resolve(ctx context.Context, logID string, req maillog.SendRequest) {
	defer func() {
		if r := recover(); r != nil {
			logx.Errorf("maillog: panic resolving log %s: %v", logID, r)
		}
	}()
	defer s.cleanupAttachments(ctx, req.Attachments)

	messageID, err := s.deliver(ctx, req)
	if err != nil {
		s.markFailed(ctx, logID, err)
		logx.Errorf("maillog: queued send to %s failed: %v", req.To, err)
		return
	}
	if err := s.repo.MarkSent(ctx, logID, messageID); err != nil {
		logx.Errorf("maillog: failed to mark log %s sent: %v", logID, err)
		return
	}
	logx.Infof("maillog: queued mail sent to %s (message id %s)", req.To, messageID)
}

// deliver builds the envelope and runs the transport call. Only fields
// present on the request are forwarded.
func (s *Service) deliver(ctx context.Context, req maillog.SendRequest) (string, error) {
	msg := notifx.EmailMessage{
		From:     s.sender.Address,
		FromName: s.sender.Name,
		To:       []string{req.To},
		Subject:  req.Subject,
		TextBody: req.Text,
		HTMLBody: req.HTML,
	}
	if req.CC != "" {
		msg.CC = []string{req.CC}
	}
	if req.BCC != "" {
		msg.BCC = []string{req.BCC}
	}
	for _, a := range req.Attachments {
		msg.Attachments = append(msg.Attachments, notifx.Attachment{
			Filename: a.Filename,
			Path:     a.Path,
		})
	}

	if req.Template != "" {
		return s.mailer.SendTemplatedEmail(ctx, req.Template, req.TemplateData, msg)
	}
	return s.mailer.SendEmail(ctx, msg)
}

// markFailed records a transport failure; a failing update is logged, never
// propagated.
func (s *Service) markFailed(ctx context.Context, logID string, cause error) {
	if err := s.repo.MarkFailed(ctx, logID, cause.Error()); err != nil {
		logx.Errorf("maillog: failed to mark log %s failed: %v", logID, err)
	}
}

// cleanupAttachments deletes each attachment's backing file exactly once.
// Failures are logged only and never affect the record's status.
func (s *Service) cleanupAttachments(ctx context.Context, attachments []maillog.Attachment) {
	for _, a := range attachments {
		if err := s.files.DeleteFile(ctx, a.Path); err != nil {
			logx.Warnf("maillog: failed to delete attachment %s: %v", a.Path, err)
			continue
		}
		logx.Debugf("maillog: deleted attachment %s", a.Path)
	}
}

func (s *Service) checkQuota(ctx context.Context) error {
	if s.quota == nil {
		return nil
	}
	return s.quota.Allow(ctx)
}

func (s *Service) newLog(req maillog.SendRequest, status maillog.MailStatus) *maillog.EmailLog {
	return &maillog.EmailLog{
		From:     s.sender.Address,
		To:       req.To,
		Subject:  req.Subject,
		CC:       req.CC,
		BCC:      req.BCC,
		Text:     req.Text,
		HTML:     req.HTML,
		Template: req.Template,
		Status:   status,
	}
}

// validateRequest enforces the request shape: syntactically valid
// addresses, a non-empty subject and well-formed attachment references.
func validateRequest(req maillog.SendRequest) error {
	if !validAddress(req.To) {
		return maillog.ErrInvalidRequestf("invalid recipient email")
	}
	if strings.TrimSpace(req.Subject) == "" {
		return maillog.ErrInvalidRequestf("subject is required")
	}
	if req.CC != "" && !validAddress(req.CC) {
		return maillog.ErrInvalidRequestf("invalid CC email")
	}
	if req.BCC != "" && !validAddress(req.BCC) {
		return maillog.ErrInvalidRequestf("invalid BCC email")
	}
	for _, a := range req.Attachments {
		if a.Filename == "" || a.Path == "" {
			return maillog.ErrInvalidRequestf("attachments require a filename and a path")
		}
	}
	return nil
}

func validAddress(addr string) bool {
	if addr == "" {
		return false
	}
	parsed, err := mail.ParseAddress(addr)
	return err == nil && parsed.Address == addr
}
