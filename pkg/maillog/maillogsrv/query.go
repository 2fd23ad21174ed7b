package maillogsrv

import (
	"context"
	"time"

	"github.com/maildeck/maildeck/pkg/asyncx"
	"github.com/maildeck/maildeck/pkg/kernel"
	"github.com/maildeck/maildeck/pkg/logx"
	"github.com/maildeck/maildeck/pkg/maillog"
)

const (
	defaultPageSize = 10

	// Human-readable local timestamp: DD-MM-YYYY hh:mmAM/PM.
	displayTimeFormat = "02-01-2006 03:04PM"
)

// LogView is one rendered log record: internal fields stripped, timestamps
// formatted for display.
type LogView struct {
	ID           string `json:"id"`
	From         string `json:"from"`
	To           string `json:"to"`
	Subject      string `json:"subject"`
	CC           string `json:"cc,omitempty"`
	BCC          string `json:"bcc,omitempty"`
	Text         string `json:"text,omitempty"`
	HTML         string `json:"html,omitempty"`
	Template     string `json:"template,omitempty"`
	Status       string `json:"status"`
	MessageID    string `json:"messageId,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

// LogsResponse is the always-200 envelope of the read path: callers check
// the success flag instead of the HTTP status.
type LogsResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    []LogView    `json:"data,omitempty"`
	Meta    *kernel.Page `json:"meta,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// ListLogs returns one page of log records matching the query. Store
// failures are converted into a failure envelope, never propagated.
func (s *Service) ListLogs(ctx context.Context, q maillog.LogQuery) *LogsResponse {
	filter := buildFilter(q)
	page := kernel.PaginationOptions{Page: q.Page, PageSize: q.Limit}.Normalize(defaultPageSize)

	// Page fetch and total count run concurrently; they apply the same
	// filter so the meta stays consistent with the data.
	recordsF := asyncx.Run(func() ([]maillog.EmailLog, error) {
		return s.repo.Find(ctx, filter, page)
	})
	countF := asyncx.Run(func() (int, error) {
		return s.repo.Count(ctx, filter)
	})

	records, err := recordsF.Await()
	if err != nil {
		logx.Errorf("maillog: failed to fetch email logs: %v", err)
		return failureResponse(err)
	}
	total, err := countF.Await()
	if err != nil {
		logx.Errorf("maillog: failed to count email logs: %v", err)
		return failureResponse(err)
	}

	views := make([]LogView, len(records))
	for i, rec := range records {
		views[i] = renderLog(rec)
	}

	paged := kernel.NewPaginated(views, page.Page, page.PageSize, total)
	return &LogsResponse{
		Success: true,
		Message: "Email logs fetched successfully",
		Data:    paged.Items,
		Meta:    &paged.Page,
	}
}

// buildFilter maps the raw query onto a store filter. An unrecognized
// status value is dropped silently rather than rejected.
func buildFilter(q maillog.LogQuery) maillog.LogFilter {
	filter := maillog.LogFilter{
		From:   q.From,
		To:     q.To,
		Search: q.Search,
	}
	if status := maillog.MailStatus(q.Status); maillog.ValidStatus(status) {
		filter.Status = status
	}
	return filter
}

func renderLog(rec maillog.EmailLog) LogView {
	return LogView{
		ID:           rec.ID,
		From:         rec.From,
		To:           rec.To,
		Subject:      rec.Subject,
		CC:           rec.CC,
		BCC:          rec.BCC,
		Text:         rec.Text,
		HTML:         rec.HTML,
		Template:     rec.Template,
		Status:       string(rec.Status),
		MessageID:    rec.MessageID,
		ErrorMessage: rec.ErrorMessage,
		CreatedAt:    formatDateTime(rec.CreatedAt),
		UpdatedAt:    formatDateTime(rec.UpdatedAt),
	}
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(displayTimeFormat)
}

func failureResponse(err error) *LogsResponse {
	return &LogsResponse{
		Success: false,
		Message: "Failed to fetch email logs",
		Error:   err.Error(),
	}
}
