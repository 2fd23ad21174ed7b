// Package mailloginfra provides the Postgres implementation of the email
// log repository.
package mailloginfra

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/maildeck/maildeck/pkg/errx"
	"github.com/maildeck/maildeck/pkg/kernel"
	"github.com/maildeck/maildeck/pkg/maillog"
)

// PostgresLogRepository implements maillog.Repository on Postgres via sqlx.
type PostgresLogRepository struct {
	db *sqlx.DB
}

// NewPostgresLogRepository creates the repository.
func NewPostgresLogRepository(db *sqlx.DB) maillog.Repository {
	return &PostgresLogRepository{db: db}
}

// Create inserts a new record, assigning its ID and timestamps.
func (r *PostgresLogRepository) Create(ctx context.Context, log *maillog.EmailLog) error {
	now := time.Now().UTC()
	log.ID = uuid.NewString()
	log.CreatedAt = now
	log.UpdatedAt = now

	query := `
		INSERT INTO email_logs (
			id, from_addr, to_addr, subject, cc, bcc, text_body, html_body,
			template, status, message_id, error_message, created_at, updated_at
		) VALUES (
			:id, :from_addr, :to_addr, :subject, :cc, :bcc, :text_body, :html_body,
			:template, :status, :message_id, :error_message, :created_at, :updated_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, toPersistence(*log)); err != nil {
		return errx.Wrap(err, "failed to create email log", errx.TypeInternal).
			WithDetail("log_id", log.ID)
	}
	return nil
}

// MarkSent transitions a record to sent. Records already in a terminal
// state are left untouched.
func (r *PostgresLogRepository) MarkSent(ctx context.Context, id, messageID string) error {
	query := `
		UPDATE email_logs
		SET status = $2, message_id = $3, updated_at = NOW()
		WHERE id = $1 AND status NOT IN ($4, $5)`

	return r.markTerminal(ctx, query, id, maillog.StatusSent, messageID)
}

// MarkFailed transitions a record to failed with the error text.
func (r *PostgresLogRepository) MarkFailed(ctx context.Context, id, errorMessage string) error {
	query := `
		UPDATE email_logs
		SET status = $2, error_message = $3, updated_at = NOW()
		WHERE id = $1 AND status NOT IN ($4, $5)`

	return r.markTerminal(ctx, query, id, maillog.StatusFailed, errorMessage)
}

func (r *PostgresLogRepository) markTerminal(ctx context.Context, query, id string, status maillog.MailStatus, value string) error {
	result, err := r.db.ExecContext(ctx, query, id, status, sql.NullString{String: value, Valid: value != ""},
		maillog.StatusSent, maillog.StatusFailed)
	if err != nil {
		return errx.Wrap(err, "failed to update email log", errx.TypeInternal).
			WithDetail("log_id", id)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to read rows affected", errx.TypeInternal)
	}
	if rows == 0 {
		return maillog.NewError(maillog.ErrNotFound).WithDetail("log_id", id)
	}
	return nil
}

// Find returns one page of matching records ordered by creation time
// descending.
func (r *PostgresLogRepository) Find(ctx context.Context, filter maillog.LogFilter, page kernel.PaginationOptions) ([]maillog.EmailLog, error) {
	where, args := buildWhere(filter)
	query := fmt.Sprintf(`
		SELECT * FROM email_logs
		%s
		ORDER BY created_at DESC
		LIMIT %d OFFSET %d`, where, page.PageSize, page.Offset())

	var rows []logPersistence
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errx.Wrap(err, "failed to fetch email logs", errx.TypeInternal)
	}

	logs := make([]maillog.EmailLog, len(rows))
	for i, row := range rows {
		logs[i] = toDomain(row)
	}
	return logs, nil
}

// Count returns the total number of records matching the filter.
func (r *PostgresLogRepository) Count(ctx context.Context, filter maillog.LogFilter) (int, error) {
	where, args := buildWhere(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM email_logs %s`, where)

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, errx.Wrap(err, "failed to count email logs", errx.TypeInternal)
	}
	return count, nil
}

// buildWhere renders the filter as a WHERE clause with positional args.
// The search term matches subject, sender or recipient case-insensitively.
func buildWhere(filter maillog.LogFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	next := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != "" {
		conds = append(conds, "status = "+next(string(filter.Status)))
	}
	if filter.From != "" {
		conds = append(conds, "from_addr = "+next(filter.From))
	}
	if filter.To != "" {
		conds = append(conds, "to_addr = "+next(filter.To))
	}
	if filter.Search != "" {
		pattern := next("%" + escapeLike(filter.Search) + "%")
		conds = append(conds, fmt.Sprintf(
			"(subject ILIKE %[1]s OR from_addr ILIKE %[1]s OR to_addr ILIKE %[1]s)", pattern))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}

// logPersistence maps the email_logs table.
type logPersistence struct {
	ID           string         `db:"id"`
	From         string         `db:"from_addr"`
	To           string         `db:"to_addr"`
	Subject      string         `db:"subject"`
	CC           sql.NullString `db:"cc"`
	BCC          sql.NullString `db:"bcc"`
	Text         sql.NullString `db:"text_body"`
	HTML         sql.NullString `db:"html_body"`
	Template     sql.NullString `db:"template"`
	Status       string         `db:"status"`
	MessageID    sql.NullString `db:"message_id"`
	ErrorMessage sql.NullString `db:"error_message"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func toPersistence(log maillog.EmailLog) logPersistence {
	return logPersistence{
		ID:           log.ID,
		From:         log.From,
		To:           log.To,
		Subject:      log.Subject,
		CC:           nullable(log.CC),
		BCC:          nullable(log.BCC),
		Text:         nullable(log.Text),
		HTML:         nullable(log.HTML),
		Template:     nullable(log.Template),
		Status:       string(log.Status),
		MessageID:    nullable(log.MessageID),
		ErrorMessage: nullable(log.ErrorMessage),
		CreatedAt:    log.CreatedAt,
		UpdatedAt:    log.UpdatedAt,
	}
}

func toDomain(p logPersistence) maillog.EmailLog {
	return maillog.EmailLog{
		ID:           p.ID,
		From:         p.From,
		To:           p.To,
		Subject:      p.Subject,
		CC:           p.CC.String,
		BCC:          p.BCC.String,
		Text:         p.Text.String,
		HTML:         p.HTML.String,
		Template:     p.Template.String,
		Status:       maillog.MailStatus(p.Status),
		MessageID:    p.MessageID.String,
		ErrorMessage: p.ErrorMessage.String,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
