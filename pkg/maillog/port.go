package maillog

import (
	"context"

	"github.com/maildeck/maildeck/pkg/kernel"
)

// Repository persists email log records. Writes target exactly one record
// by ID, so implementations need no cross-record coordination.
type Repository interface {
	// Create inserts a new record and fills in its ID and timestamps.
	Create(ctx context.Context, log *EmailLog) error

	// MarkSent moves a record to the sent state with its message ID.
	MarkSent(ctx context.Context, id, messageID string) error

	// MarkFailed moves a record to the failed state with the error text.
	MarkFailed(ctx context.Context, id, errorMessage string) error

	// Find returns one page of matching records, newest first.
	Find(ctx context.Context, filter LogFilter, page kernel.PaginationOptions) ([]EmailLog, error)

	// Count returns the total number of matching records, independent of
	// the pagination window.
	Count(ctx context.Context, filter LogFilter) (int, error)
}
