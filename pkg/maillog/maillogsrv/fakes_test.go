package maillogsrv_test

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/maildeck/maildeck/pkg/kernel"
	"github.com/maildeck/maildeck/pkg/maillog"
	"github.com/maildeck/maildeck/pkg/notifx"
)

// memRepo is an in-memory maillog.Repository honoring the same filter and
// ordering semantics as the Postgres implementation.
type memRepo struct {
	mu        sync.Mutex
	seq       int
	logs      map[string]*maillog.EmailLog
	createErr error
	findErr   error
	countErr  error
}

func newMemRepo() *memRepo {
	return &memRepo{logs: make(map[string]*maillog.EmailLog)}
}

func (r *memRepo) Create(_ context.Context, log *maillog.EmailLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.seq++
	log.ID = fmt.Sprintf("log-%d", r.seq)
	log.CreatedAt = time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	log.UpdatedAt = log.CreatedAt
	clone := *log
	r.logs[log.ID] = &clone
	return nil
}

func (r *memRepo) MarkSent(_ context.Context, id, messageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.logs[id]
	if !ok || rec.Status.Terminal() {
		return maillog.NewError(maillog.ErrNotFound)
	}
	rec.Status = maillog.StatusSent
	rec.MessageID = messageID
	rec.UpdatedAt = time.Now()
	return nil
}

func (r *memRepo) MarkFailed(_ context.Context, id, errorMessage string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.logs[id]
	if !ok || rec.Status.Terminal() {
		return maillog.NewError(maillog.ErrNotFound)
	}
	rec.Status = maillog.StatusFailed
	rec.ErrorMessage = errorMessage
	rec.UpdatedAt = time.Now()
	return nil
}

func (r *memRepo) Find(_ context.Context, filter maillog.LogFilter, page kernel.PaginationOptions) ([]maillog.EmailLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	matched := r.matching(filter)

	start := page.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + page.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

func (r *memRepo) Count(_ context.Context, filter maillog.LogFilter) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.countErr != nil {
		return 0, r.countErr
	}
	return len(r.matching(filter)), nil
}

func (r *memRepo) matching(filter maillog.LogFilter) []maillog.EmailLog {
	var matched []maillog.EmailLog
	for _, rec := range r.logs {
		if filter.Status != "" && rec.Status != filter.Status {
			continue
		}
		if filter.From != "" && rec.From != filter.From {
			continue
		}
		if filter.To != "" && rec.To != filter.To {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(rec.Subject), needle) &&
				!strings.Contains(strings.ToLower(rec.From), needle) &&
				!strings.Contains(strings.ToLower(rec.To), needle) {
				continue
			}
		}
		matched = append(matched, *rec)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched
}

func (r *memRepo) get(id string) maillog.EmailLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.logs[id]
	if !ok {
		return maillog.EmailLog{}
	}
	return *rec
}

// fakeProvider is a notifx.EmailSender returning a canned outcome.
type fakeProvider struct {
	mu       sync.Mutex
	messages []notifx.EmailMessage
	id       string
	err      error
}

func (p *fakeProvider) SendEmail(_ context.Context, msg notifx.EmailMessage, _ ...notifx.Option) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
	if p.err != nil {
		return "", p.err
	}
	return p.id, nil
}

func (p *fakeProvider) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.messages)
}

func (p *fakeProvider) lastMessage() notifx.EmailMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.messages) == 0 {
		return notifx.EmailMessage{}
	}
	return p.messages[len(p.messages)-1]
}

// osDeleter removes attachment files directly from disk.
type osDeleter struct{}

func (osDeleter) DeleteFile(_ context.Context, path string) error {
	return os.Remove(path)
}

func pageAll() kernel.PaginationOptions {
	return kernel.PaginationOptions{Page: 1, PageSize: 100}
}

// fixedQuota rejects every request with a quota error when closed.
type fixedQuota struct {
	closed bool
}

func (q fixedQuota) Allow(context.Context) error {
	if q.closed {
		return maillog.NewError(maillog.ErrQuotaExceeded)
	}
	return nil
}
