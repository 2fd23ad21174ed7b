package maillogsrv_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/maildeck/maildeck/pkg/maillog"
	"github.com/maildeck/maildeck/pkg/maillog/maillogsrv"
	"github.com/maildeck/maildeck/pkg/notifx"
)

func queryService(repo *memRepo) *maillogsrv.Service {
	return maillogsrv.NewService(repo, notifx.NewClient(&fakeProvider{id: "x"}), testSender, osDeleter{}, nil)
}

// seed inserts n records with the given status, oldest first.
func seed(t *testing.T, repo *memRepo, n int, status maillog.MailStatus, subject string) {
	t.Helper()
	for i := 0; i < n; i++ {
		rec := &maillog.EmailLog{
			From:    "mailer@maildeck.io",
			To:      fmt.Sprintf("user%d@x.com", i),
			Subject: fmt.Sprintf("%s %d", subject, i),
			Status:  status,
		}
		if err := repo.Create(context.Background(), rec); err != nil {
			t.Fatal(err)
		}
	}
}

func TestListLogs_Defaults(t *testing.T) {
	repo := newMemRepo()
	seed(t, repo, 15, maillog.StatusSent, "newsletter")
	svc := queryService(repo)

	resp := svc.ListLogs(context.Background(), maillog.LogQuery{})
	if !resp.Success {
		t.Fatalf("expected success envelope: %+v", resp)
	}
	if len(resp.Data) != 10 {
		t.Fatalf("default limit is 10, got %d records", len(resp.Data))
	}
	if resp.Meta.Total != 15 || resp.Meta.Number != 1 || resp.Meta.Size != 10 || resp.Meta.Pages != 2 {
		t.Fatalf("unexpected meta: %+v", resp.Meta)
	}
}

func TestListLogs_NewestFirst(t *testing.T) {
	repo := newMemRepo()
	seed(t, repo, 3, maillog.StatusSent, "s")
	svc := queryService(repo)

	resp := svc.ListLogs(context.Background(), maillog.LogQuery{})
	// seed creates user0 first, so user2 is the most recent.
	if resp.Data[0].To != "user2@x.com" || resp.Data[2].To != "user0@x.com" {
		t.Fatalf("expected newest first, got %v, %v, %v",
			resp.Data[0].To, resp.Data[1].To, resp.Data[2].To)
	}
}

func TestListLogs_StatusPageWindow(t *testing.T) {
	repo := newMemRepo()
	seed(t, repo, 12, maillog.StatusSent, "sent mail")
	seed(t, repo, 5, maillog.StatusFailed, "failed mail")
	svc := queryService(repo)

	resp := svc.ListLogs(context.Background(), maillog.LogQuery{Status: "sent", Page: 2, Limit: 5})
	if !resp.Success {
		t.Fatalf("expected success: %+v", resp)
	}
	if len(resp.Data) != 5 {
		t.Fatalf("expected 5 records on page 2, got %d", len(resp.Data))
	}
	if resp.Meta.Total != 12 || resp.Meta.Pages != 3 {
		t.Fatalf("unexpected meta: %+v", resp.Meta)
	}
	// By recency, page 2 of 12 holds records 6..10: user6 down to user2.
	if resp.Data[0].To != "user6@x.com" || resp.Data[4].To != "user2@x.com" {
		t.Fatalf("wrong page window: first=%s last=%s", resp.Data[0].To, resp.Data[4].To)
	}
	for _, v := range resp.Data {
		if v.Status != "sent" {
			t.Fatalf("status filter leaked record: %+v", v)
		}
	}
}

func TestListLogs_InvalidStatusIgnored(t *testing.T) {
	repo := newMemRepo()
	seed(t, repo, 4, maillog.StatusSent, "a")
	seed(t, repo, 3, maillog.StatusFailed, "b")
	svc := queryService(repo)

	bogus := svc.ListLogs(context.Background(), maillog.LogQuery{Status: "bogus"})
	unfiltered := svc.ListLogs(context.Background(), maillog.LogQuery{})

	if bogus.Meta.Total != unfiltered.Meta.Total {
		t.Fatalf("invalid status must be ignored: %d vs %d", bogus.Meta.Total, unfiltered.Meta.Total)
	}
	if !reflect.DeepEqual(bogus.Data, unfiltered.Data) {
		t.Fatal("invalid status must yield the unfiltered result")
	}
}

func TestListLogs_SearchCaseInsensitive(t *testing.T) {
	repo := newMemRepo()
	seed(t, repo, 2, maillog.StatusSent, "INVOICE due")
	seed(t, repo, 3, maillog.StatusSent, "greetings")
	svc := queryService(repo)

	resp := svc.ListLogs(context.Background(), maillog.LogQuery{Search: "invoice"})
	if resp.Meta.Total != 2 {
		t.Fatalf("expected 2 matches, got %d", resp.Meta.Total)
	}
	for _, v := range resp.Data {
		if v.Subject != "INVOICE due 0" && v.Subject != "INVOICE due 1" {
			t.Fatalf("search matched wrong record: %+v", v)
		}
	}

	// Search also covers the recipient column.
	byTo := svc.ListLogs(context.Background(), maillog.LogQuery{Search: "USER0@X.COM"})
	if byTo.Meta.Total != 2 {
		t.Fatalf("expected 2 matches on recipient, got %d", byTo.Meta.Total)
	}
}

func TestListLogs_ExactFromToFilters(t *testing.T) {
	repo := newMemRepo()
	seed(t, repo, 3, maillog.StatusSent, "m")
	svc := queryService(repo)

	resp := svc.ListLogs(context.Background(), maillog.LogQuery{To: "user1@x.com"})
	if resp.Meta.Total != 1 || resp.Data[0].To != "user1@x.com" {
		t.Fatalf("exact to filter failed: %+v", resp)
	}

	none := svc.ListLogs(context.Background(), maillog.LogQuery{From: "stranger@x.com"})
	if none.Meta.Total != 0 || len(none.Data) != 0 {
		t.Fatalf("exact from filter failed: %+v", none)
	}
}

func TestListLogs_PaginationLaw(t *testing.T) {
	repo := newMemRepo()
	seed(t, repo, 23, maillog.StatusSent, "bulk")
	svc := queryService(repo)

	full := svc.ListLogs(context.Background(), maillog.LogQuery{Limit: 23})

	var stitched []string
	limit := 4
	pages := (23 + limit - 1) / limit
	for page := 1; page <= pages; page++ {
		resp := svc.ListLogs(context.Background(), maillog.LogQuery{Page: page, Limit: limit})
		if !resp.Success {
			t.Fatalf("page %d failed: %+v", page, resp)
		}
		for _, v := range resp.Data {
			stitched = append(stitched, v.ID)
		}
	}

	if len(stitched) != 23 {
		t.Fatalf("stitched pages hold %d records, want 23", len(stitched))
	}
	for i, v := range full.Data {
		if stitched[i] != v.ID {
			t.Fatalf("page concatenation diverges at %d: %s vs %s", i, stitched[i], v.ID)
		}
	}
	seen := make(map[string]bool, len(stitched))
	for _, id := range stitched {
		if seen[id] {
			t.Fatalf("duplicate record %s across pages", id)
		}
		seen[id] = true
	}
}

func TestListLogs_Idempotent(t *testing.T) {
	repo := newMemRepo()
	seed(t, repo, 7, maillog.StatusSent, "same")
	svc := queryService(repo)

	q := maillog.LogQuery{Status: "sent", Limit: 5}
	first := svc.ListLogs(context.Background(), q)
	second := svc.ListLogs(context.Background(), q)

	if !reflect.DeepEqual(first, second) {
		t.Fatal("repeated query with no writes must return identical results")
	}
}

func TestListLogs_TimestampFormat(t *testing.T) {
	repo := newMemRepo()
	seed(t, repo, 1, maillog.StatusSent, "stamp")
	svc := queryService(repo)

	resp := svc.ListLogs(context.Background(), maillog.LogQuery{})
	created := resp.Data[0].CreatedAt
	if _, err := time.ParseInLocation("02-01-2006 03:04PM", created, time.Local); err != nil {
		t.Fatalf("createdAt %q not in DD-MM-YYYY hh:mmAM/PM format: %v", created, err)
	}
}

func TestListLogs_StoreErrorEnvelope(t *testing.T) {
	repo := newMemRepo()
	repo.findErr = errors.New("connection reset")
	svc := queryService(repo)

	resp := svc.ListLogs(context.Background(), maillog.LogQuery{})
	if resp.Success {
		t.Fatal("expected failure envelope")
	}
	if resp.Message != "Failed to fetch email logs" || resp.Error == "" {
		t.Fatalf("unexpected failure envelope: %+v", resp)
	}
	if resp.Data != nil || resp.Meta != nil {
		t.Fatalf("failure envelope must not carry data: %+v", resp)
	}
}
