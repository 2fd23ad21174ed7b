package notifxsmtp

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/maildeck/maildeck/pkg/errx"
	"github.com/maildeck/maildeck/pkg/notifx"
)

func TestBuildMessageHeaders(t *testing.T) {
	p := NewSMTPProvider(Config{Host: "smtp.example.com", Port: 587})

	m, messageID, err := p.buildMessage(notifx.EmailMessage{
		From:     "sender@example.com",
		FromName: "Sender",
		To:       []string{"a@x.com", "b@x.com"},
		CC:       []string{"c@x.com"},
		Subject:  "Quarterly report",
		TextBody: "see attached",
	})
	if err != nil {
		t.Fatal(err)
	}

	if got := m.GetHeader("To"); len(got) != 2 || got[0] != "a@x.com" {
		t.Fatalf("To = %v", got)
	}
	if got := m.GetHeader("From"); len(got) != 1 || !strings.Contains(got[0], "sender@example.com") {
		t.Fatalf("From = %v", got)
	}
	if got := m.GetHeader("Cc"); len(got) != 1 || got[0] != "c@x.com" {
		t.Fatalf("Cc = %v", got)
	}
	if got := m.GetHeader("Bcc"); len(got) != 0 {
		t.Fatalf("Bcc must be absent when empty, got %v", got)
	}
	if got := m.GetHeader("Subject"); len(got) != 1 || got[0] != "Quarterly report" {
		t.Fatalf("Subject = %v", got)
	}

	header := m.GetHeader("Message-ID")
	if len(header) != 1 || header[0] != messageID {
		t.Fatalf("Message-ID header %v does not match returned id %q", header, messageID)
	}
	if !strings.HasPrefix(messageID, "<") || !strings.HasSuffix(messageID, "@smtp.example.com>") {
		t.Fatalf("unexpected message id %q", messageID)
	}
}

func TestBuildMessageUniqueIDs(t *testing.T) {
	p := NewSMTPProvider(Config{Host: "smtp.example.com", Port: 587})
	msg := notifx.EmailMessage{From: "s@x.com", To: []string{"a@x.com"}, Subject: "s"}

	_, first, err := p.buildMessage(msg)
	if err != nil {
		t.Fatal(err)
	}
	_, second, err := p.buildMessage(msg)
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Fatalf("message ids must be unique, got %q twice", first)
	}
}

func TestBuildMessageAttachmentMissingFile(t *testing.T) {
	p := NewSMTPProvider(Config{Host: "smtp.example.com", Port: 587})

	_, _, err := p.buildMessage(notifx.EmailMessage{
		From:    "s@x.com",
		To:      []string{"a@x.com"},
		Subject: "s",
		Attachments: []notifx.Attachment{
			{Filename: "gone.pdf", Path: filepath.Join(t.TempDir(), "gone.pdf")},
		},
	})
	appErr, ok := errx.As(err)
	if !ok {
		t.Fatalf("expected a typed error, got %v", err)
	}
	if appErr.Code != "NOTIFX_SMTP_ATTACHMENT" {
		t.Fatalf("code = %q", appErr.Code)
	}
}

func TestBuildMessageAttachmentExists(t *testing.T) {
	p := NewSMTPProvider(Config{Host: "smtp.example.com", Port: 587})

	path := filepath.Join(t.TempDir(), "note.txt")
	if err := os.WriteFile(path, []byte("body"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := p.buildMessage(notifx.EmailMessage{
		From:        "s@x.com",
		To:          []string{"a@x.com"},
		Subject:     "s",
		Attachments: []notifx.Attachment{{Filename: "note.txt", Path: path}},
	})
	if err != nil {
		t.Fatal(err)
	}
}
