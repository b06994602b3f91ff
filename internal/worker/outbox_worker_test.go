package worker

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"bollette/internal/transport"
)

func TestHandleDraftMessage(t *testing.T) {
	outbox := t.TempDir()
	images := t.TempDir()
	if err := os.WriteFile(filepath.Join(images, "1705_2025-08-31_ENMAX.png"), []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := NewOutboxWorker(outbox, images)
	msg := &transport.DraftMessage{
		HouseNumber: "1705",
		Subject:     "August utility bill",
		Body:        "Hello,\n\nTotal utilities: $191.34\n",
		Attachments: []string{"1705_2025-08-31_ENMAX.png"},
		Recipient:   "jamie@example.com",
		Timestamp:   time.Date(2025, 9, 1, 10, 30, 0, 0, time.UTC),
	}

	if err := w.HandleDraftMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleDraftMessage: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(outbox, "1705_20250901T103000.txt"))
	if err != nil {
		t.Fatalf("read outbox file: %v", err)
	}
	text := string(data)
	for _, want := range []string{
		"To: jamie@example.com",
		"Subject: August utility bill",
		"Attachments: 1705_2025-08-31_ENMAX.png",
		"Total utilities: $191.34",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("outbox file missing %q:\n%s", want, text)
		}
	}
}

func TestHandleDraftMessageRejectsEmptyHouse(t *testing.T) {
	w := NewOutboxWorker(t.TempDir(), "")
	err := w.HandleDraftMessage(context.Background(), &transport.DraftMessage{})
	if err == nil {
		t.Fatal("expected error for missing house number")
	}
}

func TestMissingAttachments(t *testing.T) {
	images := t.TempDir()
	if err := os.WriteFile(filepath.Join(images, "present.png"), []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := NewOutboxWorker(t.TempDir(), images)
	missing := w.missingAttachments([]string{"present.png", "absent.png"})
	if len(missing) != 1 || missing[0] != "absent.png" {
		t.Errorf("missing = %v, want [absent.png]", missing)
	}

	// No images directory configured disables the check.
	w = NewOutboxWorker(t.TempDir(), "")
	if got := w.missingAttachments([]string{"absent.png"}); got != nil {
		t.Errorf("missing = %v, want nil", got)
	}
}
