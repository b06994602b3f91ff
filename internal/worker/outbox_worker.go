// Package worker materializes consumed draft messages as outbox files
// ready for a human to review and send.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"bollette/internal/transport"
)

// OutboxWorker writes each draft to one text file in the outbox directory.
// Attachments are verified against the images directory but never copied;
// the file lists them by name.
type OutboxWorker struct {
	outboxDir string
	imagesDir string
}

func NewOutboxWorker(outboxDir, imagesDir string) *OutboxWorker {
	return &OutboxWorker{outboxDir: outboxDir, imagesDir: imagesDir}
}

// HandleDraftMessage processes a single consumed draft message.
func (w *OutboxWorker) HandleDraftMessage(ctx context.Context, msg *transport.DraftMessage) error {
	if msg.HouseNumber == "" {
		return fmt.Errorf("draft message without house number")
	}

	if err := os.MkdirAll(w.outboxDir, 0755); err != nil {
		return fmt.Errorf("create outbox directory: %w", err)
	}

	missing := w.missingAttachments(msg.Attachments)
	if len(missing) > 0 {
		slog.WarnContext(ctx, "Draft references attachments not on disk",
			"house", msg.HouseNumber,
			"missing", missing)
	}

	name := fmt.Sprintf("%s_%s.txt", msg.HouseNumber, msg.Timestamp.UTC().Format("20060102T150405"))
	path := filepath.Join(w.outboxDir, name)

	var b strings.Builder
	fmt.Fprintf(&b, "To: %s\n", msg.Recipient)
	fmt.Fprintf(&b, "Subject: %s\n", msg.Subject)
	if len(msg.Attachments) > 0 {
		fmt.Fprintf(&b, "Attachments: %s\n", strings.Join(msg.Attachments, ", "))
	}
	b.WriteString("\n")
	b.WriteString(msg.Body)

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write outbox file: %w", err)
	}

	slog.InfoContext(ctx, "Draft written to outbox",
		"house", msg.HouseNumber,
		"file", name,
		"attachments", len(msg.Attachments))
	return nil
}

func (w *OutboxWorker) missingAttachments(names []string) []string {
	if w.imagesDir == "" {
		return nil
	}
	var missing []string
	for _, name := range names {
		if _, err := os.Stat(filepath.Join(w.imagesDir, name)); err != nil {
			missing = append(missing, name)
		}
	}
	return missing
}
