// Package transport delivers finished drafts to their destination. The
// pipeline only depends on the Transport interface; the AMQP publisher and
// the dry-run echo are interchangeable behind it.
package transport

import (
	"context"
	"log/slog"

	"bollette/internal/core"
)

type Transport interface {
	Deliver(ctx context.Context, draft core.DraftContent) error
	Close() error
}

// DryRun logs each draft instead of sending it anywhere. Used when no
// broker is configured or when rehearsing a run.
type DryRun struct{}

func (DryRun) Deliver(ctx context.Context, draft core.DraftContent) error {
	slog.InfoContext(ctx, "Dry-run draft",
		"house", draft.HouseNumber,
		"recipient", draft.Recipient,
		"subject", draft.Subject,
		"attachments", len(draft.Attachments))
	return nil
}

func (DryRun) Close() error { return nil }
