// Package events carries the optional cloud-sync hook: record changes are
// published to an AMQP queue and exported elsewhere by the sync worker.
// Publishing is best-effort; a failed publish never rolls back or blocks the
// local write that triggered it.
package events

import (
	"context"
	"log/slog"
)

// Publisher is the optional sync capability. When sync is not configured the
// server holds a NoopPublisher instead of checking for nil at call sites.
type Publisher interface {
	PublishRecordEvent(ctx context.Context, e *RecordEvent) error
}

type NoopPublisher struct{}

func (NoopPublisher) PublishRecordEvent(ctx context.Context, e *RecordEvent) error {
	slog.DebugContext(ctx, "Sync disabled, dropping record event",
		"kind", e.Kind, "action", e.Action, "record_id", e.RecordID)
	return nil
}
