package outbox

import (
	"context"
	"time"
)

// Repository persists outbox messages.
type Repository interface {
	// Save stores a new message. Inside a unit of work it joins the
	// transaction.
	Save(ctx context.Context, msg *Message) error

	// SaveBatch stores messages atomically.
	SaveBatch(ctx context.Context, msgs []*Message) error

	// GetUnpublished returns messages due for publication, oldest first.
	GetUnpublished(ctx context.Context, limit int) ([]*Message, error)

	MarkPublished(ctx context.Context, id int64) error

	// MarkFailed records a failed attempt and when to try again.
	MarkFailed(ctx context.Context, id int64, err string, nextRetryAt time.Time) error

	// MarkDead parks a message that exhausted its retries.
	MarkDead(ctx context.Context, id int64, reason string) error

	// GetFailed returns messages that failed at least once and may retry.
	GetFailed(ctx context.Context, maxRetries, limit int) ([]*Message, error)

	// DeleteOld removes published messages older than the retention period.
	DeleteOld(ctx context.Context, olderThanDays int) (int64, error)
}
