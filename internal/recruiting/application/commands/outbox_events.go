package commands

import (
	"context"

	sharedApplication "github.com/felixgeelhaar/recruitkit/internal/shared/application"
	"github.com/felixgeelhaar/recruitkit/internal/shared/domain"
	"github.com/felixgeelhaar/recruitkit/internal/shared/infrastructure/outbox"
)

// saveEvents stamps events with metadata and stores them in the outbox
// inside the caller's transaction.
func saveEvents(ctx context.Context, repo outbox.Repository, events []domain.DomainEvent, metadata domain.EventMetadata) error {
	if len(events) == 0 {
		return nil
	}
	sharedApplication.ApplyEventMetadata(events, metadata)

	msgs := make([]*outbox.Message, 0, len(events))
	for _, event := range events {
		msg, err := outbox.NewMessage(event)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	return repo.SaveBatch(ctx, msgs)
}
