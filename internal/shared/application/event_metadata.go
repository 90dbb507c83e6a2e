package application

import (
	"github.com/felixgeelhaar/recruitkit/internal/shared/domain"
	"github.com/google/uuid"
)

type metadataSetter interface {
	SetMetadata(metadata domain.EventMetadata)
}

// NewEventMetadata creates metadata for the events raised by one command.
// A nil correlation ID is replaced with a fresh one.
func NewEventMetadata(athleteID, correlationID uuid.UUID) domain.EventMetadata {
	if correlationID == uuid.Nil {
		correlationID = uuid.New()
	}
	return domain.EventMetadata{
		CorrelationID: correlationID,
		CausationID:   uuid.New(),
		AthleteID:     athleteID,
	}
}

// ApplyEventMetadata stamps metadata onto every event that accepts it.
// Events must be stored as pointers for the stamp to stick.
func ApplyEventMetadata(events []domain.DomainEvent, metadata domain.EventMetadata) {
	for _, event := range events {
		if setter, ok := event.(metadataSetter); ok {
			setter.SetMetadata(metadata)
		}
	}
}
