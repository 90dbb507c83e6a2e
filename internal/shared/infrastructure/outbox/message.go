// Package outbox stores domain events in the same transaction as the state
// change that raised them and relays them to the broker afterwards.
package outbox

import (
	"encoding/json"
	"time"

	"github.com/felixgeelhaar/recruitkit/internal/shared/domain"
	"github.com/google/uuid"
)

// Message is a stored event awaiting publication.
type Message struct {
	ID               int64
	EventID          uuid.UUID
	AggregateType    string
	AggregateID      uuid.UUID
	EventType        string
	RoutingKey       string
	Payload          json.RawMessage
	Metadata         json.RawMessage
	CreatedAt        time.Time
	PublishedAt      *time.Time
	NextRetryAt      *time.Time
	RetryCount       int
	LastError        *string
	DeadLetteredAt   *time.Time
	DeadLetterReason *string
}

// NewMessage serializes a domain event. The routing key doubles as the
// event type.
func NewMessage(event domain.DomainEvent) (*Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	metadata, err := json.Marshal(event.Metadata())
	if err != nil {
		return nil, err
	}

	return &Message{
		EventID:       event.EventID(),
		AggregateType: event.AggregateType(),
		AggregateID:   event.AggregateID(),
		EventType:     event.RoutingKey(),
		RoutingKey:    event.RoutingKey(),
		Payload:       payload,
		Metadata:      metadata,
		CreatedAt:     event.OccurredAt(),
	}, nil
}

func (m *Message) IsPublished() bool { return m.PublishedAt != nil }

// CanRetry reports whether another publish attempt is allowed.
func (m *Message) CanRetry(maxRetries int) bool {
	return m.RetryCount < maxRetries
}

// Envelope is the wire format published to the broker: the event payload
// wrapped with its identity and metadata.
type Envelope struct {
	EventID       uuid.UUID       `json:"event_id"`
	EventType     string          `json:"event_type"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   uuid.UUID       `json:"aggregate_id"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Metadata      json.RawMessage `json:"metadata,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// Envelope encodes the message for publication.
func (m *Message) Envelope() ([]byte, error) {
	return json.Marshal(Envelope{
		EventID:       m.EventID,
		EventType:     m.EventType,
		AggregateType: m.AggregateType,
		AggregateID:   m.AggregateID,
		OccurredAt:    m.CreatedAt,
		Metadata:      m.Metadata,
		Payload:       m.Payload,
	})
}

// CorrelationID extracts the correlation id from the metadata, if any.
func (m *Message) CorrelationID() uuid.UUID {
	var md domain.EventMetadata
	if len(m.Metadata) == 0 || json.Unmarshal(m.Metadata, &md) != nil {
		return uuid.Nil
	}
	return md.CorrelationID
}
