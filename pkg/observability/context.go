package observability

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	correlationIDCtxKey contextKey = "correlation_id"
	requestIDCtxKey     contextKey = "request_id"
	athleteIDCtxKey     contextKey = "athlete_id"
)

// Attribute keys used in log records.
const (
	CorrelationIDKey = "correlation_id"
	RequestIDKey     = "request_id"
	AthleteIDKey     = "athlete_id"
	DurationKey      = "duration_ms"
)

// WithCorrelationID stores id in ctx, generating one when id is empty.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.NewString()
	}
	return context.WithValue(ctx, correlationIDCtxKey, id)
}

func CorrelationIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, correlationIDCtxKey)
}

// CorrelationUUID parses the correlation id in ctx. Ids that are not UUIDs,
// or a missing id, yield uuid.Nil.
func CorrelationUUID(ctx context.Context) uuid.UUID {
	id, err := uuid.Parse(CorrelationIDFromContext(ctx))
	if err != nil {
		return uuid.Nil
	}
	return id
}

// WithRequestID stores id in ctx, generating one when id is empty.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.NewString()
	}
	return context.WithValue(ctx, requestIDCtxKey, id)
}

func RequestIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, requestIDCtxKey)
}

// WithAthleteID tags ctx with the athlete a request acts for.
func WithAthleteID(ctx context.Context, athleteID uuid.UUID) context.Context {
	if athleteID == uuid.Nil {
		return ctx
	}
	return context.WithValue(ctx, athleteIDCtxKey, athleteID.String())
}

func AthleteIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, athleteIDCtxKey)
}

// NewRequestContext starts a request with a fresh request id, keeping an
// existing correlation id or generating one.
func NewRequestContext(ctx context.Context) context.Context {
	ctx = WithRequestID(ctx, "")
	if CorrelationIDFromContext(ctx) == "" {
		ctx = WithCorrelationID(ctx, "")
	}
	return ctx
}

func stringFromContext(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(key).(string)
	return id
}
