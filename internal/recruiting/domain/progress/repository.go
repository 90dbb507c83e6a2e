package progress

import (
	"context"

	"github.com/google/uuid"
)

// StatusStore remembers the last composite status recorded per athlete so
// label changes can be detected.
type StatusStore interface {
	// LastStatus returns the last recorded status. The bool is false when
	// nothing has been recorded yet.
	LastStatus(ctx context.Context, athleteID uuid.UUID) (CompositeStatus, bool, error)
	// SaveStatus records status as the athlete's latest.
	SaveStatus(ctx context.Context, athleteID uuid.UUID, status CompositeStatus) error
}
