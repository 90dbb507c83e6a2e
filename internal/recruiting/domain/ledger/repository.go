package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrVersionConflict is returned when an entry was changed concurrently.
var ErrVersionConflict = errors.New("ledger entry was modified concurrently")

// Repository persists ledger entries.
type Repository interface {
	// FindByAthlete loads the athlete's full ledger snapshot. Inside a unit of
	// work the rows are locked until commit where the backend supports it.
	FindByAthlete(ctx context.Context, athleteID uuid.UUID) (*Ledger, error)
	// Save inserts or updates an entry, honoring its version.
	Save(ctx context.Context, entry *Entry) error
}
