package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/progress"
	"github.com/felixgeelhaar/recruitkit/internal/shared/infrastructure/database"
	sharedPersistence "github.com/felixgeelhaar/recruitkit/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

// SQLiteStatusStore implements progress.StatusStore using SQLite. Local mode
// uses it so label changes are detected across CLI invocations.
type SQLiteStatusStore struct {
	db *sql.DB
}

// NewSQLiteStatusStore creates a new SQLite status store.
func NewSQLiteStatusStore(db *sql.DB) *SQLiteStatusStore {
	return &SQLiteStatusStore{db: db}
}

func (s *SQLiteStatusStore) LastStatus(ctx context.Context, athleteID uuid.UUID) (progress.CompositeStatus, bool, error) {
	var (
		status progress.CompositeStatus
		label  string
	)
	err := sharedPersistence.SQLiteExecutor(ctx, s.db).QueryRowContext(ctx,
		`SELECT score, label FROM athlete_progress_status WHERE athlete_id = ?`,
		athleteID.String(),
	).Scan(&status.Score, &label)
	if database.IsNoRows(err) {
		return progress.CompositeStatus{}, false, nil
	}
	if err != nil {
		return progress.CompositeStatus{}, false, fmt.Errorf("load progress status: %w", err)
	}
	status.Label = progress.ParseLabel(label)
	return status, true, nil
}

func (s *SQLiteStatusStore) SaveStatus(ctx context.Context, athleteID uuid.UUID, status progress.CompositeStatus) error {
	_, err := sharedPersistence.SQLiteExecutor(ctx, s.db).ExecContext(ctx, `
		INSERT INTO athlete_progress_status (athlete_id, score, label, recorded_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (athlete_id) DO UPDATE SET
			score = excluded.score,
			label = excluded.label,
			recorded_at = excluded.recorded_at`,
		athleteID.String(), status.Score, status.Label.String(),
		sharedPersistence.FormatSQLiteTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("save progress status: %w", err)
	}
	return nil
}
