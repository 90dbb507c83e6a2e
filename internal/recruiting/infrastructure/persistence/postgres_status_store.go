package persistence

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/progress"
	"github.com/felixgeelhaar/recruitkit/internal/shared/infrastructure/database"
	sharedPersistence "github.com/felixgeelhaar/recruitkit/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStatusStore implements progress.StatusStore using PostgreSQL.
type PostgresStatusStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStatusStore creates a new PostgreSQL status store.
func NewPostgresStatusStore(pool *pgxpool.Pool) *PostgresStatusStore {
	return &PostgresStatusStore{pool: pool}
}

func (s *PostgresStatusStore) LastStatus(ctx context.Context, athleteID uuid.UUID) (progress.CompositeStatus, bool, error) {
	var (
		status progress.CompositeStatus
		label  string
	)
	err := sharedPersistence.Executor(ctx, s.pool).QueryRow(ctx,
		`SELECT score, label FROM athlete_progress_status WHERE athlete_id = $1`,
		athleteID,
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

func (s *PostgresStatusStore) SaveStatus(ctx context.Context, athleteID uuid.UUID, status progress.CompositeStatus) error {
	_, err := sharedPersistence.Executor(ctx, s.pool).Exec(ctx, `
		INSERT INTO athlete_progress_status (athlete_id, score, label, recorded_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (athlete_id) DO UPDATE SET
			score = EXCLUDED.score,
			label = EXCLUDED.label,
			recorded_at = EXCLUDED.recorded_at`,
		athleteID, status.Score, status.Label.String(),
	)
	if err != nil {
		return fmt.Errorf("save progress status: %w", err)
	}
	return nil
}
