package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/ledger"
	"github.com/felixgeelhaar/recruitkit/internal/shared/infrastructure/database"
	sharedPersistence "github.com/felixgeelhaar/recruitkit/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

// PostgresLedgerRepository implements ledger.Repository using PostgreSQL.
type PostgresLedgerRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresLedgerRepository creates a new PostgreSQL ledger repository.
func NewPostgresLedgerRepository(pool *pgxpool.Pool) *PostgresLedgerRepository {
	return &PostgresLedgerRepository{pool: pool}
}

// FindByAthlete loads the athlete's ledger. Inside a unit of work the rows are
// locked FOR UPDATE so the dependency gate and the write see the same
// snapshot.
func (r *PostgresLedgerRepository) FindByAthlete(ctx context.Context, athleteID uuid.UUID) (*ledger.Ledger, error) {
	query := `
		SELECT id, athlete_id, task_id, status, is_recovery_task, completed_at,
		       version, created_at, updated_at
		FROM athlete_task_status
		WHERE athlete_id = $1
		ORDER BY task_id`
	if sharedPersistence.InTx(ctx) {
		query += ` FOR UPDATE`
	}

	rows, err := sharedPersistence.Executor(ctx, r.pool).Query(ctx, query, athleteID)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	defer rows.Close()

	var entries []*ledger.Entry
	for rows.Next() {
		var row entryRow
		if err := rows.Scan(
			&row.ID,
			&row.AthleteID,
			&row.TaskID,
			&row.Status,
			&row.IsRecoveryTask,
			&row.CompletedAt,
			&row.Version,
			&row.CreatedAt,
			&row.UpdatedAt,
		); err != nil {
			return nil, err
		}
		entry, err := row.toEntry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ledger.NewLedger(athleteID, entries...)
}

func (r *PostgresLedgerRepository) Save(ctx context.Context, entry *ledger.Entry) error {
	query := `
		INSERT INTO athlete_task_status (
			id, athlete_id, task_id, status, is_recovery_task, completed_at,
			version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, 1, $7, $8)
		ON CONFLICT (athlete_id, task_id) DO UPDATE SET
			status = EXCLUDED.status,
			is_recovery_task = EXCLUDED.is_recovery_task,
			completed_at = EXCLUDED.completed_at,
			version = athlete_task_status.version + 1,
			updated_at = EXCLUDED.updated_at
		WHERE athlete_task_status.version = $9 AND athlete_task_status.id = EXCLUDED.id
		RETURNING version`

	var newVersion int
	err := sharedPersistence.Executor(ctx, r.pool).QueryRow(ctx, query,
		entry.ID(),
		entry.AthleteID(),
		entry.TaskID(),
		entry.Status().String(),
		entry.IsRecoveryTask(),
		entry.CompletedAt(),
		entry.CreatedAt(),
		entry.UpdatedAt(),
		entry.Version(),
	).Scan(&newVersion)
	if err != nil {
		var pgErr *pgconn.PgError
		if database.IsNoRows(err) || (errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation) {
			return fmt.Errorf("%s/%s: %w", entry.AthleteID(), entry.TaskID(), ledger.ErrVersionConflict)
		}
		return fmt.Errorf("save ledger entry: %w", err)
	}

	syncVersion(entry, newVersion)
	return nil
}
