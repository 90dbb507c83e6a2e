package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/ledger"
	"github.com/felixgeelhaar/recruitkit/internal/shared/infrastructure/database"
	sharedPersistence "github.com/felixgeelhaar/recruitkit/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

// SQLiteLedgerRepository implements ledger.Repository using SQLite. The
// connection pool holds a single connection, so a unit of work already
// excludes concurrent writers and no row locks are needed.
type SQLiteLedgerRepository struct {
	db *sql.DB
}

// NewSQLiteLedgerRepository creates a new SQLite ledger repository.
func NewSQLiteLedgerRepository(db *sql.DB) *SQLiteLedgerRepository {
	return &SQLiteLedgerRepository{db: db}
}

func (r *SQLiteLedgerRepository) FindByAthlete(ctx context.Context, athleteID uuid.UUID) (*ledger.Ledger, error) {
	exec := sharedPersistence.SQLiteExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, `
		SELECT id, athlete_id, task_id, status, is_recovery_task, completed_at,
		       version, created_at, updated_at
		FROM athlete_task_status
		WHERE athlete_id = ?
		ORDER BY task_id`, athleteID.String())
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	defer rows.Close()

	var entries []*ledger.Entry
	for rows.Next() {
		row, err := scanSQLiteEntry(rows)
		if err != nil {
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

func scanSQLiteEntry(rows *sql.Rows) (entryRow, error) {
	var (
		row                  entryRow
		id, athleteID        string
		completedAt          sql.NullString
		createdAt, updatedAt string
	)
	if err := rows.Scan(&id, &athleteID, &row.TaskID, &row.Status, &row.IsRecoveryTask,
		&completedAt, &row.Version, &createdAt, &updatedAt); err != nil {
		return entryRow{}, err
	}

	var err error
	if row.ID, err = uuid.Parse(id); err != nil {
		return entryRow{}, fmt.Errorf("entry id: %w", err)
	}
	if row.AthleteID, err = uuid.Parse(athleteID); err != nil {
		return entryRow{}, fmt.Errorf("entry %s athlete_id: %w", id, err)
	}
	if row.CompletedAt, err = sharedPersistence.ParseSQLiteTimePtr(completedAt); err != nil {
		return entryRow{}, err
	}
	if row.CreatedAt, err = sharedPersistence.ParseSQLiteTime(createdAt); err != nil {
		return entryRow{}, err
	}
	if row.UpdatedAt, err = sharedPersistence.ParseSQLiteTime(updatedAt); err != nil {
		return entryRow{}, err
	}
	return row, nil
}

// Save upserts the entry when the stored version still matches the one it
// was loaded at. A concurrent first write for the same task surfaces as
// ErrVersionConflict too.
func (r *SQLiteLedgerRepository) Save(ctx context.Context, entry *ledger.Entry) error {
	exec := sharedPersistence.SQLiteExecutor(ctx, r.db)

	var newVersion int
	err := exec.QueryRowContext(ctx, `
		INSERT INTO athlete_task_status (
			id, athlete_id, task_id, status, is_recovery_task, completed_at,
			version, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?)
		ON CONFLICT (athlete_id, task_id) DO UPDATE SET
			status = excluded.status,
			is_recovery_task = excluded.is_recovery_task,
			completed_at = excluded.completed_at,
			version = athlete_task_status.version + 1,
			updated_at = excluded.updated_at
		WHERE athlete_task_status.version = ? AND athlete_task_status.id = excluded.id
		RETURNING version`,
		entry.ID().String(),
		entry.AthleteID().String(),
		entry.TaskID(),
		entry.Status().String(),
		entry.IsRecoveryTask(),
		sharedPersistence.FormatSQLiteTimePtr(entry.CompletedAt()),
		sharedPersistence.FormatSQLiteTime(entry.CreatedAt()),
		sharedPersistence.FormatSQLiteTime(entry.UpdatedAt()),
		entry.Version(),
	).Scan(&newVersion)
	if err != nil {
		if database.IsNoRows(err) || isSQLiteConstraint(err) {
			return fmt.Errorf("%s/%s: %w", entry.AthleteID(), entry.TaskID(), ledger.ErrVersionConflict)
		}
		return fmt.Errorf("save ledger entry: %w", err)
	}

	syncVersion(entry, newVersion)
	return nil
}

func isSQLiteConstraint(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// syncVersion advances the in-memory version to what storage now holds.
func syncVersion(entry *ledger.Entry, stored int) {
	for entry.Version() < stored {
		entry.IncrementVersion()
	}
}
