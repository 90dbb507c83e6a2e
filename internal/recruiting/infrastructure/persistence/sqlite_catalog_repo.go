package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/task"
	sharedPersistence "github.com/felixgeelhaar/recruitkit/internal/shared/infrastructure/persistence"
)

// SQLiteCatalogRepository implements task.CatalogRepository using SQLite.
type SQLiteCatalogRepository struct {
	db *sql.DB
}

// NewSQLiteCatalogRepository creates a new SQLite catalog repository.
func NewSQLiteCatalogRepository(db *sql.DB) *SQLiteCatalogRepository {
	return &SQLiteCatalogRepository{db: db}
}

// Load returns the stored catalog. An unseeded database yields an empty
// catalog.
func (r *SQLiteCatalogRepository) Load(ctx context.Context) (*task.Catalog, error) {
	exec := sharedPersistence.SQLiteExecutor(ctx, r.db)

	rows, err := exec.QueryContext(ctx, `
		SELECT id, title, why_it_matters, grade_level, required
		FROM tasks
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	var tasks []taskRow
	for rows.Next() {
		var row taskRow
		if err := rows.Scan(&row.ID, &row.Title, &row.WhyItMatters, &row.GradeLevel, &row.Required); err != nil {
			rows.Close()
			return nil, err
		}
		tasks = append(tasks, row)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	depRows, err := exec.QueryContext(ctx, `
		SELECT task_id, depends_on_id
		FROM task_dependencies
		ORDER BY task_id, position`)
	if err != nil {
		return nil, fmt.Errorf("load task dependencies: %w", err)
	}
	defer depRows.Close()

	deps := make(map[string][]string)
	for depRows.Next() {
		var taskID, dependsOn string
		if err := depRows.Scan(&taskID, &dependsOn); err != nil {
			return nil, err
		}
		deps[taskID] = append(deps[taskID], dependsOn)
	}
	if err := depRows.Err(); err != nil {
		return nil, err
	}

	return buildCatalog(tasks, deps)
}

// Replace swaps the stored catalog. Ledger rows are left untouched, so
// entries for tasks that disappear simply stop matching the catalog.
func (r *SQLiteCatalogRepository) Replace(ctx context.Context, catalog *task.Catalog) error {
	if _, ok := sharedPersistence.SQLiteTxInfoFromContext(ctx); ok {
		return replaceSQLiteCatalog(ctx, sharedPersistence.SQLiteExecutor(ctx, r.db), catalog)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if err := replaceSQLiteCatalog(ctx, tx, catalog); err != nil {
		return err
	}
	return tx.Commit()
}

func replaceSQLiteCatalog(ctx context.Context, exec sharedPersistence.SQLExecutor, catalog *task.Catalog) error {
	if _, err := exec.ExecContext(ctx, `DELETE FROM task_dependencies`); err != nil {
		return fmt.Errorf("clear task dependencies: %w", err)
	}
	if _, err := exec.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}

	for pos, t := range catalog.Tasks() {
		if _, err := exec.ExecContext(ctx, `
			INSERT INTO tasks (id, position, title, why_it_matters, grade_level, required)
			VALUES (?, ?, ?, ?, ?, ?)`,
			t.ID(), pos, t.Title(), t.WhyItMatters(), t.GradeLevel(), t.Required(),
		); err != nil {
			return fmt.Errorf("insert task %s: %w", t.ID(), err)
		}
		for depPos, dep := range t.DependencyTaskIDs() {
			if _, err := exec.ExecContext(ctx, `
				INSERT INTO task_dependencies (task_id, position, depends_on_id)
				VALUES (?, ?, ?)`,
				t.ID(), depPos, dep,
			); err != nil {
				return fmt.Errorf("insert dependency %s -> %s: %w", t.ID(), dep, err)
			}
		}
	}
	return nil
}
