package persistence

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/task"
	sharedPersistence "github.com/felixgeelhaar/recruitkit/internal/shared/infrastructure/persistence"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresCatalogRepository implements task.CatalogRepository using PostgreSQL.
type PostgresCatalogRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresCatalogRepository creates a new PostgreSQL catalog repository.
func NewPostgresCatalogRepository(pool *pgxpool.Pool) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{pool: pool}
}

func (r *PostgresCatalogRepository) Load(ctx context.Context) (*task.Catalog, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)

	rows, err := exec.Query(ctx, `
		SELECT t.id, t.title, t.why_it_matters, t.grade_level, t.required,
		       COALESCE(array_agg(d.depends_on_id ORDER BY d.position)
		                FILTER (WHERE d.depends_on_id IS NOT NULL), '{}')
		FROM tasks t
		LEFT JOIN task_dependencies d ON d.task_id = t.id
		GROUP BY t.id
		ORDER BY t.position`)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	defer rows.Close()

	var tasks []taskRow
	deps := make(map[string][]string)
	for rows.Next() {
		var (
			row       taskRow
			dependsOn []string
		)
		if err := rows.Scan(&row.ID, &row.Title, &row.WhyItMatters, &row.GradeLevel, &row.Required, &dependsOn); err != nil {
			return nil, err
		}
		tasks = append(tasks, row)
		deps[row.ID] = dependsOn
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return buildCatalog(tasks, deps)
}

func (r *PostgresCatalogRepository) Replace(ctx context.Context, catalog *task.Catalog) error {
	if sharedPersistence.InTx(ctx) {
		return replacePostgresCatalog(ctx, sharedPersistence.Executor(ctx, r.pool), catalog)
	}
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return replacePostgresCatalog(ctx, tx, catalog)
	})
}

func replacePostgresCatalog(ctx context.Context, exec sharedPersistence.DBExecutor, catalog *task.Catalog) error {
	if _, err := exec.Exec(ctx, `DELETE FROM task_dependencies`); err != nil {
		return fmt.Errorf("clear task dependencies: %w", err)
	}
	if _, err := exec.Exec(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}

	for pos, t := range catalog.Tasks() {
		if _, err := exec.Exec(ctx, `
			INSERT INTO tasks (id, position, title, why_it_matters, grade_level, required)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			t.ID(), pos, t.Title(), t.WhyItMatters(), t.GradeLevel(), t.Required(),
		); err != nil {
			return fmt.Errorf("insert task %s: %w", t.ID(), err)
		}
		for depPos, dep := range t.DependencyTaskIDs() {
			if _, err := exec.Exec(ctx, `
				INSERT INTO task_dependencies (task_id, position, depends_on_id)
				VALUES ($1, $2, $3)`,
				t.ID(), depPos, dep,
			); err != nil {
				return fmt.Errorf("insert dependency %s -> %s: %w", t.ID(), dep, err)
			}
		}
	}
	return nil
}
