// Package persistence stores the task catalog and athlete ledgers in SQLite
// (local mode) or PostgreSQL (server mode).
package persistence

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/ledger"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/task"
	sharedDomain "github.com/felixgeelhaar/recruitkit/internal/shared/domain"
	"github.com/google/uuid"
)

// taskRow is a tasks row joined with its dependency ids.
type taskRow struct {
	ID           string
	Title        string
	WhyItMatters string
	GradeLevel   int
	Required     bool
	DependsOn    []string
}

func (r taskRow) toTask() (*task.Task, error) {
	return task.NewTask(task.Params{
		ID:                r.ID,
		Title:             r.Title,
		WhyItMatters:      r.WhyItMatters,
		GradeLevel:        r.GradeLevel,
		Required:          r.Required,
		DependencyTaskIDs: r.DependsOn,
	})
}

// buildCatalog attaches dependencies to rows and builds the catalog in row
// order.
func buildCatalog(rows []taskRow, deps map[string][]string) (*task.Catalog, error) {
	tasks := make([]*task.Task, 0, len(rows))
	for _, row := range rows {
		row.DependsOn = deps[row.ID]
		t, err := row.toTask()
		if err != nil {
			return nil, fmt.Errorf("stored task %s: %w", row.ID, err)
		}
		tasks = append(tasks, t)
	}
	return task.NewCatalog(tasks...)
}

// entryRow represents a database row for athlete_task_status.
type entryRow struct {
	ID             uuid.UUID
	AthleteID      uuid.UUID
	TaskID         string
	Status         string
	IsRecoveryTask bool
	CompletedAt    *time.Time
	Version        int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (r entryRow) toEntry() (*ledger.Entry, error) {
	status, err := ledger.ParseStatus(r.Status)
	if err != nil {
		return nil, fmt.Errorf("stored entry %s: %w", r.ID, err)
	}
	base := sharedDomain.RehydrateBaseAggregateRoot(
		sharedDomain.RehydrateBaseEntity(r.ID, r.CreatedAt, r.UpdatedAt),
		r.Version,
	)
	return ledger.RehydrateEntry(base, r.AthleteID, r.TaskID, status, r.IsRecoveryTask, r.CompletedAt), nil
}
