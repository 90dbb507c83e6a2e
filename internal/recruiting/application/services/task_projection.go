package services

import (
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/ledger"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/task"
)

// TaskWithStatus is a catalog task merged with the athlete's ledger entry.
// It is derived at query time and never stored.
type TaskWithStatus struct {
	Task                       *task.Task
	Status                     ledger.Status
	IsRecoveryTask             bool
	HasIncompletePrerequisites bool
	PrerequisiteTasks          []*task.Task
}

// ProjectTaskWithStatus builds the view of t for the athlete owning l.
func (r *DependencyResolver) ProjectTaskWithStatus(t *task.Task, l *ledger.Ledger) TaskWithStatus {
	view := TaskWithStatus{
		Task:              t,
		Status:            l.StatusOf(t.ID()),
		PrerequisiteTasks: r.Dependencies(t.ID()),
	}
	if entry, ok := l.Entry(t.ID()); ok {
		view.IsRecoveryTask = entry.IsRecoveryTask()
	}
	if t.HasDependencies() {
		view.HasIncompletePrerequisites = !r.CheckDependenciesComplete(t.ID(), l).Complete
	}
	return view
}

// ProjectCatalog projects every catalog task in catalog order.
func (r *DependencyResolver) ProjectCatalog(l *ledger.Ledger) []TaskWithStatus {
	tasks := r.catalog.Tasks()
	out := make([]TaskWithStatus, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, r.ProjectTaskWithStatus(t, l))
	}
	return out
}
