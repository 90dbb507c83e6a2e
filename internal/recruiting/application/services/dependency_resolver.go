package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/ledger"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/task"
)

// ErrDependencyLocked matches every DependencyLockedError via errors.Is.
var ErrDependencyLocked = errors.New("task is locked by incomplete prerequisites")

// DefaultWhyItMatters is shown when a prerequisite has no explanation of its own.
const DefaultWhyItMatters = "Finishing this step first sets up the next stage of your recruiting plan."

// DependencyLockedError is returned when a task is moved to in_progress or
// completed while prerequisites are still open.
type DependencyLockedError struct {
	TaskID        string
	Target        ledger.Status
	Prerequisites []string
	UnknownTask   bool
}

func (e *DependencyLockedError) Error() string {
	if e.UnknownTask {
		return fmt.Sprintf("task %q is not in the catalog and cannot be marked %s", e.TaskID, e.Target)
	}
	return fmt.Sprintf("task %q cannot be marked %s until these are completed: %s",
		e.TaskID, e.Target, e.PrerequisiteList())
}

// PrerequisiteList renders the open prerequisite titles comma-joined.
func (e *DependencyLockedError) PrerequisiteList() string {
	return strings.Join(e.Prerequisites, ", ")
}

func (e *DependencyLockedError) Is(target error) bool {
	return target == ErrDependencyLocked
}

// DependencyCheck is the outcome of evaluating a task's prerequisites.
type DependencyCheck struct {
	Complete                bool
	IncompletePrerequisites []*task.Task
	UnknownTask             bool
}

// Warning is a soft nudge about an open prerequisite. The athlete may still
// proceed; only AssertCanTransition enforces.
type Warning struct {
	Message          string
	PrerequisiteTask *task.Task
	WhyItMatters     string
	CanProceed       bool
}

// DependencyResolver answers whether a task can be worked on given an
// athlete's ledger. It only inspects direct prerequisites, so a cycle in the
// catalog cannot make it loop.
type DependencyResolver struct {
	catalog *task.Catalog
}

// NewDependencyResolver creates a resolver over the given catalog.
func NewDependencyResolver(catalog *task.Catalog) *DependencyResolver {
	return &DependencyResolver{catalog: catalog}
}

// Catalog returns the catalog the resolver evaluates against.
func (r *DependencyResolver) Catalog() *task.Catalog {
	return r.catalog
}

// Dependencies returns the catalog tasks taskID depends on, in declared
// order. Unknown tasks and dependency ids missing from the catalog are
// skipped.
func (r *DependencyResolver) Dependencies(taskID string) []*task.Task {
	t, ok := r.catalog.Get(taskID)
	if !ok {
		return []*task.Task{}
	}
	deps := make([]*task.Task, 0, len(t.DependencyTaskIDs()))
	for _, id := range t.DependencyTaskIDs() {
		if dep, ok := r.catalog.Get(id); ok {
			deps = append(deps, dep)
		}
	}
	return deps
}

// CheckDependenciesComplete lists the prerequisites of taskID that are not
// completed in the ledger. Missing entries, skipped and in-progress all count
// as incomplete, as does any dependency id the catalog cannot resolve.
func (r *DependencyResolver) CheckDependenciesComplete(taskID string, l *ledger.Ledger) DependencyCheck {
	t, ok := r.catalog.Get(taskID)
	if !ok {
		return DependencyCheck{UnknownTask: true, IncompletePrerequisites: []*task.Task{}}
	}

	incomplete := make([]*task.Task, 0)
	for _, id := range t.DependencyTaskIDs() {
		dep, known := r.catalog.Get(id)
		if !known {
			incomplete = append(incomplete, task.Unresolved(id))
			continue
		}
		if !l.IsCompleted(id) {
			incomplete = append(incomplete, dep)
		}
	}

	return DependencyCheck{
		Complete:                len(incomplete) == 0,
		IncompletePrerequisites: incomplete,
	}
}

// IsLocked reports whether taskID has open prerequisites. It is defined in
// terms of CheckDependenciesComplete so the two can never disagree.
func (r *DependencyResolver) IsLocked(taskID string, l *ledger.Ledger) bool {
	return !r.CheckDependenciesComplete(taskID, l).Complete
}

// Warning returns an advisory naming the first open prerequisite, or nil
// when the task is free to work on.
func (r *DependencyResolver) Warning(taskID string, l *ledger.Ledger) *Warning {
	check := r.CheckDependenciesComplete(taskID, l)
	if check.Complete || len(check.IncompletePrerequisites) == 0 {
		return nil
	}

	first := check.IncompletePrerequisites[0]
	why := first.WhyItMatters()
	if why == "" {
		why = DefaultWhyItMatters
	}
	return &Warning{
		Message:          fmt.Sprintf("We recommend completing %q first.", first.Title()),
		PrerequisiteTask: first,
		WhyItMatters:     why,
		CanProceed:       true,
	}
}

// AssertCanTransition enforces the lock when moving a task to in_progress or
// completed. Moving to not_started or skipped is never gated; any other
// target is gated as well.
func (r *DependencyResolver) AssertCanTransition(taskID string, target ledger.Status, l *ledger.Ledger) error {
	if target == ledger.StatusNotStarted || target == ledger.StatusSkipped {
		return nil
	}

	check := r.CheckDependenciesComplete(taskID, l)
	if check.Complete {
		return nil
	}

	titles := make([]string, 0, len(check.IncompletePrerequisites))
	for _, dep := range check.IncompletePrerequisites {
		titles = append(titles, dep.Title())
	}
	return &DependencyLockedError{
		TaskID:        taskID,
		Target:        target,
		Prerequisites: titles,
		UnknownTask:   check.UnknownTask,
	}
}
