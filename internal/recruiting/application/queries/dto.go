package queries

import (
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/application/services"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/ledger"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/task"
)

// ErrTaskNotFound is returned when a task id is not in the catalog.
var ErrTaskNotFound = task.ErrTaskNotFound

// PrerequisiteDTO is a prerequisite as seen by one athlete.
type PrerequisiteDTO struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

// TaskWithStatusDTO is a catalog task merged with the athlete's status.
type TaskWithStatusDTO struct {
	ID                         string            `json:"id"`
	Title                      string            `json:"title"`
	WhyItMatters               string            `json:"why_it_matters,omitempty"`
	GradeLevel                 int               `json:"grade_level"`
	Required                   bool              `json:"required"`
	DependencyTaskIDs          []string          `json:"dependency_task_ids"`
	Status                     string            `json:"status"`
	IsRecoveryTask             bool              `json:"is_recovery_task"`
	HasIncompletePrerequisites bool              `json:"has_incomplete_prerequisites"`
	PrerequisiteTasks          []PrerequisiteDTO `json:"prerequisite_tasks"`
}

// IsLocked reports whether the task is gated by open prerequisites.
func (d TaskWithStatusDTO) IsLocked() bool {
	return d.HasIncompletePrerequisites
}

func toTaskWithStatusDTO(view services.TaskWithStatus, l *ledger.Ledger) TaskWithStatusDTO {
	prereqs := make([]PrerequisiteDTO, 0, len(view.PrerequisiteTasks))
	for _, p := range view.PrerequisiteTasks {
		prereqs = append(prereqs, PrerequisiteDTO{
			ID:     p.ID(),
			Title:  p.Title(),
			Status: l.StatusOf(p.ID()).String(),
		})
	}
	return TaskWithStatusDTO{
		ID:                         view.Task.ID(),
		Title:                      view.Task.Title(),
		WhyItMatters:               view.Task.WhyItMatters(),
		GradeLevel:                 view.Task.GradeLevel(),
		Required:                   view.Task.Required(),
		DependencyTaskIDs:          view.Task.DependencyTaskIDs(),
		Status:                     view.Status.String(),
		IsRecoveryTask:             view.IsRecoveryTask,
		HasIncompletePrerequisites: view.HasIncompletePrerequisites,
		PrerequisiteTasks:          prereqs,
	}
}
