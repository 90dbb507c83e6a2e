package ledger

import (
	"github.com/felixgeelhaar/recruitkit/internal/shared/domain"
)

const (
	AggregateType = "AthleteTaskStatus"

	RoutingKeyStatusChanged       = "recruiting.task.status_changed"
	RoutingKeyRecoveryFlagChanged = "recruiting.task.recovery_flag_changed"
)

// TaskStatusChanged is raised when an athlete's status on a task changes.
type TaskStatusChanged struct {
	domain.BaseEvent
	AthleteID string `json:"athlete_id"`
	TaskID    string `json:"task_id"`
	From      Status `json:"from"`
	To        Status `json:"to"`
}

// NewTaskStatusChanged creates a TaskStatusChanged event.
func NewTaskStatusChanged(e *Entry, from, to Status) *TaskStatusChanged {
	return &TaskStatusChanged{
		BaseEvent: domain.NewBaseEvent(e.ID(), AggregateType, RoutingKeyStatusChanged),
		AthleteID: e.athleteID.String(),
		TaskID:    e.taskID,
		From:      from,
		To:        to,
	}
}

// RecoveryFlagChanged is raised when a task is flagged or unflagged as
// recovery work.
type RecoveryFlagChanged struct {
	domain.BaseEvent
	AthleteID      string `json:"athlete_id"`
	TaskID         string `json:"task_id"`
	IsRecoveryTask bool   `json:"is_recovery_task"`
}

// NewRecoveryFlagChanged creates a RecoveryFlagChanged event.
func NewRecoveryFlagChanged(e *Entry, recovery bool) *RecoveryFlagChanged {
	return &RecoveryFlagChanged{
		BaseEvent:      domain.NewBaseEvent(e.ID(), AggregateType, RoutingKeyRecoveryFlagChanged),
		AthleteID:      e.athleteID.String(),
		TaskID:         e.taskID,
		IsRecoveryTask: recovery,
	}
}
