package ledger

import (
	"errors"
	"strings"
	"time"

	"github.com/felixgeelhaar/recruitkit/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrEmptyTaskID    = errors.New("ledger entry requires a task id")
	ErrMissingAthlete = errors.New("ledger entry requires an athlete id")
)

// Entry is one athlete's status on one catalog task.
type Entry struct {
	domain.BaseAggregateRoot
	athleteID      uuid.UUID
	taskID         string
	status         Status
	isRecoveryTask bool
	completedAt    *time.Time
}

// NewEntry creates a not-started entry. Entries are created lazily the first
// time a status is recorded.
func NewEntry(athleteID uuid.UUID, taskID string) (*Entry, error) {
	if athleteID == uuid.Nil {
		return nil, ErrMissingAthlete
	}
	taskID = strings.TrimSpace(taskID)
	if taskID == "" {
		return nil, ErrEmptyTaskID
	}
	return &Entry{
		BaseAggregateRoot: domain.NewBaseAggregateRoot(),
		athleteID:         athleteID,
		taskID:            taskID,
		status:            StatusNotStarted,
	}, nil
}

// RehydrateEntry restores an entry loaded from storage.
func RehydrateEntry(
	base domain.BaseAggregateRoot,
	athleteID uuid.UUID,
	taskID string,
	status Status,
	isRecoveryTask bool,
	completedAt *time.Time,
) *Entry {
	return &Entry{
		BaseAggregateRoot: base,
		athleteID:         athleteID,
		taskID:            taskID,
		status:            status,
		isRecoveryTask:    isRecoveryTask,
		completedAt:       completedAt,
	}
}

func (e *Entry) AthleteID() uuid.UUID    { return e.athleteID }
func (e *Entry) TaskID() string          { return e.taskID }
func (e *Entry) Status() Status          { return e.status }
func (e *Entry) IsRecoveryTask() bool    { return e.isRecoveryTask }
func (e *Entry) CompletedAt() *time.Time { return e.completedAt }
func (e *Entry) IsCompleted() bool       { return e.status == StatusCompleted }

// TransitionTo moves the entry to status. Moving to the current status is a
// no-op and raises no event. Dependency gating happens before this call.
func (e *Entry) TransitionTo(status Status) error {
	if !status.IsValid() {
		return ErrInvalidStatus
	}
	if status == e.status {
		return nil
	}

	from := e.status
	e.status = status
	if status == StatusCompleted {
		now := time.Now().UTC()
		e.completedAt = &now
	} else {
		e.completedAt = nil
	}
	e.Touch()
	e.AddDomainEvent(NewTaskStatusChanged(e, from, status))
	return nil
}

// SetRecoveryTask flags the entry as remediation work. Returns true when the
// flag changed.
func (e *Entry) SetRecoveryTask(recovery bool) bool {
	if e.isRecoveryTask == recovery {
		return false
	}
	e.isRecoveryTask = recovery
	e.Touch()
	e.AddDomainEvent(NewRecoveryFlagChanged(e, recovery))
	return true
}
