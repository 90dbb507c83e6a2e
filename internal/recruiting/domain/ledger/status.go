// Package ledger records each athlete's progress through the task catalog:
// one status entry per (athlete, task).
package ledger

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidStatus is returned when a status string is not recognised.
var ErrInvalidStatus = errors.New("invalid task status")

// Status is where an athlete stands on a task.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusSkipped    Status = "skipped"
)

// Statuses lists every valid status.
func Statuses() []Status {
	return []Status{StatusNotStarted, StatusInProgress, StatusCompleted, StatusSkipped}
}

// ParseStatus converts user or storage input into a Status.
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted, StatusSkipped:
		return true
	default:
		return false
	}
}

func (s Status) String() string { return string(s) }
