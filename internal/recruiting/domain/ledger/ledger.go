package ledger

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

var (
	ErrDuplicateEntry = errors.New("ledger already has an entry for task")
	ErrForeignEntry   = errors.New("ledger entry belongs to another athlete")
)

// Ledger is a consistent snapshot of one athlete's entries, keyed by task id.
// A missing entry means the task has not been started.
type Ledger struct {
	athleteID uuid.UUID
	entries   map[string]*Entry
}

// NewLedger builds a snapshot. At most one entry per task id is allowed.
func NewLedger(athleteID uuid.UUID, entries ...*Entry) (*Ledger, error) {
	l := &Ledger{athleteID: athleteID, entries: make(map[string]*Entry, len(entries))}
	for _, e := range entries {
		if e == nil {
			continue
		}
		if e.AthleteID() != athleteID {
			return nil, fmt.Errorf("%w: %s", ErrForeignEntry, e.TaskID())
		}
		if _, dup := l.entries[e.TaskID()]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateEntry, e.TaskID())
		}
		l.entries[e.TaskID()] = e
	}
	return l, nil
}

// AthleteID returns the athlete the snapshot belongs to.
func (l *Ledger) AthleteID() uuid.UUID { return l.athleteID }

// Entry returns the stored entry for a task, if any.
func (l *Ledger) Entry(taskID string) (*Entry, bool) {
	if l == nil {
		return nil, false
	}
	e, ok := l.entries[taskID]
	return e, ok
}

// Status returns the recorded status and whether an entry exists.
func (l *Ledger) Status(taskID string) (Status, bool) {
	e, ok := l.Entry(taskID)
	if !ok {
		return "", false
	}
	return e.Status(), true
}

// StatusOf returns the effective status, treating a missing entry as not started.
func (l *Ledger) StatusOf(taskID string) Status {
	if s, ok := l.Status(taskID); ok {
		return s
	}
	return StatusNotStarted
}

// IsCompleted reports whether the task has a completed entry.
func (l *Ledger) IsCompleted(taskID string) bool {
	s, ok := l.Status(taskID)
	return ok && s == StatusCompleted
}

// EntryOrNew returns the existing entry or a fresh not-started one that is
// tracked by the snapshot.
func (l *Ledger) EntryOrNew(taskID string) (*Entry, error) {
	if e, ok := l.Entry(taskID); ok {
		return e, nil
	}
	e, err := NewEntry(l.athleteID, taskID)
	if err != nil {
		return nil, err
	}
	l.entries[e.TaskID()] = e
	return e, nil
}

// CompletedTaskIDs returns the ids of completed tasks, sorted.
func (l *Ledger) CompletedTaskIDs() []string {
	var ids []string
	for _, e := range l.Entries() {
		if e.IsCompleted() {
			ids = append(ids, e.TaskID())
		}
	}
	return ids
}

// Entries returns all entries sorted by task id.
func (l *Ledger) Entries() []*Entry {
	if l == nil {
		return nil
	}
	out := make([]*Entry, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TaskID() < out[j].TaskID() })
	return out
}

// Len returns the number of recorded entries.
func (l *Ledger) Len() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}
