// Package task holds the recruiting task catalog: the read-only reference
// tasks an athlete works through and the prerequisites between them.
package task

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Grade levels a task can be expected at.
const (
	MinGradeLevel = 9
	MaxGradeLevel = 12
)

var (
	ErrEmptyID            = errors.New("task id cannot be empty")
	ErrEmptyTitle         = errors.New("task title cannot be empty")
	ErrInvalidGradeLevel  = errors.New("task grade level must be between 9 and 12")
	ErrSelfDependency     = errors.New("task cannot depend on itself")
	ErrDuplicateDependsOn = errors.New("task lists the same dependency twice")
)

// Params carries the attributes of a catalog task.
type Params struct {
	ID                string
	Title             string
	WhyItMatters      string
	GradeLevel        int
	Required          bool
	DependencyTaskIDs []string
}

// Task is an immutable catalog entry.
type Task struct {
	id                string
	title             string
	whyItMatters      string
	gradeLevel        int
	required          bool
	dependencyTaskIDs []string
	resolved          bool
}

// NewTask validates params and builds a task.
func NewTask(p Params) (*Task, error) {
	id := strings.TrimSpace(p.ID)
	if id == "" {
		return nil, ErrEmptyID
	}
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return nil, fmt.Errorf("%s: %w", id, ErrEmptyTitle)
	}
	if p.GradeLevel < MinGradeLevel || p.GradeLevel > MaxGradeLevel {
		return nil, fmt.Errorf("%s: %w (got %d)", id, ErrInvalidGradeLevel, p.GradeLevel)
	}

	deps := make([]string, 0, len(p.DependencyTaskIDs))
	seen := make(map[string]struct{}, len(p.DependencyTaskIDs))
	for _, raw := range p.DependencyTaskIDs {
		dep := strings.TrimSpace(raw)
		if dep == "" {
			continue
		}
		if dep == id {
			return nil, fmt.Errorf("%s: %w", id, ErrSelfDependency)
		}
		if _, dup := seen[dep]; dup {
			return nil, fmt.Errorf("%s: %w: %s", id, ErrDuplicateDependsOn, dep)
		}
		seen[dep] = struct{}{}
		deps = append(deps, dep)
	}

	return &Task{
		id:                id,
		title:             title,
		whyItMatters:      strings.TrimSpace(p.WhyItMatters),
		gradeLevel:        p.GradeLevel,
		required:          p.Required,
		dependencyTaskIDs: deps,
		resolved:          true,
	}, nil
}

// Unresolved returns a placeholder for a dependency id that the catalog does
// not contain. The placeholder is titled with the id so it can still be named
// to the athlete.
func Unresolved(id string) *Task {
	return &Task{id: id, title: id}
}

func (t *Task) ID() string           { return t.id }
func (t *Task) Title() string        { return t.title }
func (t *Task) WhyItMatters() string { return t.whyItMatters }
func (t *Task) GradeLevel() int      { return t.gradeLevel }
func (t *Task) Required() bool       { return t.required }
func (t *Task) IsResolved() bool     { return t.resolved }

// HasDependencies reports whether the task declares any prerequisite.
func (t *Task) HasDependencies() bool { return len(t.dependencyTaskIDs) > 0 }

// DependencyTaskIDs returns the prerequisite ids in declared order.
func (t *Task) DependencyTaskIDs() []string {
	return slices.Clone(t.dependencyTaskIDs)
}

// Params returns the attributes the task was built from.
func (t *Task) Params() Params {
	return Params{
		ID:                t.id,
		Title:             t.title,
		WhyItMatters:      t.whyItMatters,
		GradeLevel:        t.gradeLevel,
		Required:          t.required,
		DependencyTaskIDs: t.DependencyTaskIDs(),
	}
}
