package task

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNilTask           = errors.New("catalog cannot contain a nil task")
	ErrDuplicateTaskID   = errors.New("duplicate task id in catalog")
	ErrUnknownDependency = errors.New("task depends on an id missing from the catalog")
	ErrDependencyCycle   = errors.New("task dependencies form a cycle")
)

// Catalog is an ordered, read-only set of tasks. The order is the order in
// which tasks were seeded and is preserved by every accessor.
type Catalog struct {
	tasks []*Task
	byID  map[string]*Task
}

// NewCatalog builds a catalog. It rejects nil tasks and duplicate ids but
// tolerates unknown dependency ids and cycles; use Validate at ingestion to
// reject those.
func NewCatalog(tasks ...*Task) (*Catalog, error) {
	c := &Catalog{
		tasks: make([]*Task, 0, len(tasks)),
		byID:  make(map[string]*Task, len(tasks)),
	}
	for i, t := range tasks {
		if t == nil {
			return nil, fmt.Errorf("position %d: %w", i, ErrNilTask)
		}
		if _, dup := c.byID[t.ID()]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTaskID, t.ID())
		}
		c.byID[t.ID()] = t
		c.tasks = append(c.tasks, t)
	}
	return c, nil
}

// Get looks a task up by id.
func (c *Catalog) Get(id string) (*Task, bool) {
	if c == nil {
		return nil, false
	}
	t, ok := c.byID[id]
	return t, ok
}

// Tasks returns all tasks in catalog order.
func (c *Catalog) Tasks() []*Task {
	if c == nil {
		return nil
	}
	out := make([]*Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// Len returns the number of tasks.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.tasks)
}

// ByGradeLevel returns the tasks expected at the given grade.
func (c *Catalog) ByGradeLevel(grade int) []*Task {
	var out []*Task
	for _, t := range c.Tasks() {
		if t.GradeLevel() == grade {
			out = append(out, t)
		}
	}
	return out
}

// RequiredTaskIDs returns the ids of required tasks in catalog order.
func (c *Catalog) RequiredTaskIDs() []string {
	var out []string
	for _, t := range c.Tasks() {
		if t.Required() {
			out = append(out, t.ID())
		}
	}
	return out
}

// Validate reports every dependency on an unknown id and every cycle.
// Errors are joined so callers can list all problems at once.
func (c *Catalog) Validate() error {
	var errs []error
	for _, t := range c.Tasks() {
		for _, dep := range t.dependencyTaskIDs {
			if _, ok := c.byID[dep]; !ok {
				errs = append(errs, fmt.Errorf("%w: %s -> %s", ErrUnknownDependency, t.ID(), dep))
			}
		}
	}
	errs = append(errs, c.findCycles()...)
	return errors.Join(errs...)
}

const (
	white = iota
	grey
	black
)

// findCycles runs a depth-first search over resolved edges and returns one
// error per back edge found.
func (c *Catalog) findCycles() []error {
	color := make(map[string]int, len(c.tasks))
	var errs []error
	var path []string

	var visit func(id string)
	visit = func(id string) {
		color[id] = grey
		path = append(path, id)
		for _, dep := range c.byID[id].dependencyTaskIDs {
			if _, ok := c.byID[dep]; !ok {
				continue
			}
			switch color[dep] {
			case white:
				visit(dep)
			case grey:
				errs = append(errs, fmt.Errorf("%w: %s", ErrDependencyCycle, cyclePath(path, dep)))
			}
		}
		path = path[:len(path)-1]
		color[id] = black
	}

	for _, t := range c.tasks {
		if color[t.ID()] == white {
			visit(t.ID())
		}
	}
	return errs
}

func cyclePath(path []string, start string) string {
	for i, id := range path {
		if id == start {
			loop := append(append([]string{}, path[i:]...), start)
			return strings.Join(loop, " -> ")
		}
	}
	return start
}
