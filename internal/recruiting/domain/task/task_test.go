package task_test

import (
	"testing"

	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	tsk, err := task.NewTask(task.Params{
		ID:                " ncaa-register ",
		Title:             "  Register with the NCAA Eligibility Center ",
		WhyItMatters:      "Division I and II programs cannot offer without it.",
		GradeLevel:        11,
		Required:          true,
		DependencyTaskIDs: []string{"transcript", " ", "test-plan"},
	})

	require.NoError(t, err)
	assert.Equal(t, "ncaa-register", tsk.ID())
	assert.Equal(t, "Register with the NCAA Eligibility Center", tsk.Title())
	assert.Equal(t, 11, tsk.GradeLevel())
	assert.True(t, tsk.Required())
	assert.True(t, tsk.IsResolved())
	assert.True(t, tsk.HasDependencies())
	assert.Equal(t, []string{"transcript", "test-plan"}, tsk.DependencyTaskIDs())
}

func TestNewTask_Validation(t *testing.T) {
	tests := []struct {
		name   string
		params task.Params
		err    error
	}{
		{"empty id", task.Params{ID: "  ", Title: "x", GradeLevel: 9}, task.ErrEmptyID},
		{"empty title", task.Params{ID: "a", Title: "\t", GradeLevel: 9}, task.ErrEmptyTitle},
		{"grade too low", task.Params{ID: "a", Title: "x", GradeLevel: 8}, task.ErrInvalidGradeLevel},
		{"grade too high", task.Params{ID: "a", Title: "x", GradeLevel: 13}, task.ErrInvalidGradeLevel},
		{"self dependency", task.Params{ID: "a", Title: "x", GradeLevel: 9, DependencyTaskIDs: []string{"a"}}, task.ErrSelfDependency},
		{"duplicate dependency", task.Params{ID: "a", Title: "x", GradeLevel: 9, DependencyTaskIDs: []string{"b", "b"}}, task.ErrDuplicateDependsOn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := task.NewTask(tt.params)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestTask_DependencyTaskIDsIsACopy(t *testing.T) {
	tsk, err := task.NewTask(task.Params{ID: "b", Title: "B", GradeLevel: 9, DependencyTaskIDs: []string{"a"}})
	require.NoError(t, err)

	deps := tsk.DependencyTaskIDs()
	deps[0] = "mutated"

	assert.Equal(t, []string{"a"}, tsk.DependencyTaskIDs())
}

func TestUnresolved(t *testing.T) {
	placeholder := task.Unresolved("missing-task")

	assert.Equal(t, "missing-task", placeholder.ID())
	assert.Equal(t, "missing-task", placeholder.Title())
	assert.False(t, placeholder.IsResolved())
	assert.False(t, placeholder.HasDependencies())
}

func TestTask_Params(t *testing.T) {
	p := task.Params{ID: "b", Title: "B", WhyItMatters: "why", GradeLevel: 10, Required: true, DependencyTaskIDs: []string{"a"}}
	tsk, err := task.NewTask(p)
	require.NoError(t, err)

	assert.Equal(t, p, tsk.Params())
}
