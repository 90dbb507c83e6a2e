package task_test

import (
	"testing"

	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTask(t *testing.T, id string, grade int, required bool, deps ...string) *task.Task {
	t.Helper()
	tsk, err := task.NewTask(task.Params{
		ID:                id,
		Title:             "Task " + id,
		GradeLevel:        grade,
		Required:          required,
		DependencyTaskIDs: deps,
	})
	require.NoError(t, err)
	return tsk
}

func TestNewCatalog(t *testing.T) {
	a := mustTask(t, "a", 9, true)
	b := mustTask(t, "b", 10, false, "a")
	c := mustTask(t, "c", 10, true, "a", "b")

	catalog, err := task.NewCatalog(a, b, c)
	require.NoError(t, err)

	assert.Equal(t, 3, catalog.Len())
	assert.Equal(t, []*task.Task{a, b, c}, catalog.Tasks())
	assert.Equal(t, []*task.Task{b, c}, catalog.ByGradeLevel(10))
	assert.Equal(t, []string{"a", "c"}, catalog.RequiredTaskIDs())

	got, ok := catalog.Get("b")
	assert.True(t, ok)
	assert.Same(t, b, got)

	_, ok = catalog.Get("zzz")
	assert.False(t, ok)
	assert.NoError(t, catalog.Validate())
}

func TestNewCatalog_Rejects(t *testing.T) {
	t.Run("duplicate id", func(t *testing.T) {
		_, err := task.NewCatalog(mustTask(t, "a", 9, true), mustTask(t, "a", 10, true))
		assert.ErrorIs(t, err, task.ErrDuplicateTaskID)
	})

	t.Run("nil task", func(t *testing.T) {
		_, err := task.NewCatalog(mustTask(t, "a", 9, true), nil)
		assert.ErrorIs(t, err, task.ErrNilTask)
	})
}

func TestCatalog_NilSafe(t *testing.T) {
	var catalog *task.Catalog

	assert.Equal(t, 0, catalog.Len())
	assert.Empty(t, catalog.Tasks())
	_, ok := catalog.Get("a")
	assert.False(t, ok)
}

func TestCatalog_Validate(t *testing.T) {
	t.Run("unknown dependency", func(t *testing.T) {
		catalog, err := task.NewCatalog(mustTask(t, "a", 9, true, "ghost"))
		require.NoError(t, err)

		err = catalog.Validate()
		assert.ErrorIs(t, err, task.ErrUnknownDependency)
		assert.Contains(t, err.Error(), "a -> ghost")
	})

	t.Run("two task cycle", func(t *testing.T) {
		catalog, err := task.NewCatalog(
			mustTask(t, "a", 9, true, "b"),
			mustTask(t, "b", 9, true, "a"),
		)
		require.NoError(t, err)

		err = catalog.Validate()
		assert.ErrorIs(t, err, task.ErrDependencyCycle)
		assert.Contains(t, err.Error(), "a -> b -> a")
	})

	t.Run("longer cycle behind an acyclic prefix", func(t *testing.T) {
		catalog, err := task.NewCatalog(
			mustTask(t, "root", 9, true),
			mustTask(t, "x", 10, true, "root", "z"),
			mustTask(t, "y", 10, true, "x"),
			mustTask(t, "z", 11, true, "y"),
		)
		require.NoError(t, err)

		err = catalog.Validate()
		assert.ErrorIs(t, err, task.ErrDependencyCycle)
		assert.NotErrorIs(t, err, task.ErrUnknownDependency)
	})

	t.Run("diamond is not a cycle", func(t *testing.T) {
		catalog, err := task.NewCatalog(
			mustTask(t, "a", 9, true),
			mustTask(t, "b", 9, true, "a"),
			mustTask(t, "c", 9, true, "a"),
			mustTask(t, "d", 10, true, "b", "c"),
		)
		require.NoError(t, err)
		assert.NoError(t, catalog.Validate())
	})
}
