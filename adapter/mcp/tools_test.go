package mcp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/mcp-go/testutil"
	"github.com/felixgeelhaar/recruitkit/adapter/cli"
	"github.com/felixgeelhaar/recruitkit/internal/app"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/application/queries"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/application/services"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/infrastructure/catalog"
	"github.com/felixgeelhaar/recruitkit/pkg/config"
	"github.com/felixgeelhaar/recruitkit/pkg/observability"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

// newTestApp backs a cli.App with a seeded SQLite database in a temp dir.
func newTestApp(t *testing.T) *cli.App {
	t.Helper()

	cfg := &config.Config{
		AppEnv:     "test",
		AthleteID:  uuid.MustParse(config.DefaultAthleteID),
		SQLitePath: filepath.Join(t.TempDir(), "recruitkit.db"),
	}
	container, err := app.NewContainer(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(container.Close)

	_, err = container.EnsureCatalog(context.Background())
	require.NoError(t, err)

	return &cli.App{
		AthleteID:               cfg.AthleteID,
		UpdateTaskStatusHandler: container.UpdateTaskStatusHandler,
		RecordProgressHandler:   container.RecordProgressHandler,
		SeedCatalogHandler:      container.SeedCatalogHandler,
		ListTasksHandler:        container.ListTasksHandler,
		GetTaskWarningHandler:   container.GetTaskWarningHandler,
		GetProgressHandler:      container.GetProgressHandler,
		CatalogRepo:             container.Catalog,
		Advisory:                container.Evaluator.Advisory(),
		Metrics:                 container.Metrics,
		Ping:                    container.Ping,
	}
}

func TestRegisterCLITools_ListTools(t *testing.T) {
	srv := mcp.NewServer(mcp.ServerInfo{
		Name:    "test",
		Version: "1.0.0",
		Capabilities: mcp.Capabilities{
			Tools: true,
		},
	})

	require.NoError(t, RegisterCLITools(srv, ToolDependencies{App: &cli.App{}}))

	tc := testutil.NewTestClient(t, srv)
	defer tc.Close()

	tools, err := tc.ListTools()
	require.NoError(t, err)

	names := make(map[string]bool, len(tools))
	for _, tool := range tools {
		if name, ok := tool["name"].(string); ok {
			names[name] = true
		}
	}
	for _, want := range []string{
		"task.list",
		"task.warning",
		"task.update_status",
		"progress.evaluate",
		"progress.record",
		"progress.advice",
		"catalog.seed",
	} {
		assert.True(t, names[want], "%s tool should be registered", want)
	}
}

func TestRegisterCLITools_RequiresApp(t *testing.T) {
	srv := mcp.NewServer(mcp.ServerInfo{Name: "test", Version: "1.0.0"})

	assert.Error(t, RegisterCLITools(nil, ToolDependencies{App: &cli.App{}}))
	assert.Error(t, RegisterCLITools(srv, ToolDependencies{}))
}

func TestTaskTools(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	t.Run("list returns the seeded catalog", func(t *testing.T) {
		result, err := listTasks(a)(ctx, taskListInput{})
		require.NoError(t, err)
		assert.NotEmpty(t, result.Tasks)
		assert.Equal(t, len(result.Tasks), result.Summary.Total)
		assert.Equal(t, result.Summary.Total, result.Summary.NotStarted)
	})

	t.Run("grade filter", func(t *testing.T) {
		result, err := listTasks(a)(ctx, taskListInput{GradeLevel: 9})
		require.NoError(t, err)
		require.NotEmpty(t, result.Tasks)
		for _, task := range result.Tasks {
			assert.Equal(t, 9, task.GradeLevel)
		}
	})

	t.Run("warning for a locked task", func(t *testing.T) {
		out, err := taskWarning(a)(ctx, taskIDInput{TaskID: "create-highlight-video"})
		require.NoError(t, err)
		assert.True(t, out.Locked)
		require.NotNil(t, out.Warning)
		assert.Equal(t, "create-recruiting-profile", out.Warning.PrerequisiteTaskID)
		assert.True(t, out.Warning.CanProceed)
	})

	t.Run("no warning for a task without prerequisites", func(t *testing.T) {
		out, err := taskWarning(a)(ctx, taskIDInput{TaskID: "create-recruiting-profile"})
		require.NoError(t, err)
		assert.False(t, out.Locked)
		assert.Nil(t, out.Warning)
	})

	t.Run("warning requires a task id", func(t *testing.T) {
		_, err := taskWarning(a)(ctx, taskIDInput{})
		assert.Error(t, err)
	})

	t.Run("locked task cannot be completed", func(t *testing.T) {
		_, err := updateTaskStatus(a)(ctx, taskUpdateInput{TaskID: "track-athletic-stats", Status: "completed"})
		require.Error(t, err)
		assert.ErrorIs(t, err, services.ErrDependencyLocked)

		var locked *services.DependencyLockedError
		require.True(t, errors.As(err, &locked))
		assert.Equal(t, []string{"Create your recruiting profile"}, locked.Prerequisites)
	})

	t.Run("completing the prerequisite unlocks the task", func(t *testing.T) {
		result, err := updateTaskStatus(a)(ctx, taskUpdateInput{TaskID: "create-recruiting-profile", Status: "completed"})
		require.NoError(t, err)
		assert.True(t, result.Changed)

		result, err = updateTaskStatus(a)(ctx, taskUpdateInput{TaskID: "track-athletic-stats", Status: "in_progress"})
		require.NoError(t, err)
		assert.Equal(t, "in_progress", result.To.String())
	})

	t.Run("invalid status is rejected", func(t *testing.T) {
		_, err := updateTaskStatus(a)(ctx, taskUpdateInput{TaskID: "research-divisions", Status: "done"})
		assert.Error(t, err)
	})
}

func TestProgressTools(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	t.Run("evaluate without facts", func(t *testing.T) {
		dto, err := evaluateProgress(a, fixedNow)(ctx, queries.FactsInput{})
		require.NoError(t, err)
		assert.Equal(t, "at_risk", dto.Label)
		assert.GreaterOrEqual(t, dto.Score, 0)
		assert.LessOrEqual(t, dto.Score, 100)
		assert.Greater(t, dto.RequiredTotal, 0)
		assert.Zero(t, dto.RequiredCompleted)
	})

	t.Run("evaluate with an unknown phase has no actions", func(t *testing.T) {
		dto, err := evaluateProgress(a, fixedNow)(ctx, queries.FactsInput{Phase: "graduate"})
		require.NoError(t, err)
		assert.Empty(t, dto.Phase)
		assert.Empty(t, dto.NextActions)
		assert.Equal(t, "at_risk", dto.Label)
	})

	t.Run("record reports label changes once", func(t *testing.T) {
		first, err := recordProgress(a, fixedNow)(ctx, queries.FactsInput{})
		require.NoError(t, err)
		assert.True(t, first.LabelChanged)
		assert.Empty(t, first.PreviousLabel)

		second, err := recordProgress(a, fixedNow)(ctx, queries.FactsInput{})
		require.NoError(t, err)
		assert.False(t, second.LabelChanged)
		assert.Equal(t, "at_risk", second.PreviousLabel)

		m := a.Metrics.(*observability.InMemoryMetrics)
		assert.Equal(t, int64(2), m.GetCounter(observability.MetricProgressRecorded, observability.T("label", "at_risk")))
		assert.Equal(t, int64(1), m.GetCounter(observability.MetricProgressChanged))
	})
}

func TestProgressAdvice(t *testing.T) {
	advice := progressAdvice(&cli.App{})
	ctx := context.Background()

	tests := []struct {
		name        string
		input       adviceInput
		color       string
		wantActions bool
	}{
		{name: "on track junior", input: adviceInput{Label: "on_track", Phase: "junior"}, color: services.ColorGreen, wantActions: true},
		{name: "at risk senior", input: adviceInput{Label: "at_risk", Phase: "senior"}, color: services.ColorRed, wantActions: true},
		{name: "unknown label", input: adviceInput{Label: "excellent"}, color: services.ColorGray},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := advice(ctx, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.color, out.Advice.Color)
			assert.NotEmpty(t, out.Advice.Message)
			if tt.wantActions {
				assert.NotEmpty(t, out.NextActions)
			} else {
				assert.Empty(t, out.NextActions)
			}
		})
	}
}

func TestSeedCatalogTool(t *testing.T) {
	a := newTestApp(t)

	out, err := seedCatalog(a)(context.Background(), catalogSeedInput{})
	require.NoError(t, err)
	assert.Equal(t, catalog.DefaultSource, out.Source)
	assert.Greater(t, out.TaskCount, 0)
	assert.LessOrEqual(t, out.RequiredCount, out.TaskCount)

	_, err = seedCatalog(a)(context.Background(), catalogSeedInput{Path: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

func TestToolsWithoutDatabase(t *testing.T) {
	a := &cli.App{}
	ctx := context.Background()

	_, err := listTasks(a)(ctx, taskListInput{})
	assert.Error(t, err)
	_, err = taskWarning(a)(ctx, taskIDInput{TaskID: "x"})
	assert.Error(t, err)
	_, err = updateTaskStatus(a)(ctx, taskUpdateInput{TaskID: "x", Status: "completed"})
	assert.Error(t, err)
	_, err = evaluateProgress(a, fixedNow)(ctx, queries.FactsInput{})
	assert.Error(t, err)
	_, err = recordProgress(a, fixedNow)(ctx, queries.FactsInput{})
	assert.Error(t, err)
	_, err = seedCatalog(a)(ctx, catalogSeedInput{})
	assert.Error(t, err)
}

func TestInstrument(t *testing.T) {
	metrics := observability.NewInMemoryMetrics()
	athleteID := uuid.New()
	deps := ToolDependencies{
		App:    &cli.App{AthleteID: athleteID, Metrics: metrics},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	var seenAthlete, seenRequest string
	fn := instrument(deps, "demo", func(ctx context.Context, in int) (int, error) {
		seenAthlete = observability.AthleteIDFromContext(ctx)
		seenRequest = observability.RequestIDFromContext(ctx)
		if in < 0 {
			return 0, errors.New("negative")
		}
		return in * 2, nil
	})

	out, err := fn(context.Background(), 21)
	require.NoError(t, err)
	assert.Equal(t, 42, out)
	assert.Equal(t, athleteID.String(), seenAthlete)
	assert.NotEmpty(t, seenRequest)

	_, err = fn(context.Background(), -1)
	assert.Error(t, err)

	assert.Equal(t, int64(2), metrics.GetCounter(observability.MetricMCPToolCalls, observability.T("tool", "demo")))
}
