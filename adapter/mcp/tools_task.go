package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/recruitkit/adapter/cli"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/application/commands"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/application/queries"
	"github.com/felixgeelhaar/recruitkit/pkg/observability"
)

type taskListInput struct {
	GradeLevel   int    `json:"grade_level,omitempty"`
	RequiredOnly bool   `json:"required_only,omitempty"`
	LockedOnly   bool   `json:"locked_only,omitempty"`
	Status       string `json:"status,omitempty"`
}

type taskIDInput struct {
	TaskID string `json:"task_id" jsonschema:"required"`
}

type taskUpdateInput struct {
	TaskID         string `json:"task_id" jsonschema:"required"`
	Status         string `json:"status" jsonschema:"required"`
	IsRecoveryTask *bool  `json:"is_recovery_task,omitempty"`
}

type taskWarningOutput struct {
	TaskID  string                  `json:"task_id"`
	Locked  bool                    `json:"locked"`
	Warning *queries.TaskWarningDTO `json:"warning,omitempty"`
}

func registerTaskTools(srv *mcp.Server, deps ToolDependencies) {
	app := deps.App

	srv.Tool("task.list").
		Description("List recruiting checklist tasks merged with the athlete's status and lock state").
		Handler(instrument(deps, "task.list", listTasks(app)))

	srv.Tool("task.warning").
		Description("Explain which prerequisite to finish before a task, if any").
		Handler(instrument(deps, "task.warning", taskWarning(app)))

	srv.Tool("task.update_status").
		Description("Set a task to not_started, in_progress, completed or skipped; in_progress and completed require finished prerequisites").
		Handler(instrument(deps, "task.update_status", updateTaskStatus(app)))
}

func listTasks(app *cli.App) func(context.Context, taskListInput) (*queries.ListTasksResult, error) {
	return func(ctx context.Context, input taskListInput) (*queries.ListTasksResult, error) {
		if app.ListTasksHandler == nil {
			return nil, errors.New("task listing requires database connection")
		}
		return app.ListTasksHandler.Handle(ctx, queries.ListTasksQuery{
			AthleteID:    app.AthleteID,
			GradeLevel:   input.GradeLevel,
			RequiredOnly: input.RequiredOnly,
			LockedOnly:   input.LockedOnly,
			Status:       input.Status,
		})
	}
}

func taskWarning(app *cli.App) func(context.Context, taskIDInput) (*taskWarningOutput, error) {
	return func(ctx context.Context, input taskIDInput) (*taskWarningOutput, error) {
		if app.GetTaskWarningHandler == nil {
			return nil, errors.New("task warnings require database connection")
		}
		if input.TaskID == "" {
			return nil, errors.New("task_id is required")
		}
		warning, err := app.GetTaskWarningHandler.Handle(ctx, queries.GetTaskWarningQuery{
			AthleteID: app.AthleteID,
			TaskID:    input.TaskID,
		})
		if err != nil {
			return nil, err
		}
		return &taskWarningOutput{TaskID: input.TaskID, Locked: warning != nil, Warning: warning}, nil
	}
}

func updateTaskStatus(app *cli.App) func(context.Context, taskUpdateInput) (*commands.UpdateTaskStatusResult, error) {
	return func(ctx context.Context, input taskUpdateInput) (*commands.UpdateTaskStatusResult, error) {
		if app.UpdateTaskStatusHandler == nil {
			return nil, errors.New("task updates require database connection")
		}
		if input.TaskID == "" || input.Status == "" {
			return nil, errors.New("task_id and status are required")
		}
		result, err := app.UpdateTaskStatusHandler.Handle(ctx, commands.UpdateTaskStatusCommand{
			AthleteID:      app.AthleteID,
			TaskID:         input.TaskID,
			Status:         input.Status,
			IsRecoveryTask: input.IsRecoveryTask,
			CorrelationID:  observability.CorrelationUUID(ctx),
		})
		if err != nil {
			return nil, err
		}
		if result.Changed {
			app.MetricsOrNoop().Counter(observability.MetricTaskStatusUpdated, 1, observability.T("status", result.To.String()))
		}
		return result, nil
	}
}
