package task

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/recruitkit/adapter/cli"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/application/commands"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/application/services"
	"github.com/felixgeelhaar/recruitkit/pkg/observability"
	"github.com/spf13/cobra"
)

var (
	recovery   bool
	noRecovery bool
)

var updateCmd = &cobra.Command{
	Use:   "update [task-id] [status]",
	Short: "Change a task's status",
	Long: `Change a task's status to not_started, in_progress, completed or skipped.

Moving a task to in_progress or completed requires every prerequisite to be
completed first.

Examples:
  recruitkit task update create-recruiting-profile completed
  recruitkit task update email-coaches in_progress --recovery`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		if recovery && noRecovery {
			return errors.New("--recovery and --no-recovery are mutually exclusive")
		}

		ctx := cmd.Context()
		command := commands.UpdateTaskStatusCommand{
			AthleteID:     app.AthleteID,
			TaskID:        args[0],
			Status:        args[1],
			CorrelationID: observability.CorrelationUUID(ctx),
		}
		if recovery || noRecovery {
			flag := recovery
			command.IsRecoveryTask = &flag
		}

		result, err := app.UpdateTaskStatusHandler.Handle(ctx, command)
		if err != nil {
			var locked *services.DependencyLockedError
			if errors.As(err, &locked) {
				app.MetricsOrNoop().Counter(observability.MetricTaskLocked, 1)
			}
			return err
		}
		if result.Changed {
			app.MetricsOrNoop().Counter(observability.MetricTaskStatusUpdated, 1, observability.T("status", result.To.String()))
		}

		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			return cli.WriteJSON(out, result)
		}
		if !result.Changed {
			fmt.Fprintf(out, "%s is already %s.\n", result.TaskID, result.To)
			return nil
		}
		fmt.Fprintf(out, "%s: %s -> %s\n", result.TaskID, result.From, cli.Colorize("green", result.To.String()))
		return nil
	},
}

func init() {
	updateCmd.Flags().BoolVar(&recovery, "recovery", false, "mark as a recovery task")
	updateCmd.Flags().BoolVar(&noRecovery, "no-recovery", false, "clear the recovery flag")
}
