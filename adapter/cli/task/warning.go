package task

import (
	"fmt"

	"github.com/felixgeelhaar/recruitkit/adapter/cli"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/application/queries"
	"github.com/spf13/cobra"
)

var warningCmd = &cobra.Command{
	Use:   "warning [task-id]",
	Short: "Show whether a task has open prerequisites",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		warning, err := app.GetTaskWarningHandler.Handle(cmd.Context(), queries.GetTaskWarningQuery{
			AthleteID: app.AthleteID,
			TaskID:    args[0],
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			return cli.WriteJSON(out, warning)
		}
		if warning == nil {
			fmt.Fprintf(out, "%s is ready to work on.\n", args[0])
			return nil
		}
		fmt.Fprintln(out, cli.Colorize("yellow", warning.Message))
		fmt.Fprintln(out, "Why it matters: "+warning.WhyItMatters)
		fmt.Fprintln(out, cli.Muted("Moving it to in_progress or completed unlocks once every prerequisite is completed."))
		return nil
	},
}
