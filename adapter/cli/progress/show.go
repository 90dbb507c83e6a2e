package progress

import (
	"github.com/felixgeelhaar/recruitkit/adapter/cli"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/application/queries"
	"github.com/spf13/cobra"
)

var showFacts factsFlags

var showCmd = &cobra.Command{
	Use:     "show",
	Short:   "Show your readiness score without recording it",
	Example: `  recruitkit progress show --phase junior --days-since-contact 5 --target-schools 8 --interest high --gpa 3.6`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		facts, err := showFacts.facts(cmd)
		if err != nil {
			return err
		}

		result, err := app.GetProgressHandler.Handle(cmd.Context(), queries.GetProgressQuery{
			AthleteID: app.AthleteID,
			Facts:     facts,
		})
		if err != nil {
			return err
		}

		if cli.JSONOutput() {
			return cli.WriteJSON(cmd.OutOrStdout(), result)
		}
		printProgress(cmd.OutOrStdout(), result)
		return nil
	},
}

func init() {
	showFacts.bind(showCmd)
}
