package progress

import (
	"fmt"

	"github.com/felixgeelhaar/recruitkit/adapter/cli"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/application/services"
	domain "github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/progress"
	"github.com/spf13/cobra"
)

var advicePhase string

var adviceCmd = &cobra.Command{
	Use:     "advice [label]",
	Short:   "Show the advice and next actions for a status label",
	Example: `  recruitkit progress advice at_risk --phase senior`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		advisory := services.NewStatusAdvisory()
		if app := cli.GetApp(); app != nil && app.Advisory != nil {
			advisory = app.Advisory
		}

		label := domain.Label(args[0])
		if parsed := domain.ParseLabel(args[0]); parsed != "" {
			label = parsed
		}
		advice := advisory.Advice(label)
		actions := advisory.NextActions(label, domain.ParsePhase(advicePhase))

		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			return cli.WriteJSON(out, map[string]any{
				"advice":       advice,
				"next_actions": actions,
			})
		}
		fmt.Fprintln(out, cli.Colorize(advice.Color, advice.Message))
		for _, action := range actions {
			fmt.Fprintf(out, "  - %s\n", action)
		}
		return nil
	},
}

func init() {
	adviceCmd.Flags().StringVar(&advicePhase, "phase", "", "recruiting phase or grade")
}
