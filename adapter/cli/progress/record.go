package progress

import (
	"fmt"

	"github.com/felixgeelhaar/recruitkit/adapter/cli"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/application/commands"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/application/queries"
	"github.com/felixgeelhaar/recruitkit/pkg/observability"
	"github.com/spf13/cobra"
)

var recordFacts factsFlags

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Score readiness and record it, raising an event when the label changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		facts, err := recordFacts.facts(cmd)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		result, err := app.RecordProgressHandler.Handle(ctx, commands.RecordProgressCommand{
			AthleteID:     app.AthleteID,
			Facts:         facts,
			CorrelationID: observability.CorrelationUUID(ctx),
		})
		if err != nil {
			return err
		}

		metrics := app.MetricsOrNoop()
		metrics.Counter(observability.MetricProgressRecorded, 1, observability.T("label", result.Evaluation.Status.Label.String()))
		if result.LabelChanged {
			metrics.Counter(observability.MetricProgressChanged, 1)
		}

		dto := queries.ToProgressDTO(result.Evaluation)
		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			return cli.WriteJSON(out, map[string]any{
				"progress":       dto,
				"previous_label": result.PreviousLabel,
				"label_changed":  result.LabelChanged,
				"status_unknown": result.PreviousUnknown,
			})
		}

		printProgress(out, &dto)
		fmt.Fprintln(out)
		switch {
		case result.PreviousUnknown:
			fmt.Fprintln(out, cli.Muted("Previous status unavailable, nothing recorded."))
		case !result.LabelChanged:
			fmt.Fprintln(out, cli.Muted("Status unchanged."))
		case result.PreviousLabel == "":
			fmt.Fprintln(out, "First status recorded.")
		default:
			fmt.Fprintf(out, "Status changed from %s.\n", result.PreviousLabel)
		}
		return nil
	},
}

func init() {
	recordFacts.bind(recordCmd)
}
