package task

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/recruitkit/adapter/cli"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/application/queries"
	"github.com/spf13/cobra"
)

var (
	gradeLevel   int
	requiredOnly bool
	lockedOnly   bool
	status       string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List checklist tasks with your status",
	Long: `List checklist tasks merged with your status.

Locked tasks have prerequisites that are not completed yet.

Examples:
  recruitkit task list                 # Whole checklist
  recruitkit task list --grade 11      # Junior-year tasks
  recruitkit task list --locked        # Tasks waiting on prerequisites
  recruitkit task list --status in_progress`,
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		result, err := app.ListTasksHandler.Handle(cmd.Context(), queries.ListTasksQuery{
			AthleteID:    app.AthleteID,
			GradeLevel:   gradeLevel,
			RequiredOnly: requiredOnly,
			LockedOnly:   lockedOnly,
			Status:       status,
		})
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			return cli.WriteJSON(out, result)
		}

		if len(result.Tasks) == 0 {
			fmt.Fprintln(out, "No tasks found.")
			return nil
		}

		s := result.Summary
		fmt.Fprintln(out, cli.Heading(fmt.Sprintf("Tasks (%d of %d)", len(result.Tasks), s.Total)))
		fmt.Fprintln(out, cli.Muted(fmt.Sprintf("%d completed, %d in progress, %d not started, %d skipped, %d locked",
			s.Completed, s.InProgress, s.NotStarted, s.Skipped, s.Locked)))
		fmt.Fprintln(out, strings.Repeat("-", 60))

		for _, t := range result.Tasks {
			marker := ""
			if t.Required {
				marker = " *"
			}
			fmt.Fprintf(out, "%s %s%s\n", cli.StatusIcon(t.Status, t.IsLocked()), t.Title, marker)
			fmt.Fprintf(out, "   ID: %s  grade %d\n", t.ID, t.GradeLevel)
			if t.IsRecoveryTask {
				fmt.Fprintln(out, "   "+cli.Colorize("red", "recovery task"))
			}
			if t.IsLocked() {
				names := make([]string, 0, len(t.PrerequisiteTasks))
				for _, p := range t.PrerequisiteTasks {
					if p.Status != "completed" {
						names = append(names, p.Title)
					}
				}
				fmt.Fprintln(out, "   "+cli.Muted("waiting on: "+strings.Join(names, ", ")))
			}
		}
		return nil
	},
}

func init() {
	listCmd.Flags().IntVarP(&gradeLevel, "grade", "g", 0, "only tasks for this grade (9-12)")
	listCmd.Flags().BoolVar(&requiredOnly, "required", false, "only required tasks")
	listCmd.Flags().BoolVar(&lockedOnly, "locked", false, "only tasks with open prerequisites")
	listCmd.Flags().StringVarP(&status, "status", "s", "", "filter by status (not_started, in_progress, completed, skipped)")
}
