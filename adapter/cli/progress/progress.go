// Package progress holds the `recruitkit progress` commands.
package progress

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/felixgeelhaar/recruitkit/adapter/cli"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/application/queries"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/application/services"
	"github.com/spf13/cobra"
)

// Cmd is the progress command group
var Cmd = &cobra.Command{
	Use:   "progress",
	Short: "Score recruiting readiness",
	Long: `Score recruiting readiness from 0 to 100.

The task completion rate comes from your checklist; coach contact, coach
interest and academics come from the flags below.`,
}

func init() {
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(recordCmd)
	Cmd.AddCommand(adviceCmd)
}

// factsFlags binds the progress facts to a command's flags.
type factsFlags struct {
	input queries.FactsInput

	daysSince int
	gpa       float64
	sat       int
	act       int
}

func (f *factsFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.input.Phase, "phase", "", "recruiting phase or grade (freshman..senior, 9..12)")
	fs.StringVar(&f.input.LastInteraction, "last-contact", "", "date of the last coach interaction (YYYY-MM-DD)")
	fs.IntVar(&f.daysSince, "days-since-contact", 0, "days since the last coach interaction")
	fs.IntVar(&f.input.TargetSchools, "target-schools", 0, "number of target schools")
	fs.StringSliceVar(&f.input.CoachInterest, "interest", nil, "coach interest levels (high, medium, low), repeatable")
	fs.IntVar(&f.input.PriorityCoaches, "priority-coaches", 0, "number of priority coaches")
	fs.Float64Var(&f.gpa, "gpa", 0, "unweighted GPA")
	fs.IntVar(&f.sat, "sat", 0, "SAT total")
	fs.IntVar(&f.act, "act", 0, "ACT composite")
	fs.StringVar(&f.input.Eligibility, "eligibility", "", "NCAA eligibility (registered, pending, not_started)")
}

// facts resolves optional flags: only flags the user set become facts.
func (f *factsFlags) facts(cmd *cobra.Command) (services.ProgressFacts, error) {
	in := f.input
	fs := cmd.Flags()
	if fs.Changed("days-since-contact") {
		days := f.daysSince
		in.DaysSinceInteraction = &days
	}
	if fs.Changed("gpa") {
		gpa := f.gpa
		in.GPA = &gpa
	}
	if fs.Changed("sat") {
		sat := f.sat
		in.SAT = &sat
	}
	if fs.Changed("act") {
		act := f.act
		in.ACT = &act
	}
	return in.Facts(time.Now())
}

func printProgress(out io.Writer, p *queries.ProgressDTO) {
	label := strings.ReplaceAll(p.Label, "_", " ")
	fmt.Fprintf(out, "%s %s\n", cli.Heading(fmt.Sprintf("Score %d/100", p.Score)), cli.Colorize(p.Color, label))
	fmt.Fprintln(out, p.Advice)
	fmt.Fprintln(out)

	fmt.Fprintln(out, cli.Heading("Breakdown"))
	fmt.Fprintf(out, "  tasks      %3.0f  (%d of %d required)\n", p.SubScores.TaskCompletionRate, p.RequiredCompleted, p.RequiredTotal)
	fmt.Fprintf(out, "  contact    %3.0f\n", p.SubScores.InteractionFrequencyScore)
	fmt.Fprintf(out, "  interest   %3.0f\n", p.SubScores.CoachInterestScore)
	fmt.Fprintf(out, "  academics  %3.0f\n", p.SubScores.AcademicStandingScore)

	if len(p.NextActions) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, cli.Heading("Next actions"))
		for _, action := range p.NextActions {
			fmt.Fprintf(out, "  - %s\n", action)
		}
	}
}
