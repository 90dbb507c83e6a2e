// Package cli is the recruitkit command line.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/felixgeelhaar/recruitkit/pkg/observability"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	athleteFlag string
	jsonOutput  bool
	logger      *slog.Logger
)

type commandContext struct {
	startedAt time.Time
}

type commandContextKey struct{}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "recruitkit",
	Short: "recruitkit - recruiting progress for student-athletes",
	Long: `recruitkit tracks a student-athlete's recruiting checklist.

It gates tasks behind their prerequisites, scores overall readiness
from 0 to 100 and explains what to do next.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if athleteFlag != "" {
			id, err := uuid.Parse(athleteFlag)
			if err != nil {
				return fmt.Errorf("invalid --athlete: %w", err)
			}
			if app != nil {
				app.AthleteID = id
			}
		}

		ctx := observability.WithCorrelationID(cmd.Context(), "")
		if app != nil {
			ctx = observability.WithAthleteID(ctx, app.AthleteID)
		}
		cmd.SetContext(context.WithValue(ctx, commandContextKey{}, commandContext{startedAt: time.Now()}))
		getLogger().DebugContext(ctx, "command start", "command", cmd.CommandPath())
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		info, ok := cmd.Context().Value(commandContextKey{}).(commandContext)
		if !ok {
			return
		}
		getLogger().DebugContext(cmd.Context(), "command end",
			"command", cmd.CommandPath(),
			observability.DurationKey, time.Since(info.startedAt).Milliseconds(),
		)
	},
}

// Execute runs the root command with ctx. Errors are printed to stderr
// and returned so the caller can release resources before exiting.
func Execute(ctx context.Context) error {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&athleteFlag, "athlete", "", "athlete id (defaults to RECRUITKIT_ATHLETE_ID)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print JSON instead of text")
}

// AddCommand adds a command to the root command.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// SetLogger sets the CLI logger.
func SetLogger(l *slog.Logger) {
	logger = l
}

func getLogger() *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// JSONOutput reports whether --json was passed.
func JSONOutput() bool {
	return jsonOutput
}

// SetJSONOutput overrides --json, for tests.
func SetJSONOutput(v bool) {
	jsonOutput = v
}

// WriteJSON writes v indented.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
