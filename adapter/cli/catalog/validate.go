package catalog

import (
	"fmt"

	"github.com/felixgeelhaar/recruitkit/adapter/cli"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/infrastructure/catalog"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a catalog file for unknown prerequisites and cycles",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}

		loaded, err := catalog.Load(path)
		if err != nil {
			return err
		}
		if err := loaded.Catalog.Validate(); err != nil {
			return fmt.Errorf("%s: %w", loaded.Source, err)
		}

		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			return cli.WriteJSON(out, map[string]any{
				"source":   loaded.Source,
				"tasks":    loaded.Catalog.Len(),
				"required": len(loaded.Catalog.RequiredTaskIDs()),
				"valid":    true,
			})
		}
		fmt.Fprintf(out, "%s: %d tasks, valid\n", loaded.Source, loaded.Catalog.Len())
		return nil
	},
}
