package catalog

import (
	"fmt"

	"github.com/felixgeelhaar/recruitkit/adapter/cli"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/application/commands"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/infrastructure/catalog"
	"github.com/spf13/cobra"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace the stored catalog",
	Long: `Replace the stored catalog with a YAML or TOML file.

Without --file the configured RECRUITKIT_CATALOG_PATH is used, and without
that the built-in grade 9-12 checklist.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		path := seedFile
		if path == "" {
			path = app.CatalogPath
		}
		loaded, err := catalog.Load(path)
		if err != nil {
			return err
		}

		result, err := app.SeedCatalogHandler.Handle(cmd.Context(), commands.SeedCatalogCommand{
			Catalog: loaded.Catalog,
			Source:  loaded.Source,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			return cli.WriteJSON(out, result)
		}
		fmt.Fprintf(out, "Seeded %d tasks (%d required) from %s\n", result.TaskCount, result.RequiredCount, loaded.Source)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "catalog file (.yaml, .yml or .toml)")
}
