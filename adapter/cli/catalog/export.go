package catalog

import (
	"fmt"
	"os"

	"github.com/felixgeelhaar/recruitkit/adapter/cli"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/infrastructure/catalog"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the stored catalog as YAML or TOML",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		stored, err := app.CatalogRepo.Load(cmd.Context())
		if err != nil {
			return err
		}
		if stored.Len() == 0 {
			return fmt.Errorf("catalog is empty; run `recruitkit catalog seed` first")
		}

		w := cmd.OutOrStdout()
		if exportOut != "" {
			f, err := os.Create(exportOut)
			if err != nil {
				return fmt.Errorf("create %s: %w", exportOut, err)
			}
			defer f.Close()
			w = f
		}
		return catalog.Encode(w, stored, catalog.Format(exportFormat))
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", string(catalog.FormatYAML), "output format (yaml, toml)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "write to a file instead of stdout")
}
