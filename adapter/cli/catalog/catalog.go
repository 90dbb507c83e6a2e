// Package catalog holds the `recruitkit catalog` commands.
package catalog

import (
	"github.com/spf13/cobra"
)

// Cmd is the catalog command group
var Cmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the recruiting task catalog",
	Long: `Seed, export and validate the task catalog.

Catalogs are YAML or TOML files listing tasks, their grade level and the
tasks they depend on. Seeding replaces the stored catalog; athletes' task
statuses are kept.`,
}

func init() {
	Cmd.AddCommand(seedCmd)
	Cmd.AddCommand(exportCmd)
	Cmd.AddCommand(validateCmd)
}
