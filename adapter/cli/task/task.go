// Package task holds the `recruitkit task` commands.
package task

import (
	"github.com/spf13/cobra"
)

// Cmd is the task command group
var Cmd = &cobra.Command{
	Use:   "task",
	Short: "Work through the recruiting checklist",
	Long:  `List checklist tasks, check prerequisites and update task status.`,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(warningCmd)
	Cmd.AddCommand(updateCmd)
}
