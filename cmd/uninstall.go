package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"txinstall/internal/workflow"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <manifest.yaml>",
	Short: "Roll every step in a manifest back, in reverse order",
	Long: `uninstall walks a manifest's steps in reverse, calling each step's
Rollback directly. There is no validation phase and no retries: uninstall
is itself the compensating action.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWorkflow(args[0], func(e *workflow.Engine) (workflow.WorkflowSummary, error) {
			return e.Uninstall(context.Background())
		})
	},
}

func init() {
	rootCmd.AddCommand(uninstallCmd)
}
