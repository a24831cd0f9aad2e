package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"txinstall/internal/workflow"
)

var repairCmd = &cobra.Command{
	Use:   "repair <manifest.yaml> [step names...]",
	Short: "Re-run a subset of a manifest's steps",
	Long: `repair runs the forward flow restricted to the named steps, matched
case-insensitively against each step's effective name. With no step names,
every step is repaired, the same as install.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		names := args[1:]
		return runWorkflow(args[0], func(e *workflow.Engine) (workflow.WorkflowSummary, error) {
			return e.Repair(context.Background(), names...)
		})
	},
}

func init() {
	rootCmd.AddCommand(repairCmd)
}
