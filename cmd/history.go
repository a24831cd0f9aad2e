package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"txinstall/internal/audit"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past workflow runs from the audit journal",
	Long: `history reads the local audit journal (a SQLite file, by default under
~/.txinstall) and prints the most recent runs, newest first. This is a
forensic record only: it is never consulted to resume or repair a run.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := audit.Open(audit.DefaultPath())
		if err != nil {
			return fmt.Errorf("open audit journal: %w", err)
		}
		defer store.Close()

		records, err := store.List(historyLimit)
		if err != nil {
			return fmt.Errorf("list runs: %w", err)
		}
		if len(records) == 0 {
			fmt.Println("no recorded runs")
			return nil
		}
		for _, r := range records {
			status := fmt.Sprintf("\033[32m%s\033[0m", r.Status)
			if !r.Success {
				status = fmt.Sprintf("\033[31m%s\033[0m", r.Status)
			}
			fmt.Fprintf(os.Stdout, "%s  %-10s %-10s %6s  %s",
				r.StartedAt.Format("2006-01-02 15:04:05"), r.Operation, status, r.Duration, r.Message)
			if r.FailedStep != "" {
				fmt.Fprintf(os.Stdout, " (failed at %s)", r.FailedStep)
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of runs to list")
	rootCmd.AddCommand(historyCmd)
}
