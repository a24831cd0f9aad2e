package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "txinstall",
	Short: "Transactional installation workflow runner",
	Long: `txinstall runs a manifest of installation steps as a single transaction:
validate every step up front, execute them in order, and roll the completed
steps back automatically if one fails.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
