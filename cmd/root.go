// Package cmd holds the ringkasan command line.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "ringkasan",
	Short:         "Transcript summary workspace with version history and exports",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newFormatsCmd())
}
