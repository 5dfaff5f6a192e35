package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "leaguectl: %v\n", version)
		if commit != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Commit: %v\n", commit)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
