package main

import (
	"context"
	"fmt"
	"slices"

	"github.com/riskibarqy/league-sheets/internal/app"
	"github.com/spf13/cobra"
)

var divisionsCmd = &cobra.Command{
	Use:   "divisions",
	Short: "List configured divisions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd, func(_ context.Context, services *app.Services) error {
			names := append(services.Standings.Divisions(), services.PowerRankings.Divisions()...)
			slices.Sort(names)
			for _, name := range slices.Compact(names) {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(divisionsCmd)
}
