package main

import (
	"context"

	"github.com/riskibarqy/league-sheets/internal/app"
	"github.com/spf13/cobra"
)

var standingsCmd = &cobra.Command{
	Use:     "standings",
	Short:   "Print a division's standings table",
	Example: "  leaguectl standings --division majors",
	RunE: func(cmd *cobra.Command, args []string) error {
		division, _ := cmd.Flags().GetString("division")

		return withServices(cmd, func(ctx context.Context, services *app.Services) error {
			res := services.Standings.GetStandings(ctx, division)
			return report(cmd, res, "standings for "+division, standingsTable, standingsJSON)
		})
	},
}

func init() {
	standingsCmd.Flags().StringP("division", "d", "", "division name, e.g. majors")
	_ = standingsCmd.MarkFlagRequired("division")
	rootCmd.AddCommand(standingsCmd)
}
