package main

import (
	"context"
	"fmt"

	"github.com/riskibarqy/league-sheets/internal/app"
	"github.com/riskibarqy/league-sheets/internal/domain/ranking"
	"github.com/spf13/cobra"
)

var rankingsCmd = &cobra.Command{
	Use:     "rankings",
	Short:   "Print a division's weekly power rankings",
	Example: "  leaguectl rankings --division majors --week 3\n  leaguectl rankings -d majors -w 3 --players",
	RunE: func(cmd *cobra.Command, args []string) error {
		division, _ := cmd.Flags().GetString("division")
		week, _ := cmd.Flags().GetInt("week")
		players, _ := cmd.Flags().GetBool("players")

		subject := ranking.SubjectTeam
		if players {
			subject = ranking.SubjectPlayer
		}

		return withServices(cmd, func(ctx context.Context, services *app.Services) error {
			res := services.PowerRankings.GetPowerRankings(ctx, division, week, subject)
			what := fmt.Sprintf("%s power rankings for %s week %d", subject, division, week)
			return report(cmd, res, what, rankingsTable, rankingsJSON)
		})
	},
}

func init() {
	rankingsCmd.Flags().StringP("division", "d", "", "division name, e.g. majors")
	rankingsCmd.Flags().IntP("week", "w", 0, "week number")
	rankingsCmd.Flags().Bool("players", false, "rank players instead of teams")
	_ = rankingsCmd.MarkFlagRequired("division")
	_ = rankingsCmd.MarkFlagRequired("week")
	rootCmd.AddCommand(rankingsCmd)
}
