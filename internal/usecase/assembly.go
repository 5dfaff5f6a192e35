package usecase

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/riskibarqy/league-sheets/internal/domain/ranking"
	"github.com/riskibarqy/league-sheets/internal/domain/standing"
)

// WinPercentage formats wins/(wins+losses) with three decimals.
func WinPercentage(wins, losses int) string {
	played := wins + losses
	if played <= 0 {
		return "0.000"
	}
	return fmt.Sprintf("%.3f", float64(wins)/float64(played))
}

// AssembleStandings orders teams by wins then goal difference, both
// descending, and assigns positions. Exact ties keep extraction order.
func AssembleStandings(rows []standing.Standing) []standing.Standing {
	out := slices.Clone(rows)
	if out == nil {
		return []standing.Standing{}
	}

	slices.SortStableFunc(out, func(a, b standing.Standing) int {
		if c := cmp.Compare(b.Wins, a.Wins); c != 0 {
			return c
		}
		return cmp.Compare(b.GoalDiff, a.GoalDiff)
	})

	for i := range out {
		out[i].Position = i + 1
		out[i].InPlayoffs = out[i].Position <= standing.PlayoffCutoff
		out[i].WinPercentage = WinPercentage(out[i].Wins, out[i].Losses)
	}
	return out
}

// AssembleRankings orders entries by sheet rank; rows without a readable rank
// go last in sheet order. Movement compares the latest history column with
// the current rank.
func AssembleRankings(entries []ranking.Entry) []ranking.Entry {
	out := slices.Clone(entries)
	if out == nil {
		return []ranking.Entry{}
	}

	slices.SortStableFunc(out, func(a, b ranking.Entry) int {
		switch {
		case a.Rank == nil && b.Rank == nil:
			return 0
		case a.Rank == nil:
			return 1
		case b.Rank == nil:
			return -1
		default:
			return cmp.Compare(*a.Rank, *b.Rank)
		}
	})

	for i := range out {
		out[i].Movement = movement(out[i])
	}
	return out
}

func movement(e ranking.Entry) *int {
	if e.Rank == nil || len(e.History) == 0 {
		return nil
	}
	previous := e.History[len(e.History)-1]
	if previous == nil {
		return nil
	}
	delta := *previous - *e.Rank
	return &delta
}
