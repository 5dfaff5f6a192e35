package usecase

import (
	"strings"

	"github.com/riskibarqy/league-sheets/internal/domain/ranking"
	"github.com/riskibarqy/league-sheets/internal/domain/sheet"
	"github.com/riskibarqy/league-sheets/internal/domain/standing"
	"github.com/riskibarqy/league-sheets/internal/domain/team"
)

// NoColumn marks a layout field that the sheet does not carry.
const NoColumn = -1

// RowWindow bounds a scan. At most min(ExpectedCount, HardCap) rows are
// accepted; skipped rows do not count.
type RowWindow struct {
	StartRow        int
	ExpectedCount   int
	HardCap         int
	HeaderSentinels []string
}

func (w RowWindow) Limit() int {
	switch {
	case w.ExpectedCount <= 0:
		return max(w.HardCap, 0)
	case w.HardCap <= 0:
		return w.ExpectedCount
	default:
		return min(w.ExpectedCount, w.HardCap)
	}
}

func (w RowWindow) isSentinel(name string) bool {
	for _, sentinel := range w.HeaderSentinels {
		if strings.EqualFold(strings.TrimSpace(sentinel), name) {
			return true
		}
	}
	return false
}

type StandingsLayout struct {
	RowWindow
	RankCol     int
	TeamCol     int
	WinsCol     int
	LossesCol   int
	GameDiffCol int
	GoalDiffCol int
}

// DefaultStandingsLayout matches the league's standings tab: rank, team, W, L,
// game diff, goal diff, one header row.
func DefaultStandingsLayout() StandingsLayout {
	return StandingsLayout{
		RowWindow: RowWindow{
			StartRow:        1,
			ExpectedCount:   16,
			HardCap:         40,
			HeaderSentinels: []string{"TEAM", "TEAMS", "NAME"},
		},
		RankCol:     0,
		TeamCol:     1,
		WinsCol:     2,
		LossesCol:   3,
		GameDiffCol: 4,
		GoalDiffCol: 5,
	}
}

type RankingsLayout struct {
	RowWindow
	RankCol   int
	NameCol   int
	PointsCol int
	// HistoryCols lists past-week rank columns, oldest first.
	HistoryCols []int
}

func DefaultTeamRankingsLayout() RankingsLayout {
	return RankingsLayout{
		RowWindow: RowWindow{
			StartRow:        1,
			ExpectedCount:   16,
			HardCap:         40,
			HeaderSentinels: []string{"TEAM", "TEAMS", "RANK"},
		},
		RankCol:     0,
		NameCol:     1,
		PointsCol:   2,
		HistoryCols: []int{3, 4, 5},
	}
}

func DefaultPlayerRankingsLayout() RankingsLayout {
	return RankingsLayout{
		RowWindow: RowWindow{
			StartRow:        1,
			ExpectedCount:   50,
			HardCap:         100,
			HeaderSentinels: []string{"PLAYER", "PLAYERS", "NAME", "RANK"},
		},
		RankCol:     0,
		NameCol:     1,
		PointsCol:   2,
		HistoryCols: []int{3, 4, 5},
	}
}

// scanRows walks the window and calls accept for every row whose resolved
// name is non-blank, not a header sentinel and not seen before in this pass.
func scanRows(s sheet.Sheet, window RowWindow, nameCol int, resolve func(string) string, accept func(row int, name string)) {
	limit := window.Limit()
	if limit == 0 {
		return
	}

	seen := make(map[string]struct{}, limit)
	accepted := 0
	for row := max(window.StartRow, 0); row < s.RowCount() && accepted < limit; row++ {
		raw := s.Cell(row, nameCol).String()
		if raw == "" || window.isSentinel(raw) {
			continue
		}
		name := resolve(raw)
		if name == "" {
			continue
		}
		dedupKey := strings.ToLower(name)
		if _, dup := seen[dedupKey]; dup {
			continue
		}
		seen[dedupKey] = struct{}{}
		accept(row, name)
		accepted++
	}
}

// ExtractStandings reads raw team records in sheet order. Position and win
// percentage are filled in by AssembleStandings.
func ExtractStandings(s sheet.Sheet, layout StandingsLayout) []standing.Standing {
	out := make([]standing.Standing, 0, layout.Limit())
	scanRows(s, layout.RowWindow, layout.TeamCol, team.Normalize, func(row int, name string) {
		wins := nonNegative(cellAt(s, row, layout.WinsCol).IntOr(0))
		losses := nonNegative(cellAt(s, row, layout.LossesCol).IntOr(0))

		out = append(out, standing.Standing{
			Team:      name,
			SheetRank: leadingInt(cellAt(s, row, layout.RankCol)),
			Wins:      wins,
			Losses:    losses,
			GameDiff:  cellAt(s, row, layout.GameDiffCol).IntOr(wins - losses),
			GoalDiff:  cellAt(s, row, layout.GoalDiffCol).IntOr(0),
		})
	})
	return out
}

// ExtractRankings reads power ranking rows. Team names are normalized, player
// names are only trimmed.
func ExtractRankings(s sheet.Sheet, layout RankingsLayout, subject ranking.Subject) []ranking.Entry {
	resolve := strings.TrimSpace
	if subject == ranking.SubjectTeam {
		resolve = team.Normalize
	}

	out := make([]ranking.Entry, 0, layout.Limit())
	scanRows(s, layout.RowWindow, layout.NameCol, resolve, func(row int, name string) {
		var history []*int
		if len(layout.HistoryCols) > 0 {
			history = make([]*int, len(layout.HistoryCols))
			for i, col := range layout.HistoryCols {
				history[i] = leadingInt(cellAt(s, row, col))
			}
		}

		out = append(out, ranking.Entry{
			Subject: subject,
			Name:    name,
			Rank:    leadingInt(cellAt(s, row, layout.RankCol)),
			Points:  cellAt(s, row, layout.PointsCol).FloatOr(0),
			History: history,
		})
	})
	return out
}

func cellAt(s sheet.Sheet, row, col int) sheet.Cell {
	if col == NoColumn {
		return sheet.Empty()
	}
	return s.Cell(row, col)
}

func leadingInt(c sheet.Cell) *int {
	v, ok := c.LeadingInt()
	if !ok {
		return nil
	}
	return &v
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
