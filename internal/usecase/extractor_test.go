package usecase

import (
	"testing"

	"github.com/riskibarqy/league-sheets/internal/domain/ranking"
	"github.com/riskibarqy/league-sheets/internal/domain/sheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grid(rows ...[]any) sheet.Sheet {
	out := make([][]sheet.Cell, len(rows))
	for i, row := range rows {
		cells := make([]sheet.Cell, len(row))
		for j, v := range row {
			cells[j] = sheet.FromValue(v)
		}
		out[i] = cells
	}
	return sheet.Sheet{Title: "MAJORS Standings", Rows: out}
}

func TestExtractStandings_DropsDuplicateCanonicalNames(t *testing.T) {
	t.Parallel()

	tab := grid(
		[]any{"#", "TEAM", "W", "L"},
		[]any{"1st", "ACID", 5, 1},
		[]any{"2nd", "Acid Esports", 2, 3},
	)

	rows := ExtractStandings(tab, DefaultStandingsLayout())

	require.Len(t, rows, 1)
	assert.Equal(t, "Acid Esports", rows[0].Team)
	assert.Equal(t, 5, rows[0].Wins)
	assert.Equal(t, 1, rows[0].Losses)
	require.NotNil(t, rows[0].SheetRank)
	assert.Equal(t, 1, *rows[0].SheetRank)
}

func TestExtractStandings_SkipsBlankAndHeaderRowsWithoutCountingThem(t *testing.T) {
	t.Parallel()

	layout := DefaultStandingsLayout()
	layout.StartRow = 0
	layout.ExpectedCount = 2

	tab := grid(
		[]any{"Rank", "Team", "W", "L"},
		[]any{1, "", 4, 0},
		[]any{nil, "   ", 4, 0},
		[]any{2, "Omen", 4, 1},
		[]any{3, "team", 0, 0},
		[]any{4, "Vortex", 3, 2},
		[]any{5, "Havoc", 1, 4},
	)

	rows := ExtractStandings(tab, layout)

	require.Len(t, rows, 2)
	assert.Equal(t, "Omen", rows[0].Team)
	assert.Equal(t, "Vortex", rows[1].Team)
}

func TestExtractStandings_CapIsSmallerOfExpectedAndHardCap(t *testing.T) {
	t.Parallel()

	layout := DefaultStandingsLayout()
	layout.ExpectedCount = 16
	layout.HardCap = 3

	tab := grid(
		[]any{"#", "TEAM"},
		[]any{1, "Omen"},
		[]any{2, "Vortex"},
		[]any{3, "Havoc"},
		[]any{4, "Eclipse"},
	)

	assert.Len(t, ExtractStandings(tab, layout), 3)
	assert.Equal(t, 3, layout.Limit())
}

func TestExtractStandings_NumericDefaults(t *testing.T) {
	t.Parallel()

	tab := grid(
		[]any{"#", "TEAM", "W", "L", "GD", "+/-"},
		[]any{"T-1", "Eclipse", "7", -2, "", "n/a"},
		[]any{"??", "Havoc", 3, 4, -6, "12"},
	)

	rows := ExtractStandings(tab, DefaultStandingsLayout())
	require.Len(t, rows, 2)

	eclipse := rows[0]
	assert.Equal(t, 7, eclipse.Wins)
	assert.Equal(t, 0, eclipse.Losses, "negative losses clamp to zero")
	assert.Equal(t, 7, eclipse.GameDiff, "blank game diff falls back to wins - losses")
	assert.Equal(t, 0, eclipse.GoalDiff)
	require.NotNil(t, eclipse.SheetRank)
	assert.Equal(t, 1, *eclipse.SheetRank)

	havoc := rows[1]
	assert.Equal(t, -6, havoc.GameDiff)
	assert.Equal(t, 12, havoc.GoalDiff)
	assert.Nil(t, havoc.SheetRank, "unparseable rank stays unset")
}

func TestExtractStandings_NoDuplicateNames(t *testing.T) {
	t.Parallel()

	tab := grid(
		[]any{"#", "TEAM"},
		[]any{1, "mnml"},
		[]any{2, "Minimalists"},
		[]any{3, "the mnml squad"},
		[]any{4, "Frost Giants"},
		[]any{5, "frostbite"},
		[]any{6, "Unknown Crew"},
		[]any{7, "unknown crew"},
	)

	rows := ExtractStandings(tab, DefaultStandingsLayout())

	seen := map[string]bool{}
	for _, row := range rows {
		if seen[row.Team] {
			t.Fatalf("duplicate team %q in %+v", row.Team, rows)
		}
		seen[row.Team] = true
	}
	assert.Equal(t, []string{"MNML", "Frostbite", "Unknown Crew"}, []string{rows[0].Team, rows[1].Team, rows[2].Team})
}

func TestExtractRankings_PlayersAreNotNormalized(t *testing.T) {
	t.Parallel()

	tab := grid(
		[]any{"RANK", "PLAYER", "PTS", "W1", "W2", "W3"},
		[]any{"1", "  acid_main ", 98.5, 3, "", "2nd"},
		[]any{"2", "Acid_Main", 90, nil, nil, nil},
		[]any{"-", "nova fan", "x", "n/a", 4, 1},
	)

	entries := ExtractRankings(tab, DefaultPlayerRankingsLayout(), ranking.SubjectPlayer)

	require.Len(t, entries, 2)
	first := entries[0]
	assert.Equal(t, "acid_main", first.Name)
	assert.Equal(t, ranking.SubjectPlayer, first.Subject)
	assert.InDelta(t, 98.5, first.Points, 1e-9)
	require.Len(t, first.History, 3)
	require.NotNil(t, first.History[0])
	assert.Equal(t, 3, *first.History[0])
	assert.Nil(t, first.History[1])
	require.NotNil(t, first.History[2])
	assert.Equal(t, 2, *first.History[2])

	second := entries[1]
	assert.Equal(t, "nova fan", second.Name)
	assert.Nil(t, second.Rank)
	assert.Zero(t, second.Points)
}

func TestExtractRankings_TeamsAreNormalized(t *testing.T) {
	t.Parallel()

	tab := grid(
		[]any{"RANK", "TEAM", "PTS"},
		[]any{1, "ghost", 40},
		[]any{2, "Ghost Gaming", 38},
		[]any{3, "Lunar", 12},
	)

	entries := ExtractRankings(tab, DefaultTeamRankingsLayout(), ranking.SubjectTeam)

	require.Len(t, entries, 2)
	assert.Equal(t, "Ghost Gaming", entries[0].Name)
	assert.Equal(t, "Lunar Legion", entries[1].Name)
	require.Len(t, entries[0].History, 3)
	assert.Nil(t, entries[0].History[0])
}

func TestRowWindow_Limit(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 16, RowWindow{ExpectedCount: 16, HardCap: 40}.Limit())
	assert.Equal(t, 40, RowWindow{HardCap: 40}.Limit())
	assert.Equal(t, 12, RowWindow{ExpectedCount: 12}.Limit())
	assert.Equal(t, 0, RowWindow{}.Limit())
}
