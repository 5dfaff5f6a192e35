package standing

// PlayoffCutoff is the last position that still qualifies for playoffs.
const PlayoffCutoff = 8

// Standing represents a division table row for one team.
type Standing struct {
	Team          string
	Position      int
	SheetRank     *int
	Wins          int
	Losses        int
	GameDiff      int
	GoalDiff      int
	WinPercentage string
	InPlayoffs    bool
}

// GamesPlayed counts decided series.
func (s Standing) GamesPlayed() int {
	return s.Wins + s.Losses
}
