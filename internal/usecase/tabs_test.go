package usecase

import (
	"testing"

	"github.com/riskibarqy/league-sheets/internal/domain/ranking"
	"github.com/stretchr/testify/assert"
)

func TestPowerRankingTabs_ExactPatternsBeatTabOrder(t *testing.T) {
	t.Parallel()

	titles := []string{"majors week 3 (draft)", "Majors Week 3", "MAJORS W3"}

	got, ok := PowerRankingTabs("majors", 3, ranking.SubjectTeam).Resolve(titles)

	assert.True(t, ok)
	assert.Equal(t, "MAJORS W3", got)
}

func TestPowerRankingTabs_LooseFallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		subject ranking.Subject
		titles  []string
		want    string
		wantOK  bool
	}{
		{name: "spaced week abbreviation", subject: ranking.SubjectTeam, titles: []string{"Notes", "Majors PR - Wk 03"}, want: "Majors PR - Wk 03", wantOK: true},
		{name: "week number must match exactly", subject: ranking.SubjectTeam, titles: []string{"MAJORS W13", "MAJORS W30"}, wantOK: false},
		{name: "team lookup ignores player tabs", subject: ranking.SubjectTeam, titles: []string{"Majors Players Wk 3"}, wantOK: false},
		{name: "player lookup", subject: ranking.SubjectPlayer, titles: []string{"Majors Wk 3", "Majors Top Players - Week 3"}, want: "Majors Top Players - Week 3", wantOK: true},
		{name: "other division", subject: ranking.SubjectTeam, titles: []string{"AAA W3"}, wantOK: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, ok := PowerRankingTabs("majors", 3, tc.subject).Resolve(tc.titles)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestStandingsTabs(t *testing.T) {
	t.Parallel()

	got, ok := StandingsTabs("aaa").Resolve([]string{"Majors Standings", "AAA standings"})
	assert.True(t, ok)
	assert.Equal(t, "AAA standings", got)

	got, ok = StandingsTabs("aaa").Resolve([]string{"Schedule", "Season Standings"})
	assert.True(t, ok)
	assert.Equal(t, "Season Standings", got)
}
