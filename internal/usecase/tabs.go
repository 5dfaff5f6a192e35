package usecase

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/riskibarqy/league-sheets/internal/domain/ranking"
	"github.com/riskibarqy/league-sheets/internal/domain/sheet"
)

// StandingsTabs locates a division's standings tab.
func StandingsTabs(division string) sheet.TabMatcher {
	div := strings.ToUpper(strings.TrimSpace(division))
	return sheet.TabMatcher{
		Exact: []string{
			div + " Standings",
			"Standings",
		},
		Loose: []sheet.LooseRule{
			sheet.Contains(div, "standing"),
			sheet.Contains("standing"),
		},
	}
}

// PowerRankingTabs locates the weekly power ranking tab, e.g. "MAJORS W3",
// "MAJORS Week 3" or "MAJORS Players W3".
func PowerRankingTabs(division string, week int, subject ranking.Subject) sheet.TabMatcher {
	div := strings.ToUpper(strings.TrimSpace(division))
	weekRule := looseWeekRule(division, week)

	if subject == ranking.SubjectPlayer {
		return sheet.TabMatcher{
			Exact: []string{
				fmt.Sprintf("%s Players W%d", div, week),
				fmt.Sprintf("%s Player Rankings Week %d", div, week),
				fmt.Sprintf("%s Players Week %d", div, week),
			},
			Loose: []sheet.LooseRule{{
				Name: "player+" + weekRule.Name,
				Match: func(title string) bool {
					return strings.Contains(title, "player") && weekRule.Match(title)
				},
			}},
		}
	}

	return sheet.TabMatcher{
		Exact: []string{
			fmt.Sprintf("%s W%d", div, week),
			fmt.Sprintf("%s Week %d", div, week),
			fmt.Sprintf("%s PR W%d", div, week),
		},
		Loose: []sheet.LooseRule{{
			Name: "team+" + weekRule.Name,
			Match: func(title string) bool {
				return !strings.Contains(title, "player") && weekRule.Match(title)
			},
		}},
	}
}

// looseWeekRule matches titles mentioning the division and then the week as
// "w3", "wk 3", "week 03".
func looseWeekRule(division string, week int) sheet.LooseRule {
	div := regexp.QuoteMeta(strings.ToLower(strings.TrimSpace(division)))
	expr := fmt.Sprintf(`\b%s\b.*\bw(?:ee)?k?\s*0*%d\b`, div, week)
	return sheet.Pattern(expr)
}
