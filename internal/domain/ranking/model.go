package ranking

import "fmt"

// Subject says what a power ranking ranks.
type Subject string

const (
	SubjectTeam   Subject = "team"
	SubjectPlayer Subject = "player"
)

func ParseSubject(raw string) (Subject, error) {
	switch Subject(raw) {
	case "", SubjectTeam:
		return SubjectTeam, nil
	case SubjectPlayer:
		return SubjectPlayer, nil
	default:
		return "", fmt.Errorf("unknown ranking subject %q", raw)
	}
}

// Entry is one row of a weekly power ranking. Team names are canonical;
// player names are kept as written in the sheet.
type Entry struct {
	Subject  Subject
	Name     string
	Rank     *int
	Points   float64
	History  []*int
	Movement *int
}
