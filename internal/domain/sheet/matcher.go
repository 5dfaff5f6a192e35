package sheet

import (
	"regexp"
	"strings"
)

// TabMatcher resolves a tab title. Exact patterns are compared
// case-insensitively, in order; loose rules are tried only when no exact
// pattern matched any tab. Within one rule the first tab in source order wins,
// but rule priority always beats tab position.
type TabMatcher struct {
	Exact []string
	Loose []LooseRule
}

// LooseRule is a named predicate over a lower-cased, whitespace-collapsed title.
type LooseRule struct {
	Name  string
	Match func(title string) bool
}

func (m TabMatcher) Resolve(titles []string) (string, bool) {
	for _, pattern := range m.Exact {
		want := normalizeTitle(pattern)
		if want == "" {
			continue
		}
		for _, title := range titles {
			if normalizeTitle(title) == want {
				return title, true
			}
		}
	}

	for _, rule := range m.Loose {
		if rule.Match == nil {
			continue
		}
		for _, title := range titles {
			if rule.Match(normalizeTitle(title)) {
				return title, true
			}
		}
	}

	return "", false
}

// Describe lists the patterns for log lines.
func (m TabMatcher) Describe() []string {
	out := make([]string, 0, len(m.Exact)+len(m.Loose))
	out = append(out, m.Exact...)
	for _, rule := range m.Loose {
		out = append(out, "~"+rule.Name)
	}
	return out
}

// Contains builds a loose rule matching titles that contain every fragment.
func Contains(fragments ...string) LooseRule {
	normalized := make([]string, 0, len(fragments))
	for _, fragment := range fragments {
		if f := normalizeTitle(fragment); f != "" {
			normalized = append(normalized, f)
		}
	}
	return LooseRule{
		Name: strings.Join(normalized, "+"),
		Match: func(title string) bool {
			if len(normalized) == 0 {
				return false
			}
			for _, fragment := range normalized {
				if !strings.Contains(title, fragment) {
					return false
				}
			}
			return true
		},
	}
}

// Pattern builds a loose rule from a regular expression applied to the
// normalized (lower-case) title.
func Pattern(expr string) LooseRule {
	re := regexp.MustCompile(expr)
	return LooseRule{Name: expr, Match: re.MatchString}
}

var spaceRegex = regexp.MustCompile(`\s+`)

func normalizeTitle(v string) string {
	return spaceRegex.ReplaceAllString(strings.ToLower(strings.TrimSpace(v)), " ")
}
