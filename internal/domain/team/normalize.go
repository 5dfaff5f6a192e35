package team

import "strings"

// Normalize maps a free-text team label to its canonical name. Matching is
// case-insensitive and tries, in order: exact name, substring in either
// direction (first list entry wins), keyword rules. Unrecognized labels are
// returned trimmed but otherwise unchanged.
func Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return trimmed
	}
	lower := strings.ToLower(trimmed)

	for i, candidate := range canonicalLower {
		if lower == candidate {
			return canonicalNames[i]
		}
	}

	for i, candidate := range canonicalLower {
		if strings.Contains(lower, candidate) || strings.Contains(candidate, lower) {
			return canonicalNames[i]
		}
	}

	for _, rule := range keywordRules {
		if strings.Contains(lower, rule.Keyword) {
			return rule.Name
		}
	}

	return trimmed
}
