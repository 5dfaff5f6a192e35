package team

import "strings"

// Canonical team names, in matching priority order. Substring matching walks
// this list front to back and stops at the first hit, so order matters.
var canonicalNames = []string{
	"Acid Esports",
	"MNML",
	"Apex Predators",
	"Blackout",
	"Catalyst",
	"Dynasty",
	"Eclipse",
	"Frostbite",
	"Ghost Gaming",
	"Havoc",
	"Ironclad",
	"Kinetic",
	"Lunar Legion",
	"Nova Rising",
	"Omen",
	"Vortex",
}

// keywordRule maps any raw name containing Keyword to Name.
type keywordRule struct {
	Keyword string
	Name    string
}

var keywordRules = []keywordRule{
	{Keyword: "acid", Name: "Acid Esports"},
	{Keyword: "mnml", Name: "MNML"},
	{Keyword: "minimal", Name: "MNML"},
	{Keyword: "apex", Name: "Apex Predators"},
	{Keyword: "ghost", Name: "Ghost Gaming"},
	{Keyword: "frost", Name: "Frostbite"},
	{Keyword: "lunar", Name: "Lunar Legion"},
	{Keyword: "nova", Name: "Nova Rising"},
	{Keyword: "iron", Name: "Ironclad"},
}

var canonicalLower = func() []string {
	out := make([]string, len(canonicalNames))
	for i, name := range canonicalNames {
		out[i] = strings.ToLower(name)
	}
	return out
}()

// CanonicalNames returns a copy of the known team names.
func CanonicalNames() []string {
	return append([]string(nil), canonicalNames...)
}

func IsCanonical(name string) bool {
	for _, candidate := range canonicalNames {
		if candidate == name {
			return true
		}
	}
	return false
}
