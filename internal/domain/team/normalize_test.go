package team

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_CanonicalNamesAreFixedPoints(t *testing.T) {
	t.Parallel()

	for _, name := range CanonicalNames() {
		assert.Equal(t, name, Normalize(name), "canonical name %q", name)
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	t.Parallel()

	inputs := []string{"", "  ", "ACID", "the mnml squad", "random fc", "Ghost", "v", "IRONMEN"}
	for _, input := range inputs {
		first := Normalize(input)
		for i := 0; i < 5; i++ {
			require.Equal(t, first, Normalize(input), "input %q", input)
		}
	}
}

func TestNormalize_ResolutionOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "exact ignores case", raw: "acid esports", want: "Acid Esports"},
		{name: "exact trims spaces", raw: "  Dynasty ", want: "Dynasty"},
		{name: "raw contains canonical", raw: "Team Havoc (Sub)", want: "Havoc"},
		{name: "canonical contains raw", raw: "ACID", want: "Acid Esports"},
		{name: "mnml squad", raw: "the mnml squad", want: "MNML"},
		{name: "keyword rule", raw: "Minimalists", want: "MNML"},
		{name: "keyword before passthrough", raw: "Iron Giants", want: "Ironclad"},
		{name: "frost keyword", raw: "FROSTY BOYS", want: "Frostbite"},
		{name: "unknown passes through", raw: "  Random FC ", want: "Random FC"},
		{name: "blank stays blank", raw: "   ", want: ""},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, Normalize(tc.raw))
		})
	}
}

func TestNormalize_SubstringTakesFirstListEntry(t *testing.T) {
	t.Parallel()

	// Both "Omen" and "Vortex" are contained; "Omen" comes first in the list.
	assert.Equal(t, "Omen", Normalize("vortex omen alliance"))
}

func TestIsCanonical(t *testing.T) {
	t.Parallel()

	assert.True(t, IsCanonical("MNML"))
	assert.False(t, IsCanonical("mnml"))
	assert.Len(t, CanonicalNames(), 16)
}
