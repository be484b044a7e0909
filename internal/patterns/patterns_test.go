package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/pictures-london/internal/model"
)

func TestSplitVersion(t *testing.T) {
	cases := []struct {
		in, base, version string
		ok                bool
	}{
		{"Apocalypse Now : Final Cut", "Apocalypse Now", "Final Cut", true},
		{"Blade Runner (The Final Cut)", "Blade Runner", "The Final Cut", true},
		{"Apocalypse Now Redux", "Apocalypse Now", "Redux", true},
		{"Aliens - Special Edition", "Aliens", "Special Edition", true},
		{"Heat", "Heat", "", false},
	}
	for _, tc := range cases {
		base, version, ok := SplitVersion(tc.in)
		assert.Equal(t, tc.base, base, tc.in)
		assert.Equal(t, tc.version, version, tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
	}
}

func TestEventPrefixes(t *testing.T) {
	rule, ok := FirstMatch(EventPrefixes, "Members Preview: Hamnet")
	assert.True(t, ok)
	assert.Equal(t, "preview_prefix", rule.Name)
	assert.Equal(t, model.EventPreview, rule.EventType)

	rule, ok = FirstMatch(EventPrefixes, "Cult Classic: The Warriors")
	assert.True(t, ok)
	assert.Equal(t, "club_prefix", rule.Name)

	rule, ok = FirstMatch(EventPrefixes, "35mm: Vertigo")
	assert.True(t, ok)
	assert.Equal(t, "format_prefix", rule.Name)

	_, ok = FirstMatch(EventPrefixes, "Mission: Impossible")
	assert.False(t, ok)
}

func TestTitleSuffixes(t *testing.T) {
	rule, ok := FirstMatch(TitleSuffixes, "Aftersun + Q&A with Charlotte Wells")
	assert.True(t, ok)
	assert.Equal(t, model.EventQandA, rule.EventType)

	rule, ok = FirstMatch(TitleSuffixes, "Paris, Texas (40th Anniversary)")
	assert.True(t, ok)
	assert.Equal(t, "anniversary", rule.Name)

	_, ok = FirstMatch(TitleSuffixes, "Withnail and I")
	assert.False(t, ok)
}

func TestClassifiers(t *testing.T) {
	assert.True(t, IsNonFilm("Film Quiz Night"))
	assert.True(t, IsNonFilm("Reading Group: Middlemarch"))
	assert.False(t, IsNonFilm("The Book Thief"))

	assert.True(t, IsFranchise("Star Wars: A New Hope"))
	assert.True(t, IsFranchise("Mission: Impossible - Dead Reckoning"))
	assert.False(t, IsFranchise("Cine Lit: Orlando"))

	m := LiveBroadcast.FindStringSubmatch("NT Live: Hamlet")
	if assert.NotNil(t, m) {
		assert.Equal(t, "Hamlet", m[1])
	}
	m = Compilation.FindStringSubmatch("LSFF: Animation Shorts")
	if assert.NotNil(t, m) {
		assert.Equal(t, "Animation Shorts", m[1])
	}
}

func TestCruft(t *testing.T) {
	assert.Equal(t, "Vertigo", Certificate.ReplaceAllString("Vertigo (PG)", ""))
	assert.Equal(t, "Vertigo", BracketTag.ReplaceAllString("Vertigo [Subtitled]", ""))
	assert.Equal(t, "Vertigo", FormatTail.ReplaceAllString("Vertigo - 35mm", ""))
	assert.Equal(t, "Vertigo", Addendum.ReplaceAllString("Vertigo + intro", ""))
}
