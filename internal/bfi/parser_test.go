package bfi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/pictures-london/internal/model"
)

func fixedParser(now time.Time) *Parser {
	return &Parser{Now: func() time.Time { return now }}
}

const decemberGuide = `BFI SOUTHBANK
DECEMBER 2025
BIG SCREEN CLASSICS
Apocalypse Now
Dir Francis Ford Coppola. With Marlon Brando, Martin Sheen. USA 1979. 153min. Digital 4K. 15
Coppola's hallucinatory journey upriver remains overwhelming on the big screen.
SAT 13 DEC 18:10 NFT1 AD
MON 1 DEC 09:00 NFT2
SUN 14 DEC 14:00 IMAX; MON 15 DEC 20:30 NFT2
The Gruffalo
UK 2009. 27min. Digital
A short with no screenings printed this month.
Vertigo + Q&A
Dir Alfred Hitchcock USA 1958. 128min. 35mm. PG
TUE 16 DEC 18:00 NFT3
`

func TestParseGuide_FilmBlocks(t *testing.T) {
	now := time.Date(2025, 12, 1, 10, 0, 0, 0, London)
	res := fixedParser(now).ParseGuide(decemberGuide, "")

	require.Len(t, res.Films, 2, "block without screenings must be dropped")
	require.NotNil(t, res.Coverage)
	assert.Equal(t, 2025, res.Coverage.Year)
	assert.Empty(t, res.ParseErrors)

	apo := res.Films[0]
	assert.Equal(t, "Apocalypse Now", apo.Title)
	assert.Equal(t, "BIG SCREEN CLASSICS", apo.Season)
	assert.Equal(t, "Francis Ford Coppola", apo.Director)
	assert.Equal(t, []string{"Marlon Brando", "Martin Sheen"}, apo.Cast)
	assert.Equal(t, []string{"USA"}, apo.Countries)
	assert.Equal(t, 1979, apo.Year)
	assert.Equal(t, 153, apo.Runtime)
	assert.Equal(t, "Digital 4K", apo.Format)
	assert.Equal(t, "15", apo.Certificate)
	assert.Contains(t, apo.Description, "hallucinatory")
	require.Len(t, apo.Screenings, 4)
	assert.Equal(t, []string{"AD"}, apo.Screenings[0].Accessibility)
	assert.Equal(t, "bfi-imax", apo.Screenings[2].VenueID)
	assert.Equal(t, "bfi-southbank", apo.Screenings[3].VenueID)

	vert := res.Films[1]
	assert.Equal(t, "Alfred Hitchcock", vert.Director)
	assert.Equal(t, 1958, vert.Year)
	assert.Equal(t, "35mm", vert.Format)
	assert.Equal(t, "PG", vert.Certificate)

	// The 1 Dec 09:00 screening has already started.
	require.Len(t, res.Screenings, 4)
	first := res.Screenings[0]
	assert.Equal(t, "Apocalypse Now", first.FilmTitle)
	assert.Equal(t, time.Date(2025, 12, 13, 18, 10, 0, 0, time.UTC), first.Datetime.UTC())
	assert.Equal(t, "NFT1", first.Screen)
	assert.Equal(t, 1979, first.Year)
	assert.Contains(t, first.BookingURL, "Apocalypse+Now")
	assert.Equal(t, "IMAX", res.Screenings[1].Screen)

	last := res.Screenings[3]
	assert.Equal(t, "Vertigo", last.FilmTitle)
	assert.Equal(t, model.EventQandA, last.EventType)
}

func TestParseGuide_YearRollover(t *testing.T) {
	now := time.Date(2025, 12, 1, 10, 0, 0, 0, London)
	text := "Nosferatu\nGermany 1922. 94min\nFRI 9 JAN 19:00 NFT1\n"

	res := fixedParser(now).ParseGuide(text, "")
	require.Nil(t, res.Coverage)
	require.Len(t, res.Screenings, 1)
	assert.Equal(t, 2026, res.Screenings[0].Datetime.Year())
	assert.Equal(t, time.January, res.Screenings[0].Datetime.Month())
}

func TestParseGuide_WrappingCoverageFromLabel(t *testing.T) {
	now := time.Date(2026, 1, 5, 9, 0, 0, 0, London)
	text := "Nosferatu\nGermany 1922. 94min\nSAT 10 JAN 19:00 NFT1\n"

	res := fixedParser(now).ParseGuide(text, "bfi-southbank-guide-december-january-2026")
	require.NotNil(t, res.Coverage)
	assert.Equal(t, 2025, res.Coverage.yearFor(time.December))
	require.Len(t, res.Screenings, 1)
	assert.Equal(t, 2026, res.Screenings[0].Datetime.Year())
}

func TestParseGuide_NoBlocks(t *testing.T) {
	res := fixedParser(time.Now()).ParseGuide("Just a cover page\nwith no listings at all", "")
	assert.Empty(t, res.Films)
	assert.Empty(t, res.Screenings)
	assert.Len(t, res.ParseErrors, 1)
}

func TestParseScreenings_TimesAndVenues(t *testing.T) {
	now := time.Date(2025, 12, 1, 10, 0, 0, 0, London)
	got := parseScreenings("WED 17 DEC 6.30pm NFT 4, THU 18 DEC 25:00 NFT1, FRI 19 DEC 11:00 BFI IMAX", nil, now)

	require.Len(t, got, 2, "25:00 is not a time")
	assert.Equal(t, "18:30", got[0].Time)
	assert.Equal(t, "NFT4", got[0].Screen)
	assert.Equal(t, "bfi-southbank", got[0].VenueID)
	assert.Equal(t, "BFI IMAX", got[1].Screen)
	assert.Equal(t, "bfi-imax", got[1].VenueID)
}

func TestParseScreenings_RejectsImpossibleDates(t *testing.T) {
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, London)
	got := parseScreenings("SAT 31 FEB 18:00 NFT1; MON 30 FEB 18:00 NFT1; SUN 1 MAR 18:00 NFT1", nil, now)

	require.Len(t, got, 1)
	assert.Equal(t, time.Date(2026, 3, 1, 18, 0, 0, 0, London), got[0].Datetime)
}

func TestResolveDate_UsesLondonYear(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	// 20:00 in New York on New Year's Eve is already 2026 in London.
	now := time.Date(2025, 12, 31, 20, 0, 0, 0, ny)

	assert.Equal(t, time.Date(2026, 1, 3, 18, 0, 0, 0, London), resolveDate(3, time.January, 18, 0, nil, now))
	assert.Equal(t, time.Date(2026, 12, 28, 18, 0, 0, 0, London), resolveDate(28, time.December, 18, 0, nil, now))
}

func TestDisplayTitle(t *testing.T) {
	cases := []struct {
		in, title, event string
	}{
		{"Preview: Hamnet", "Hamnet", model.EventPreview},
		{"Premiere The Ballad of Wallis Island", "The Ballad of Wallis Island", model.EventPremiere},
		{"Paris, Texas + intro by Wim Wenders", "Paris, Texas", model.EventIntro},
		{"Vertigo + Q&A", "Vertigo", model.EventQandA},
		{"Vertigo (PG) + Q&amp;A [35mm]", "Vertigo", model.EventQandA},
		{"Brazil + panel discussion", "Brazil", model.EventDiscussion},
		{"Cléo from 5 to 7", "Cléo from 5 to 7", ""},
	}
	for _, c := range cases {
		got, event := displayTitle(c.in)
		assert.Equal(t, c.title, got, c.in)
		assert.Equal(t, c.event, event, c.in)
	}
}

func TestVenueForScreen(t *testing.T) {
	assert.Equal(t, "bfi-southbank", VenueForScreen("nft 2"))
	assert.Equal(t, "bfi-southbank", VenueForScreen("Blue Room"))
	assert.Equal(t, "bfi-imax", VenueForScreen("imax"))
	assert.Equal(t, "bfi-southbank", VenueForScreen("Screen 9"))
}
