// Package bfi ingests the BFI Southbank / BFI IMAX listings: the monthly
// programme guide PDF and the "programme changes" web page.
package bfi

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/iliyamo/pictures-london/internal/logger"
	"github.com/iliyamo/pictures-london/internal/model"
)

const (
	// metadataLookahead is how many lines under a title may hold the
	// credits line before the title is rejected.
	metadataLookahead = 4
	maxTitleLen       = 100
	minDescriptionLen = 20
)

// Film is one film block parsed from the guide.
//
// Fields:
//
//	Title         – the heading line as printed.
//	OriginalTitle – the alternate-language title printed under it, if any.
//	Season        – the season header the block sits under.
//	Screenings    – every dated showing listed for the block.
type Film struct {
	Title         string      `json:"title"`
	OriginalTitle string      `json:"original_title,omitempty"`
	Director      string      `json:"director,omitempty"`
	Cast          []string    `json:"cast,omitempty"`
	Countries     []string    `json:"countries,omitempty"`
	Year          int         `json:"year,omitempty"`
	Runtime       int         `json:"runtime,omitempty"`
	Format        string      `json:"format,omitempty"`
	Certificate   string      `json:"certificate,omitempty"`
	Description   string      `json:"description,omitempty"`
	Season        string      `json:"season,omitempty"`
	Screenings    []Screening `json:"screenings"`
}

// GuideResult is the outcome of parsing one guide document.
type GuideResult struct {
	Films       []Film
	Screenings  []model.RawScreening
	ParseErrors []string
	Coverage    *Coverage
}

// seasonHeaders is the closed list of all-caps strand names the guide uses to
// group films.
var seasonHeaders = toSet(
	"BFI FLARE", "BFI FAMILY", "BFI LONDON FILM FESTIVAL", "BIG SCREEN CLASSICS",
	"RE-RELEASES", "NEW RELEASES", "PREVIEWS", "PREVIEWS & EVENTS", "EVENTS",
	"SEASONS", "FAMILY", "FUNDAY", "MEMBER EXCLUSIVES", "SENIORS", "EXPERIMENTA",
	"CULT", "WOMEN WITH A MOVIE CAMERA", "AFRICAN ODYSSEYS", "LESBIAN & GAY",
	"TV PREVIEWS", "SILENT CINEMA", "RELAXED SCREENINGS", "IMAX", "BFI IMAX",
)

func toSet(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

var seasonSuffix = regexp.MustCompile(`\s+(?:SEASON|STRAND)$`)

func seasonName(line string) (string, bool) {
	l := strings.TrimSpace(line)
	if l == "" || l != strings.ToUpper(l) {
		return "", false
	}
	if seasonHeaders[l] {
		return l, true
	}
	if base := seasonSuffix.ReplaceAllString(l, ""); base != l && seasonHeaders[base] {
		return base, true
	}
	return "", false
}

func isSeasonHeader(line string) bool {
	_, ok := seasonName(line)
	return ok
}

func isTitleCandidate(line string) bool {
	if line == "" || utf8.RuneCountInString(line) > maxTitleLen {
		return false
	}
	return !isScreeningLine(line) && !isMetadataLine(line) && !isSeasonHeader(line)
}

// Parser turns guide text into films and raw screenings. Now is overridable
// so date resolution and past-screening filtering are testable.
type Parser struct {
	Now    func() time.Time
	Logger *slog.Logger
}

// NewParser returns a parser on the wall clock.
func NewParser(log *slog.Logger) *Parser {
	return &Parser{Now: time.Now, Logger: logger.OrDefault(log)}
}

func (p *Parser) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

func (p *Parser) log() *slog.Logger { return logger.OrDefault(p.Logger) }

// ParseGuide scans the plain text of a guide PDF. label is the document name
// and is used for coverage detection when the text carries none.
func (p *Parser) ParseGuide(text, label string) GuideResult {
	now := p.now()
	lines := splitLines(text)

	var res GuideResult
	if cov, ok := DetectCoverage(text, label); ok {
		res.Coverage = &cov
	}

	season := ""
	for i := 0; i < len(lines); {
		if name, ok := seasonName(lines[i]); ok {
			season = name
			i++
			continue
		}
		film, next, ok := p.parseFilmBlock(lines, i, res.Coverage, now)
		if !ok {
			i++
			continue
		}
		film.Season = season
		if len(film.Screenings) > 0 {
			res.Films = append(res.Films, film)
		} else {
			p.log().Debug("bfi: dropping film block without screenings", "title", film.Title)
		}
		i = next
	}

	if len(lines) > 0 && len(res.Films) == 0 {
		res.ParseErrors = append(res.ParseErrors, "no film blocks with screenings found in guide text")
	}
	res.Screenings = guideScreenings(res.Films, now)
	return res
}

// parseFilmBlock tries to read a film block whose title is lines[i]. It
// returns the index of the first line after the block.
func (p *Parser) parseFilmBlock(lines []string, i int, cov *Coverage, now time.Time) (Film, int, bool) {
	if !isTitleCandidate(lines[i]) {
		return Film{}, i, false
	}
	meta := -1
	for j := i + 1; j < len(lines) && j <= i+metadataLookahead; j++ {
		if isScreeningLine(lines[j]) || isSeasonHeader(lines[j]) {
			break
		}
		if isMetadataLine(lines[j]) {
			meta = j
			break
		}
	}
	if meta < 0 {
		return Film{}, i, false
	}

	film := Film{Title: lines[i]}
	var desc []string
	for j := i + 1; j < meta; j++ {
		l := lines[j]
		if film.OriginalTitle == "" && len(desc) == 0 && utf8.RuneCountInString(l) <= maxTitleLen {
			film.OriginalTitle = l
			continue
		}
		desc = append(desc, l)
	}
	parseMetadata(lines[meta], &film)

	k := meta + 1
scan:
	for ; k < len(lines); k++ {
		l := lines[k]
		switch {
		case isScreeningLine(l):
			film.Screenings = append(film.Screenings, parseScreenings(l, cov, now)...)
		case isSeasonHeader(l), isMetadataLine(l):
			break scan
		case len(film.Screenings) > 0:
			// Past the screening list, any other line belongs to the next film.
			break scan
		case k+1 < len(lines) && isMetadataLine(lines[k+1]):
			break scan
		case utf8.RuneCountInString(l) >= minDescriptionLen:
			desc = append(desc, l)
		default:
			break scan
		}
	}
	film.Description = strings.Join(desc, " ")
	return film, k, true
}

// guideScreenings flattens films into raw screenings, dropping anything that
// has already started.
func guideScreenings(films []Film, now time.Time) []model.RawScreening {
	var out []model.RawScreening
	for _, f := range films {
		display, event := displayTitle(f.Title)
		for _, s := range f.Screenings {
			if s.Datetime.Before(now) {
				continue
			}
			out = append(out, model.RawScreening{
				FilmTitle:  display,
				Datetime:   s.Datetime,
				Screen:     s.Screen,
				Format:     f.Format,
				BookingURL: BookingURL(display),
				EventType:  event,
				SourceID:   sourceID("pdf", s.VenueID, display, s.Datetime),
				Year:       f.Year,
				Director:   f.Director,
			})
		}
	}
	return out
}

func sourceID(kind, venueID, title string, at time.Time) string {
	return fmt.Sprintf("bfi-%s-%s-%s-%s", kind, venueID, slug(title), at.UTC().Format("20060102T1504"))
}

func splitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.Join(strings.Fields(l), " "); l != "" {
			out = append(out, l)
		}
	}
	return out
}
