package bfi

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/iliyamo/pictures-london/internal/model"
)

// ChangesResult is what the programme-changes page yielded.
type ChangesResult struct {
	Screenings       []model.RawScreening
	LastUpdated      string
	StructuralErrors []string
}

var (
	lastUpdatedRe = regexp.MustCompile(`(?i)last\s+updated:?\s*(.+)$`)
	cancelledRe   = regexp.MustCompile(`(?i)\b(?:cancel(?:l)?ed|cancellation|no longer (?:screening|showing)|withdrawn)\b`)
)

// pageLine is one block of rendered text. heading marks lines that name a
// film: an <h1>-<h6> block, or a paragraph that is entirely bold.
type pageLine struct {
	text    string
	heading bool
}

// ParseChanges reads the programme-changes HTML. Headings set the current
// film; screening tokens under a heading become screenings of that film.
// Lines announcing cancellations are ignored. A page with no headings at all
// is reported as a structural error since its layout has likely changed.
func (p *Parser) ParseChanges(r io.Reader) (ChangesResult, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return ChangesResult{}, fmt.Errorf("parse changes page: %w", err)
	}
	now := p.now()

	var res ChangesResult
	current, headings := "", 0
	for _, l := range renderLines(doc) {
		if m := lastUpdatedRe.FindStringSubmatch(l.text); m != nil {
			res.LastUpdated = strings.TrimSpace(m[1])
			continue
		}
		if l.heading && !screeningToken.MatchString(l.text) {
			headings++
			current = l.text
			if cancelledRe.MatchString(l.text) {
				current = ""
			}
			continue
		}
		if current == "" || cancelledRe.MatchString(l.text) {
			continue
		}
		display, event := displayTitle(current)
		for _, s := range parseScreenings(l.text, nil, now) {
			if s.Datetime.Before(now) {
				continue
			}
			res.Screenings = append(res.Screenings, model.RawScreening{
				FilmTitle:  display,
				Datetime:   s.Datetime,
				Screen:     s.Screen,
				BookingURL: BookingURL(display),
				EventType:  event,
				SourceID:   sourceID("changes", s.VenueID, display, s.Datetime),
			})
		}
	}
	if headings == 0 {
		res.StructuralErrors = append(res.StructuralErrors, "no film headings found on programme changes page")
	}
	p.log().Debug("bfi: parsed programme changes", "headings", headings, "screenings", len(res.Screenings), "last_updated", res.LastUpdated)
	return res, nil
}

var blockAtoms = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Li: true, atom.Td: true, atom.Th: true,
	atom.Dt: true, atom.Dd: true, atom.Section: true, atom.Article: true,
	atom.Header: true, atom.Footer: true, atom.Tr: true, atom.Table: true,
	atom.Ul: true, atom.Ol: true, atom.Br: true, atom.Hr: true,
}

var headingAtoms = map[atom.Atom]bool{
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
}

// renderLines flattens the document body into text lines at block
// boundaries, skipping script and style content.
func renderLines(doc *html.Node) []pageLine {
	var (
		out            []pageLine
		text, bold     strings.Builder
		inHeading      int
		inBold         int
		headingPending bool
	)
	flush := func() {
		t := strings.Join(strings.Fields(text.String()), " ")
		b := strings.Join(strings.Fields(bold.String()), " ")
		if t != "" {
			out = append(out, pageLine{text: t, heading: headingPending || (b != "" && b == t)})
		}
		text.Reset()
		bold.Reset()
		headingPending = inHeading > 0
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			text.WriteString(n.Data)
			if inBold > 0 {
				bold.WriteString(n.Data)
			}
			return
		case html.ElementNode:
			switch {
			case n.DataAtom == atom.Script || n.DataAtom == atom.Style || n.DataAtom == atom.Noscript:
				return
			case headingAtoms[n.DataAtom]:
				flush()
				inHeading++
				headingPending = true
				defer func() { flush(); inHeading--; headingPending = inHeading > 0 }()
			case blockAtoms[n.DataAtom]:
				flush()
				defer flush()
			case n.DataAtom == atom.Strong || n.DataAtom == atom.B:
				inBold++
				defer func() { inBold-- }()
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	flush()
	return out
}
