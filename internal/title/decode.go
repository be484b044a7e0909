package title

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/charmap"

	"github.com/iliyamo/pictures-london/internal/patterns"
)

var leftoverEntity = regexp.MustCompile(`&(?:#\d+|#x[0-9a-fA-F]+|[a-zA-Z]+);`)

// DecodeEntities resolves numeric and named HTML entities, including the
// double-encoded "&amp;#39;" form some listing feeds emit, and then repairs
// UTF-8 text that was mis-decoded as Latin-1 ("AmÃ©lie" -> "Amélie").
func DecodeEntities(s string) string {
	out := html.UnescapeString(s)
	if leftoverEntity.MatchString(out) {
		out = html.UnescapeString(out)
	}
	return repairMojibake(out)
}

// repairMojibake re-encodes s as Windows-1252 and keeps the result only when
// it forms valid UTF-8 that differs from the input. Anything that does not
// round-trip is returned unchanged.
func repairMojibake(s string) string {
	if !strings.ContainsAny(s, "ÃÂâÅ") {
		return s
	}
	b, err := charmap.Windows1252.NewEncoder().String(s)
	if err != nil || b == s || !utf8.ValidString(b) {
		return s
	}
	return b
}

// collapse squeezes runs of whitespace and trims stray separators left at
// either end after a prefix or suffix has been cut away.
func collapse(s string) string {
	s = patterns.Whitespace.ReplaceAllString(s, " ")
	return strings.Trim(s, " -–:|,+")
}

// CleanBasic removes the mechanical cruft cinemas add to titles: BBFC
// certificates, bracketed tags, "+ Q&A" style addenda and projection format
// suffixes.
func CleanBasic(s string) string {
	s = DecodeEntities(s)
	s = patterns.Certificate.ReplaceAllString(s, "")
	s = patterns.BracketTag.ReplaceAllString(s, "")
	s = patterns.Addendum.ReplaceAllString(s, "")
	s = patterns.FormatTail.ReplaceAllString(s, "")
	return collapse(s)
}

// CleanCruft decodes s and removes certificates, bracketed tags and
// projection formats. Event addenda are left for the caller to classify.
func CleanCruft(s string) string {
	return stripCruft(DecodeEntities(s))
}
