package patterns

import "regexp"

// Basic cruft removed from every title before any smarter processing: BBFC
// certificates, bracketed tags, projection-format suffixes and "+ Q&A" style
// addenda.
var (
	Certificate = regexp.MustCompile(`(?i)\s*\((?:U|PG|12A?|15|18|R18|TBC|CTBC)\*?\)`)
	BracketTag  = regexp.MustCompile(`\s*\[[^\]]*\]`)
	FormatTail  = regexp.MustCompile(`(?i)\s*(?:[-–:]\s*|\(\s*|\bin\s+|\bon\s+)?\b(?:35\s?mm|70\s?mm|16\s?mm|4K|IMAX|3D|2D|Digital)(?:\s+(?:print|presentation))?\s*\)?\s*$`)
	Addendum    = regexp.MustCompile(`(?i)\s*\+\s*(?:Q\s*&\s*A|Q\s+and\s+A|intro(?:duction)?|discussion|panel|live score)\b.*$`)
	Whitespace  = regexp.MustCompile(`\s+`)
)
