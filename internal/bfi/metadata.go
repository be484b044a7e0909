package bfi

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	yearRe        = regexp.MustCompile(`\b(18[89]\d|19\d{2}|20\d{2})\b`)
	runtimeRe     = regexp.MustCompile(`(?i)\b(\d{2,3})\s?min[s]?\b`)
	directorMark  = regexp.MustCompile(`\bDir(?:ector|s)?\.?\s`)
	directorRe    = regexp.MustCompile(`^\s*Dir(?:ector|s)?\.?\s+(.+)$`)
	castRe        = regexp.MustCompile(`(?:^|\s)With\s+(.+)$`)
	countryYearRe = regexp.MustCompile(`\b([A-Z][A-Za-z]+(?:[-/][A-Z][A-Za-z]+)*)\s+((?:18|19|20)\d{2})\b`)
	formatRe      = regexp.MustCompile(`(?i)\b(Digital 4K|4K Digital|Digital|DCP|IMAX 70mm|70mm|35mm|16mm|4K)\b`)
	certRe        = regexp.MustCompile(`^(U|PG|12A|12|15|18|R18|TBC)\*?$`)
	segmentSplit  = regexp.MustCompile(`\.\s+|\s*\|\s*|;\s*`)
)

// isMetadataLine reports whether line looks like the credits line under a
// film title: a year plus either a runtime or a director marker.
func isMetadataLine(line string) bool {
	if isScreeningLine(line) || !yearRe.MatchString(line) {
		return false
	}
	return runtimeRe.MatchString(line) || directorMark.MatchString(line)
}

// parseMetadata fills the credit fields of f from a metadata line such as
// "Dir Francis Ford Coppola. With Marlon Brando, Martin Sheen. USA 1979.
// 153min. Digital 4K. 15".
func parseMetadata(line string, f *Film) {
	for _, seg := range segmentSplit.Split(strings.TrimSpace(line), -1) {
		seg = strings.TrimSpace(strings.TrimSuffix(seg, "."))
		if seg == "" {
			continue
		}
		if m := countryYearRe.FindStringSubmatch(seg); m != nil && f.Year == 0 {
			f.Year, _ = strconv.Atoi(m[2])
			f.Countries = splitList(m[1], "-/")
		}
		if m := directorRe.FindStringSubmatch(seg); m != nil && f.Director == "" {
			d := m[1]
			if c := castRe.FindStringSubmatchIndex(d); c != nil {
				f.Cast = splitList(d[c[2]:c[3]], ",")
				d = d[:c[0]]
			}
			if loc := countryYearRe.FindStringIndex(d); loc != nil {
				d = d[:loc[0]]
			}
			f.Director = strings.TrimSpace(strings.TrimRight(d, " ,"))
			continue
		}
		if m := castRe.FindStringSubmatch(seg); m != nil && len(f.Cast) == 0 && strings.HasPrefix(strings.TrimSpace(seg), "With") {
			cast := m[1]
			if loc := countryYearRe.FindStringIndex(cast); loc != nil {
				cast = cast[:loc[0]]
			}
			f.Cast = splitList(cast, ",")
			continue
		}
		if m := runtimeRe.FindStringSubmatch(seg); m != nil && f.Runtime == 0 {
			f.Runtime, _ = strconv.Atoi(m[1])
		}
		if m := formatRe.FindStringSubmatch(seg); m != nil && f.Format == "" {
			f.Format = m[1]
		}
		if certRe.MatchString(seg) && f.Certificate == "" {
			f.Certificate = strings.TrimSuffix(seg, "*")
		}
	}
	if f.Year == 0 {
		if m := yearRe.FindString(line); m != "" {
			f.Year, _ = strconv.Atoi(m)
		}
	}
}

func splitList(s, seps string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return strings.ContainsRune(seps, r) })
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
