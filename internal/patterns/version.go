package patterns

import (
	"regexp"
	"strings"
)

const versionNames = `(?:the\s+)?final cut|director['’]?s cut|extended (?:edition|cut|version)|theatrical (?:cut|version)|special edition|ultimate (?:cut|edition)|redux|uncut|unrated(?: cut)?|original (?:cut|version)|restored version|black (?:and|&) white(?: edition| version)?|chrome edition|anniversary edition`

var versionSuffixes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(.+?)\s*(?:[:\-–]\s*|\(\s*)(` + versionNames + `)\s*\)?\s*$`),
	regexp.MustCompile(`(?i)^(.+?)\s+(redux|director['’]?s cut|final cut)\s*$`),
}

// SplitVersion separates a version/cut suffix from a title.
// "Apocalypse Now : Final Cut" gives ("Apocalypse Now", "Final Cut", true).
func SplitVersion(s string) (base, version string, ok bool) {
	for _, re := range versionSuffixes {
		m := re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		base = strings.TrimSpace(m[1])
		version = strings.TrimSpace(m[2])
		if base == "" {
			continue
		}
		return base, version, true
	}
	return s, "", false
}

// HasVersion reports whether s ends in a recognised version suffix.
func HasVersion(s string) bool {
	_, _, ok := SplitVersion(s)
	return ok
}
