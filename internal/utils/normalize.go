package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonKeyChars = regexp.MustCompile(`[^a-z0-9]+`)

// foldDiacritics strips combining marks so "Amélie" and "Amelie" compare equal.
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeKey reduces a title or screen label to a comparison key:
// lower-case ASCII letters and digits separated by single spaces. "&" is
// read as "and" so "Lock, Stock & Two" and "Lock Stock and Two" collide.
func NormalizeKey(s string) string {
	s = strings.ToLower(foldDiacritics(s))
	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, "’", "")
	s = nonKeyChars.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Slugify turns s into a dash-separated key usable in ids and URLs.
func Slugify(s string) string {
	return strings.ReplaceAll(NormalizeKey(s), " ", "-")
}
