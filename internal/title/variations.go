package title

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/iliyamo/pictures-london/internal/patterns"
)

// SearchVariations returns the titles to try against a films metadata
// provider: the extracted title first, then the with/without "The" variant,
// then the title without a trailing "(YYYY)". Duplicates are dropped.
func SearchVariations(raw string) []string {
	base := Extract(raw).Title
	if base == "" {
		return nil
	}

	candidates := []string{base}
	if len(base) > 4 && strings.EqualFold(base[:4], "the ") {
		candidates = append(candidates, strings.TrimSpace(base[4:]))
	} else {
		candidates = append(candidates, "The "+base)
	}
	if patterns.TrailingYear.MatchString(base) {
		candidates = append(candidates, strings.TrimSpace(patterns.TrailingYear.ReplaceAllString(base, "")))
	}

	seen := make(map[string]bool, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		key := strings.ToLower(c)
		if c == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

// IsLikelyCleanTitle is the cheap gate in front of the AI extractor. It
// returns false for titles that look like they still carry a cinema prefix,
// a year, shouting capitals, an overlong blurb or a short colon prefix that
// is not part of a known franchise title.
func IsLikelyCleanTitle(raw string) bool {
	t := collapse(DecodeEntities(raw))
	if t == "" {
		return true
	}
	if patterns.HasVersion(CleanBasic(t)) {
		return true
	}
	if _, ok := patterns.FirstMatch(patterns.EventPrefixes, t); ok {
		return false
	}
	if patterns.TrailingYear.MatchString(t) {
		return false
	}
	if utf8.RuneCountInString(t) > 3 && isAllUpper(t) {
		return false
	}
	if utf8.RuneCountInString(t) > 60 {
		return false
	}
	if m := patterns.ShortColonPrefix.FindStringSubmatch(t); m != nil && !patterns.IsFranchise(t) {
		if len(strings.Fields(m[1])) <= 3 {
			return false
		}
	}
	return true
}

func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		hasLetter = true
		if unicode.IsLower(r) {
			return false
		}
	}
	return hasLetter
}
