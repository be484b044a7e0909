// Package patterns holds the regex and keyword tables shared by the title
// extractors and the guide parser. Tables are evaluated in declaration order
// and the first match wins; nothing here is mutated after init.
package patterns

import (
	"regexp"
	"strings"
)

// Rule pairs a compiled pattern with the name reported when it fires and the
// event type it implies, if any.
type Rule struct {
	Name      string
	Pattern   *regexp.Regexp
	EventType string
}

// FirstMatch returns the first rule in rules whose pattern matches s.
func FirstMatch(rules []Rule, s string) (Rule, bool) {
	for _, r := range rules {
		if r.Pattern.MatchString(s) {
			return r, true
		}
	}
	return Rule{}, false
}

// alt joins alternatives into a non-capturing group body.
func alt(names []string) string {
	return strings.Join(names, "|")
}
