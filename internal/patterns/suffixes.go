package patterns

import (
	"regexp"

	"github.com/iliyamo/pictures-london/internal/model"
)

// suffixLead is what separates an addendum from the title: a plus, an
// ampersand, "with", a dash or colon, or an opening bracket.
const suffixLead = `\s*(?:\+|&|\bwith\b|[-–:]|\()\s*`

// TitleSuffixes are trailing addenda stripped from listing titles. Several
// may apply to one title; the extractor keeps stripping until none match.
var TitleSuffixes = []Rule{
	{
		Name:      "q_and_a",
		Pattern:   regexp.MustCompile(`(?i)` + suffixLead + `(?:an?\s+|live\s+|extended\s+)?Q\s*(?:&|and)\s*A\b.*$`),
		EventType: model.EventQandA,
	},
	{
		Name:      "intro",
		Pattern:   regexp.MustCompile(`(?i)(?:` + suffixLead + `(?:an?\s+)?intro(?:duction|duced by)?\b|\s+introduced by\b).*$`),
		EventType: model.EventIntro,
	},
	{
		Name:      "discussion",
		Pattern:   regexp.MustCompile(`(?i)` + suffixLead + `(?:an?\s+|panel\s+)?(?:discussion|panel|in conversation)\b.*$`),
		EventType: model.EventDiscussion,
	},
	{
		Name:    "live_score",
		Pattern: regexp.MustCompile(`(?i)` + suffixLead + `(?:a\s+|new\s+)?live (?:score|soundtrack|accompaniment|music)\b.*$`),
	},
	{
		Name:    "anniversary",
		Pattern: regexp.MustCompile(`(?i)\s*(?:[-–:]\s*|\()\s*\d{1,3}(?:st|nd|rd|th)\s+anniversary(?:\s+(?:screening|edition|restoration|re-?release))?\s*\)?\s*$`),
	},
	{
		Name:    "restoration",
		Pattern: regexp.MustCompile(`(?i)\s*(?:[-–:]\s*|\()\s*(?:new\s+)?(?:4K\s+|2K\s+)?(?:restoration|restored|remaster(?:ed)?|re-?release)\s*\)?\s*$`),
	},
	{
		Name:    "double_bill",
		Pattern: regexp.MustCompile(`(?i)\s*[-–:]?\s*\(?\bdouble[- ]?(?:bill|feature)\)?\s*$`),
	},
	{
		Name:    "screening_tag",
		Pattern: regexp.MustCompile(`(?i)\s*(?:[-–:]\s*|\()\s*(?:relaxed screening|subtitled(?: screening)?|parent (?:&|and) baby(?: screening)?|dementia[- ]friendly(?: screening)?|sing-?a-?long|audio described|captioned(?: screening)?)\s*\)?\s*$`),
	},
	{
		Name:      "preview_suffix",
		Pattern:   regexp.MustCompile(`(?i)\s*(?:[-–:]\s*|\(|\+\s*)(?:(?:uk|london|member)\s+)?preview(?:\s+screening)?\s*\)?\s*$`),
		EventType: model.EventPreview,
	},
	{
		Name:      "premiere_suffix",
		Pattern:   regexp.MustCompile(`(?i)\s*(?:[-–:]\s*|\(|\+\s*)(?:(?:uk|london|european|world)\s+)?premiere(?:\s+screening)?\s*\)?\s*$`),
		EventType: model.EventPremiere,
	},
}

// DoubleFeature splits "Title + Title2" listings.
var DoubleFeature = regexp.MustCompile(`^(.+?)\s+\+\s+(.+)$`)
