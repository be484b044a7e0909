package patterns

import (
	"regexp"

	"github.com/iliyamo/pictures-london/internal/model"
)

// prefixSep is the delimiter between a club/strand prefix and the film title:
// a colon, a spaced dash or a pipe.
const prefixSep = `\s*(?::|\s[-–|]\s|\|)\s*`

var clubPrefixes = []string{
	`Afternoon Tea Screening`,
	`Autism[- ]Friendly(?: Screening)?`,
	`Baby Club`,
	`Bar Trash`,
	`Big Screen Classics?`,
	`BFI Flare`,
	`Carers? (?:and|&) Bab(?:y|ies)`,
	`Cin[eé][- ]?Club`,
	`Cin[eé][- ]?Real`,
	`Cinema Club`,
	`Classic Matinee`,
	`Cult Classics?`,
	`Dementia[- ]Friendly(?: Screening)?`,
	`Doc ?Club`,
	`Family Film Club`,
	`Film Club`,
	`Funday(?: Workshop)?`,
	`Kids'? Club`,
	`Late Night`,
	`LFF`,
	`Member Picks?`,
	`Members'? Screening`,
	`Midnight Movies?`,
	`Parent (?:and|&) Baby`,
	`Queer Horror Nights?`,
	`Relaxed Screening`,
	`Scalarama(?: \d{4})?`,
	`Sci-?Fi London`,
	`Seniors'? (?:Free )?Matinee`,
	`Silver Screen`,
	`Special Screening`,
	`Sunday Classics?`,
	`Terror Vision`,
	`Throwback Thursday`,
	`Toddler Time`,
	`Woman With a Movie Camera`,
}

var formatPrefixes = []string{
	`35mm`,
	`70mm`,
	`16mm`,
	`4K(?: Restoration)?`,
	`IMAX`,
	`Re-?release`,
	`Restoration`,
}

// EventPrefixes are colon-delimited prefixes added by cinemas in front of the
// film title. Preview and premiere prefixes also carry an event type.
var EventPrefixes = []Rule{
	{
		Name:      "preview_prefix",
		Pattern:   regexp.MustCompile(`(?i)^\s*(?:(?:UK|London|Member|Members'?|Advance)\s+)?Preview` + prefixSep),
		EventType: model.EventPreview,
	},
	{
		Name:      "premiere_prefix",
		Pattern:   regexp.MustCompile(`(?i)^\s*(?:(?:UK|London|European|World)\s+)?Premiere` + prefixSep),
		EventType: model.EventPremiere,
	},
	{
		Name:    "club_prefix",
		Pattern: regexp.MustCompile(`(?i)^\s*(?:` + alt(clubPrefixes) + `)` + prefixSep),
	},
	{
		Name:    "format_prefix",
		Pattern: regexp.MustCompile(`(?i)^\s*(?:` + alt(formatPrefixes) + `)` + prefixSep),
	},
}

// LeadingMarker matches a bare leading "Preview"/"Premiere" word the guide
// prints before a title without a delimiter.
var LeadingMarker = regexp.MustCompile(`(?i)^\s*(?:(?:UK|London)\s+)?(Preview|Premiere)\b[\s:–-]*`)
