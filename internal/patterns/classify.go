package patterns

import "regexp"

// PresentsQuoted extracts the quoted title from "X presents "Title"" listings.
var PresentsQuoted = regexp.MustCompile(`(?i)^.+?\bpresents?:?\s+["“”](.+?)["“”]`)

// SingAlong extracts the title from "Sing-A-Long-A Title" listings.
var SingAlong = regexp.MustCompile(`(?i)^sing-?a-?long(?:-?a)?\b\s*[-:–]?\s*(.+)$`)

// LiveBroadcast matches theatre/opera/exhibition broadcast prefixes; group 1
// is the production name.
var LiveBroadcast = regexp.MustCompile(`(?i)^\s*(?:NT Live|National Theatre Live|RBO(?: Live)?|Royal Ballet (?:and|&) Opera(?: Live)?|Royal Ballet(?: Live)?|Royal Opera(?: House)?(?: Live)?|ROH(?: Live)?|The Met:? Live in HD|Met Opera(?: Live)?|Exhibition on Screen|EOS|Bolshoi Ballet(?: Live)?|RSC Live|Globe on Screen|Andr[eé] Rieu)(?:\s*(?::|\s[-–|]\s)\s*|\s+)(\S.*)$`)

// Compilation matches festival short-programme abbreviations; group 1 is the
// programme name.
var Compilation = regexp.MustCompile(`(?i)^\s*(?:LSFF|LFF Shorts?|Flare Shorts?|Shorts Programme|Short Film Programme|Animation Shorts|Shorts Night|Shorts?)\s*(?::|\s[-–|]\s)\s*(\S.*)$`)

var nonFilm = regexp.MustCompile(`(?i)\b(?:quiz(?:zes)?|reading group|book club|comedy (?:night|club|show)|stand[- ]up comedy|karaoke|open mic|workshop|dj set|club night|life drawing|poetry (?:night|slam)|podcast (?:recording|live)|board games?|craft (?:session|club)|networking|drinks reception|members'? meeting|spoken word)\b`)

// IsNonFilm reports whether a listing is an event rather than a film
// screening (quizzes, reading groups, comedy nights and the like).
func IsNonFilm(s string) bool {
	return nonFilm.MatchString(s)
}

var franchise = regexp.MustCompile(`(?i)^\s*(?:Star Wars|Star Trek|Harry Potter|Indiana Jones|Mission|Pirates of the Caribbean|The Lord of the Rings|Lord of the Rings|The Hobbit|Mad Max|Kill Bill|The Hunger Games|Alien|Aliens|Blade Runner|Terminator \d|Terminator|Spider-Man|Batman|Dune|John Wick|Jurassic World|Wallace (?:&|and) Gromit|Monty Python|Evil Dead|Halloween|Toy Story|Planet of the Apes|Avengers|Guardians of the Galaxy|Captain America|Transformers|Hellraiser|The Matrix|Die Hard|Rocky|Rambo|Predator|The Exorcist|Friday the 13th|A Nightmare on Elm Street|Wicked|Inside Out \d|Deadpool|Kung Fu Panda|Despicable Me|Paddington|Shaun the Sheep|Pokémon|Pokemon|Dragon Ball|Demon Slayer|Jujutsu Kaisen|Godzilla|Ghostbusters|Bill & Ted|Bill and Ted|Borat|Tron|X-Men|Sex and the City|Downton Abbey|Mamma Mia|Ocean's|Frozen)\s*\d*\s*:`)

// IsFranchise reports whether s starts with a known multi-part franchise name
// followed by a colon, i.e. a colon that belongs to the real title.
func IsFranchise(s string) bool {
	return franchise.MatchString(s)
}

// ShortColonPrefix captures a short leading segment before a colon, the
// shape cinema strand prefixes take ("Cine Lit: ...").
var ShortColonPrefix = regexp.MustCompile(`^\s*([^:]{1,30}?)\s*:\s*\S`)

// TrailingYear matches a parenthesised year at the end of a title.
var TrailingYear = regexp.MustCompile(`\s*\((1[89]\d{2}|20\d{2})\)\s*$`)
