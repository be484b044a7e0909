package bfi

import (
	"net/url"
	"strings"

	"github.com/iliyamo/pictures-london/internal/model"
	"github.com/iliyamo/pictures-london/internal/patterns"
	"github.com/iliyamo/pictures-london/internal/title"
	"github.com/iliyamo/pictures-london/internal/utils"
)

const searchBase = "https://whatson.bfi.org.uk/Online/default.asp?BOset::WScontent::SearchCriteria::search_criteria="

// eventSuffixes are the trailing addenda the guide prints on event
// screenings. Other suffixes are left for the title extractor.
var eventSuffixes = map[string]bool{"q_and_a": true, "intro": true, "discussion": true}

// displayTitle strips event cues from a guide heading and reports the event
// they signal. A leading Preview/Premiere marker wins over a trailing cue.
// Cues are classified before the basic cleanup, which would drop "+ Q&A"
// style addenda unread.
func displayTitle(raw string) (string, string) {
	t := title.CleanCruft(raw)
	event := ""
	if m := patterns.LeadingMarker.FindStringSubmatch(t); m != nil {
		rest := strings.TrimSpace(t[len(m[0]):])
		if rest != "" {
			t = rest
			if strings.EqualFold(m[1], "premiere") {
				event = model.EventPremiere
			} else {
				event = model.EventPreview
			}
		}
	}
	for _, r := range patterns.TitleSuffixes {
		if !eventSuffixes[r.Name] {
			continue
		}
		loc := r.Pattern.FindStringIndex(t)
		if loc == nil || loc[0] == 0 {
			continue
		}
		t = strings.TrimSpace(t[:loc[0]])
		if event == "" {
			event = r.EventType
		}
	}
	return title.CleanBasic(t), event
}

// BookingURL is the what's-on search page for a title; the guide carries no
// per-screening links.
func BookingURL(displayTitle string) string {
	return searchBase + url.QueryEscape(displayTitle)
}

func slug(s string) string {
	if sl := utils.Slugify(s); sl != "" {
		return sl
	}
	return "untitled"
}
