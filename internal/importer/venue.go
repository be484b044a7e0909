package importer

import (
	"net/url"
	"strings"
	"time"

	"github.com/iliyamo/pictures-london/internal/model"
	"github.com/iliyamo/pictures-london/internal/utils"
)

// DefaultSecondaryMarker identifies the secondary site in screen labels and
// booking URLs.
const DefaultSecondaryMarker = "imax"

// ResolveVenueKey decides which venue a screening belongs to. The screen
// label is checked first, then the booking URL's host and path segments.
// Anything unrecognised stays on the primary venue.
func ResolveVenueKey(screen, bookingURL, marker string) model.VenueKey {
	if marker == "" {
		marker = DefaultSecondaryMarker
	}
	marker = strings.ToLower(marker)
	if strings.Contains(strings.ToLower(screen), marker) {
		return model.VenueSecondary
	}
	// A URL without a scheme parses with an empty host and the host left
	// in the first path segment, so the segment walk still sees it.
	if u, err := url.Parse(bookingURL); err == nil {
		if u.Host != "" && strings.Contains(strings.ToLower(u.Host), marker) {
			return model.VenueSecondary
		}
		for _, seg := range strings.Split(u.Path, "/") {
			if strings.Contains(strings.ToLower(seg), marker) {
				return model.VenueSecondary
			}
		}
	}
	return model.VenuePrimary
}

// dedupKey identifies one showing across sources: venue, title, start
// minute and screen.
func dedupKey(s model.RawScreening, marker string) string {
	return strings.Join([]string{
		string(ResolveVenueKey(s.Screen, s.BookingURL, marker)),
		utils.NormalizeKey(s.FilmTitle),
		s.Datetime.UTC().Truncate(time.Minute).Format(time.RFC3339),
		strings.ReplaceAll(utils.NormalizeKey(s.Screen), " ", ""),
	}, "|")
}

// Merge combines the guide and changes screenings. Entries sharing a dedup
// key collapse to one, and the changes entry replaces the guide entry.
// Output keeps first-seen order.
func Merge(guide, changes []model.RawScreening, marker string) []model.RawScreening {
	index := make(map[string]int, len(guide)+len(changes))
	out := make([]model.RawScreening, 0, len(guide)+len(changes))
	put := func(s model.RawScreening) {
		k := dedupKey(s, marker)
		if i, ok := index[k]; ok {
			out[i] = s
			return
		}
		index[k] = len(out)
		out = append(out, s)
	}
	for _, s := range guide {
		put(s)
	}
	for _, s := range changes {
		put(s)
	}
	return out
}

// partition splits screenings by resolved venue key.
func partition(screenings []model.RawScreening, marker string) map[model.VenueKey][]model.RawScreening {
	parts := make(map[model.VenueKey][]model.RawScreening, 2)
	for _, s := range screenings {
		k := ResolveVenueKey(s.Screen, s.BookingURL, marker)
		parts[k] = append(parts[k], s)
	}
	return parts
}

// partitionLabel turns a venue id such as "bfi-southbank" into the label
// used in SAVE_<LABEL>_FAILED codes.
func partitionLabel(v model.Venue) string {
	id := v.ID
	if i := strings.Index(id, "-"); i >= 0 && i < len(id)-1 {
		id = id[i+1:]
	}
	return strings.ToUpper(strings.ReplaceAll(id, "-", "_"))
}
