package model

import "time"

// Event types attached to a screening when the listing advertises more than
// the film itself.
const (
	EventQandA      = "q_and_a"
	EventIntro      = "intro"
	EventDiscussion = "discussion"
	EventPreview    = "preview"
	EventPremiere   = "premiere"
)

// RawScreening is the intermediate record every ingestion source produces.
// It is built fresh on each parse, handed to the importer and then thrown
// away; only the storage layer turns it into a persisted screening row.
//
// Fields:
//
//	FilmTitle      – title as printed by the source, possibly noisy.
//	Datetime       – absolute start instant (London wall clock resolved).
//	Screen         – venue-internal auditorium label ("NFT1", "IMAX").
//	Format         – projection format when known ("35mm", "Digital 4K").
//	BookingURL     – required; also a venue disambiguation signal.
//	EventType      – one of the Event* constants, empty for a plain show.
//	SourceID       – provenance / idempotency key.
//	Year, Director – optional hints for downstream metadata matching.
//	CanonicalTitle – optional hint set by title enrichment; storage falls
//	                 back to a normalised FilmTitle when empty.
type RawScreening struct {
	FilmTitle      string    `json:"film_title"`
	Datetime       time.Time `json:"datetime"`
	Screen         string    `json:"screen,omitempty"`
	Format         string    `json:"format,omitempty"`
	BookingURL     string    `json:"booking_url"`
	EventType      string    `json:"event_type,omitempty"`
	SourceID       string    `json:"source_id,omitempty"`
	Year           int       `json:"year,omitempty"`
	Director       string    `json:"director,omitempty"`
	CanonicalTitle string    `json:"canonical_title,omitempty"`
}

// SaveResult is what the storage collaborator reports for one saveScreenings
// call. Individual record failures are counted, not returned as errors.
type SaveResult struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

// Add accumulates another partition's result into r.
func (r *SaveResult) Add(o SaveResult) {
	r.Added += o.Added
	r.Updated += o.Updated
	r.Failed += o.Failed
}

// ScreeningRow is a persisted screening joined with its cinema, as returned
// by the public listing endpoint.
type ScreeningRow struct {
	ID         uint64    `json:"id"`
	CinemaID   string    `json:"cinema_id"`
	Cinema     string    `json:"cinema"`
	FilmID     uint64    `json:"film_id"`
	FilmTitle  string    `json:"film_title"`
	StartsAt   time.Time `json:"starts_at"`
	Screen     string    `json:"screen,omitempty"`
	Format     string    `json:"format,omitempty"`
	BookingURL string    `json:"booking_url"`
	EventType  string    `json:"event_type,omitempty"`
}

// CinemaActivity summarises what storage knows about one cinema's listings at
// a point in time. The health monitor scores cinemas from these rows.
type CinemaActivity struct {
	CinemaID        string
	Name            string
	LastUpdatedAt   time.Time // most recent screening insert/update; zero if none
	UpcomingWeek    int       // screenings starting in the next 7 days
	TrailingFourWks int       // screenings that started in the previous 28 days
}
