package model

// VenueKey partitions a multi-site cinema into its logical venues. It is
// folded into the dedup key and decides which cinema a screening is saved
// under.
type VenueKey string

const (
	VenuePrimary   VenueKey = "primary-site"
	VenueSecondary VenueKey = "secondary-site"
)

// Venue is the cinema record the importer makes sure exists before saving
// screenings against it. ID is the stable slug used as cinemas.id.
type Venue struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	ShortName string   `json:"short_name"`
	Website   string   `json:"website"`
	Address   string   `json:"address"`
	Features  []string `json:"features"`
}

// VenueSet maps each venue key onto the venue saved for it.
type VenueSet struct {
	Primary   Venue
	Secondary Venue
}

// ForKey returns the venue for k, defaulting to the primary venue.
func (s VenueSet) ForKey(k VenueKey) Venue {
	if k == VenueSecondary {
		return s.Secondary
	}
	return s.Primary
}

// All lists the venues in primary, secondary order.
func (s VenueSet) All() []Venue {
	return []Venue{s.Primary, s.Secondary}
}

// BFIVenues is the two-site configuration for BFI Southbank and BFI IMAX.
var BFIVenues = VenueSet{
	Primary: Venue{
		ID:        "bfi-southbank",
		Name:      "BFI Southbank",
		ShortName: "BFI",
		Website:   "https://whatson.bfi.org.uk",
		Address:   "Belvedere Road, South Bank, London SE1 8XT",
		Features:  []string{"repertory", "35mm", "70mm", "bar", "accessible"},
	},
	Secondary: Venue{
		ID:        "bfi-imax",
		Name:      "BFI IMAX",
		ShortName: "BFI IMAX",
		Website:   "https://www.bfi.org.uk/bfi-imax",
		Address:   "1 Charlie Chaplin Walk, South Bank, London SE1 8XR",
		Features:  []string{"imax", "70mm", "laser", "accessible"},
	},
}
