package bfi

import (
	"strings"

	"github.com/iliyamo/pictures-london/internal/model"
)

// venueTokens maps the auditorium labels printed in the guide onto the cinema
// that houses them. Unknown labels fall back to Southbank.
var venueTokens = map[string]string{
	"NFT1":           model.BFIVenues.Primary.ID,
	"NFT2":           model.BFIVenues.Primary.ID,
	"NFT3":           model.BFIVenues.Primary.ID,
	"NFT4":           model.BFIVenues.Primary.ID,
	"STUDIO":         model.BFIVenues.Primary.ID,
	"BLUE ROOM":      model.BFIVenues.Primary.ID,
	"LIBRARY":        model.BFIVenues.Primary.ID,
	"REUBEN LIBRARY": model.BFIVenues.Primary.ID,
	"IMAX":           model.BFIVenues.Secondary.ID,
	"BFI IMAX":       model.BFIVenues.Secondary.ID,
}

// normalizeScreen upper-cases a screen label and closes the "NFT 1" gap some
// pages print.
func normalizeScreen(token string) string {
	t := strings.ToUpper(strings.Join(strings.Fields(token), " "))
	if strings.HasPrefix(t, "NFT ") {
		t = "NFT" + strings.TrimPrefix(t, "NFT ")
	}
	return t
}

// VenueForScreen returns the cinema id for a screen label.
func VenueForScreen(token string) string {
	if id, ok := venueTokens[normalizeScreen(token)]; ok {
		return id
	}
	return model.BFIVenues.Primary.ID
}
