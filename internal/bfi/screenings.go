package bfi

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	dayPart    = `(MON|TUE|WED|THU|FRI|SAT|SUN)[A-Z]*\.?`
	monthPart  = `(JAN|FEB|MAR|APR|MAY|JUN|JUL|AUG|SEP|OCT|NOV|DEC)[A-Z]*\.?`
	timePart   = `(\d{1,2})[:.](\d{2})\s*(AM|PM)?`
	screenPart = `(NFT\s?[1-4]|BFI IMAX|IMAX|STUDIO|BLUE ROOM|REUBEN LIBRARY|LIBRARY)`
	accessPart = `((?:\s+(?:AD|DS|CC|BSL|HOH|RLX))*)`

	screeningCore = `\b` + dayPart + `\s+(\d{1,2})\s+` + monthPart + `\s+` + timePart + `\s+` + screenPart + accessPart + `\b`
)

var (
	// screeningLead detects a line that opens with a screening token.
	screeningLead = regexp.MustCompile(`(?i)^` + dayPart + `\s+\d{1,2}\s+` + monthPart + `\s+\d{1,2}[:.]\d{2}`)
	// screeningToken parses one "SAT 14 DEC 18:10 NFT1 AD" occurrence.
	screeningToken = regexp.MustCompile(`(?i)` + screeningCore)
)

// Screening is one dated showing of a parsed film.
type Screening struct {
	Day           string    `json:"day"`
	Date          int       `json:"date"`
	Month         string    `json:"month"`
	Time          string    `json:"time"`
	Screen        string    `json:"screen"`
	VenueID       string    `json:"venue_id"`
	Datetime      time.Time `json:"datetime"`
	Accessibility []string  `json:"accessibility,omitempty"`
}

func isScreeningLine(line string) bool {
	return screeningLead.MatchString(strings.TrimSpace(line))
}

// parseScreenings extracts every screening token in s. Guide lines may carry
// several tokens separated by ";" or ","; the changes page embeds them in
// running text. Tokens with impossible dates or times are skipped.
func parseScreenings(s string, cov *Coverage, now time.Time) []Screening {
	var out []Screening
	for _, m := range screeningToken.FindAllStringSubmatch(s, -1) {
		date, _ := strconv.Atoi(m[2])
		month, ok := parseMonth(m[3])
		if !ok || date < 1 || date > 31 {
			continue
		}
		hour, _ := strconv.Atoi(m[4])
		minute, _ := strconv.Atoi(m[5])
		switch strings.ToUpper(m[6]) {
		case "PM":
			if hour < 12 {
				hour += 12
			}
		case "AM":
			if hour == 12 {
				hour = 0
			}
		}
		if hour > 23 || minute > 59 {
			continue
		}
		at := resolveDate(date, month, hour, minute, cov, now)
		if at.Day() != date {
			// time.Date rolled an impossible date such as 31 FEB forward.
			continue
		}
		screen := normalizeScreen(m[7])
		out = append(out, Screening{
			Day:           strings.ToUpper(m[1]),
			Date:          date,
			Month:         strings.ToUpper(m[3]),
			Time:          strings.Join([]string{pad2(hour), pad2(minute)}, ":"),
			Screen:        screen,
			VenueID:       VenueForScreen(screen),
			Datetime:      at,
			Accessibility: strings.Fields(strings.ToUpper(m[8])),
		})
	}
	return out
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
