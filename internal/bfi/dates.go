package bfi

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

// London is the zone every guide time is printed in.
var London = mustLoad("Europe/London")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

var monthIndex = map[string]time.Month{
	"JAN": time.January, "FEB": time.February, "MAR": time.March,
	"APR": time.April, "MAY": time.May, "JUN": time.June,
	"JUL": time.July, "AUG": time.August, "SEP": time.September,
	"OCT": time.October, "NOV": time.November, "DEC": time.December,
}

// parseMonth accepts "Jan", "JANUARY", "Sept" and so on.
func parseMonth(s string) (time.Month, bool) {
	s = strings.ToUpper(strings.TrimSuffix(strings.TrimSpace(s), "."))
	if len(s) < 3 {
		return 0, false
	}
	m, ok := monthIndex[s[:3]]
	return m, ok
}

const fullMonths = `JANUARY|FEBRUARY|MARCH|APRIL|MAY|JUNE|JULY|AUGUST|SEPTEMBER|OCTOBER|NOVEMBER|DECEMBER`

var coverageRe = regexp.MustCompile(`(?i)\b(` + fullMonths + `)\b(?:\s*(?:[-–/&]|and|to)?\s*(` + fullMonths + `)\b)?\s+(20\d{2})\b`)

// Coverage is the period a guide declares on its cover, e.g. "December 2025 –
// January 2026". Year is the year printed; a period that wraps the new year
// starts in Year-1.
type Coverage struct {
	Year       int
	StartMonth time.Month
	EndMonth   time.Month
}

func (c Coverage) wraps() bool { return c.EndMonth != 0 && c.EndMonth < c.StartMonth }

// yearFor returns the year a month printed in this guide belongs to.
func (c Coverage) yearFor(m time.Month) int {
	if c.wraps() && m >= c.StartMonth {
		return c.Year - 1
	}
	return c.Year
}

// DetectCoverage looks for the coverage line near the top of the guide text,
// then in the document label (usually the file name).
func DetectCoverage(text, label string) (Coverage, bool) {
	lines := strings.SplitN(text, "\n", 41)
	if len(lines) > 40 {
		lines = lines[:40]
	}
	candidates := append(lines, strings.NewReplacer("-", " ", "_", " ").Replace(label))
	for _, l := range candidates {
		m := coverageRe.FindStringSubmatch(l)
		if m == nil {
			continue
		}
		start, _ := parseMonth(m[1])
		end := start
		if m[2] != "" {
			end, _ = parseMonth(m[2])
		}
		year, _ := strconv.Atoi(m[3])
		return Coverage{Year: year, StartMonth: start, EndMonth: end}, true
	}
	return Coverage{}, false
}

// resolveDate builds the London wall-clock instant for a day/month/time with
// no printed year. The year comes from the guide coverage when known, else the
// current year; a month more than one calendar month behind now is rolled
// into the following year.
func resolveDate(day int, month time.Month, hour, minute int, cov *Coverage, now time.Time) time.Time {
	nowLocal := now.In(London)
	year := nowLocal.Year()
	if cov != nil && cov.Year > 0 {
		year = cov.yearFor(month)
	}
	behind := (nowLocal.Year()*12 + int(nowLocal.Month())) - (year*12 + int(month))
	if behind > 1 {
		year++
	}
	return time.Date(year, month, day, hour, minute, 0, 0, London)
}
