package web

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// The scoreboard page reports wall-clock US Eastern times with no offset.
// Conversions go through America/New_York so the EDT/EST boundary for the
// specific calendar date is respected.

var (
	// Matches "MM/DD/YYYY HH:MM AM" and the page's glued variant
	// "MM/DD/YYYYHH:MM AM" with a 1-2 digit hour.
	dateTimePattern = regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4})\s*(\d{1,2}):(\d{2})\s*(AM|PM)`)
	datePattern     = regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4})`)
)

// eastern returns the US Eastern location, falling back to UTC if the
// timezone database is unavailable.
func eastern() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.UTC
	}
	return loc
}

// ParseEasternTimestamp converts a scraped time string to a UTC instant.
// Degradation order: full date+time match, then date-only at noon Eastern,
// then the supplied current instant.
func ParseEasternTimestamp(raw string, now time.Time) time.Time {
	loc := eastern()

	if m := dateTimePattern.FindStringSubmatch(raw); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		hour, _ := strconv.Atoi(m[4])
		minute, _ := strconv.Atoi(m[5])

		if strings.EqualFold(m[6], "PM") && hour != 12 {
			hour += 12
		}
		if strings.EqualFold(m[6], "AM") && hour == 12 {
			hour = 0
		}

		return time.Date(year, time.Month(month), day, hour, minute, 0, 0, loc).UTC()
	}

	if m := datePattern.FindStringSubmatch(raw); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		return time.Date(year, time.Month(month), day, 12, 0, 0, 0, loc).UTC()
	}

	return now.UTC()
}

// NoonEasternToday returns today's 12:00 PM Eastern as a UTC instant.
// Used by strategies that find a matchup but no usable time string.
func NoonEasternToday(now time.Time) time.Time {
	loc := eastern()
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 12, 0, 0, 0, loc).UTC()
}
