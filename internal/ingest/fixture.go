package ingest

import (
	"time"

	"github.com/fortuna/augur/internal/store"
)

// SampleSchedule returns the built-in synthetic schedule used when every
// real source has failed. Every game carries the Synthetic marker so
// downstream consumers and tests can tell it apart from scraped data.
// Records are fixed so the fallback predictor stays deterministic in tests.
func SampleSchedule(now time.Time) []store.Game {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.UTC
	}
	local := now.In(loc)
	at := func(hour int) time.Time {
		return time.Date(local.Year(), local.Month(), local.Day(), hour, 10, 0, 0, loc).UTC()
	}

	return []store.Game{
		{
			AwayTeam:  store.Team{Name: "Boston Red Sox", Abbreviation: "BOS", Record: "45-35"},
			HomeTeam:  store.Team{Name: "New York Yankees", Abbreviation: "NYY", Record: "50-30"},
			GameTime:  at(19),
			Venue:     "Yankee Stadium",
			Synthetic: true,
		},
		{
			AwayTeam:  store.Team{Name: "San Francisco Giants", Abbreviation: "SFG", Record: "40-40"},
			HomeTeam:  store.Team{Name: "Los Angeles Dodgers", Abbreviation: "LAD", Record: "52-28"},
			GameTime:  at(22),
			Venue:     "Dodger Stadium",
			Synthetic: true,
		},
		{
			AwayTeam:  store.Team{Name: "Chicago Cubs", Abbreviation: "CHC", Record: "42-38"},
			HomeTeam:  store.Team{Name: "St. Louis Cardinals", Abbreviation: "STL", Record: "38-42"},
			GameTime:  at(14),
			Venue:     "Busch Stadium",
			Synthetic: true,
		},
	}
}
