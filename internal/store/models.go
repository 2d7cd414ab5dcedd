package store

import (
	"time"
)

// Team is one side of a matchup as extracted from a schedule source.
type Team struct {
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	Record       string `json:"record"` // "W-L", "0-0" when unknown
}

// Game represents a single scheduled MLB game.
// ID is derived from the matchup ("<away-abbr>-<home-abbr>", lowercase) and
// is unique within a scrape batch.
type Game struct {
	ID        string    `json:"id"`
	HomeTeam  Team      `json:"home_team"`
	AwayTeam  Team      `json:"away_team"`
	GameTime  time.Time `json:"game_time"` // always UTC
	Venue     string    `json:"venue"`
	ScrapedAt time.Time `json:"scraped_at"`

	// Synthetic marks games that came from the built-in sample set rather
	// than a real source, so consumers can tell fallback data apart.
	Synthetic bool `json:"synthetic,omitempty"`
}

// PredictionSet holds one prediction per provider for a single game.
// Every known provider has an entry; a failed provider call resolves to
// heuristic fallback text rather than an absent key.
type PredictionSet struct {
	GameID      string            `json:"game_id"`
	ByProvider  map[string]string `json:"by_provider"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// PredictionRecord is the persisted form of a game's predictions.
// Keyed uniquely by GameID; repeated runs for the same game upsert in place.
type PredictionRecord struct {
	GameID      string            `json:"game_id" db:"game_id"`
	GameDate    time.Time         `json:"game_date" db:"game_date"`
	HomeTeam    string            `json:"home_team" db:"home_team"`
	AwayTeam    string            `json:"away_team" db:"away_team"`
	Venue       string            `json:"venue" db:"venue"`
	Predictions map[string]string `json:"predictions" db:"predictions"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" db:"updated_at"`
}
