package mlb

// Minimal slices of the MLB Stats API response envelopes; only the fields
// the ingester reads are declared.

// ScheduleResponse is the /schedule envelope.
type ScheduleResponse struct {
	Dates []ScheduleDate `json:"dates"`
}

// ScheduleDate groups the games listed for one calendar date.
type ScheduleDate struct {
	Date  string         `json:"date"`
	Games []ScheduleGame `json:"games"`
}

// ScheduleGame is one game entry in the schedule.
type ScheduleGame struct {
	GamePk   int64     `json:"gamePk"`
	GameDate string    `json:"gameDate"` // ISO-8601, already UTC
	Teams    GameTeams `json:"teams"`
	Venue    Venue     `json:"venue"`
}

// GameTeams pairs both sides of a scheduled game.
type GameTeams struct {
	Away GameTeamSide `json:"away"`
	Home GameTeamSide `json:"home"`
}

// GameTeamSide carries one side's team reference and league record.
type GameTeamSide struct {
	LeagueRecord LeagueRecord `json:"leagueRecord"`
	Team         TeamRef      `json:"team"`
}

// LeagueRecord is a side's season win/loss record.
type LeagueRecord struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

// TeamRef identifies a team by stats-API id and display name.
type TeamRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Venue names the ballpark.
type Venue struct {
	Name string `json:"name"`
}

// TeamsResponse is the /teams directory envelope.
type TeamsResponse struct {
	Teams []TeamInfo `json:"teams"`
}

// TeamInfo is one directory entry mapping a team id to its identifiers.
type TeamInfo struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}
