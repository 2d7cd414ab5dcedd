package mlb

import (
	"fmt"
	"time"

	"github.com/fortuna/augur/internal/store"
)

// MapGames converts a schedule response into store games using the team
// directory for abbreviations. Games whose time fails to parse keep the
// supplied current instant. No text parsing is involved; records and venue
// come straight from the API.
func MapGames(resp *ScheduleResponse, directory map[int]TeamInfo, now time.Time) []store.Game {
	if resp == nil || len(resp.Dates) == 0 {
		return nil
	}

	var games []store.Game
	for _, g := range resp.Dates[0].Games {
		gameTime := now.UTC()
		if t, err := time.Parse(time.RFC3339, g.GameDate); err == nil {
			gameTime = t.UTC()
		}

		games = append(games, store.Game{
			AwayTeam: mapTeam(g.Teams.Away, directory),
			HomeTeam: mapTeam(g.Teams.Home, directory),
			GameTime: gameTime,
			Venue:    g.Venue.Name,
		})
	}
	return games
}

// mapTeam builds a store.Team from one schedule side plus the directory.
func mapTeam(side GameTeamSide, directory map[int]TeamInfo) store.Team {
	team := store.Team{
		Name:   side.Team.Name,
		Record: fmt.Sprintf("%d-%d", side.LeagueRecord.Wins, side.LeagueRecord.Losses),
	}
	if info, ok := directory[side.Team.ID]; ok {
		team.Abbreviation = info.Abbreviation
	}
	return team
}
