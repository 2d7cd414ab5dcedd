package predict

import (
	"fmt"

	"github.com/fortuna/augur/internal/store"
)

// BuildPrompt renders the shared prediction prompt for a game. Every
// provider receives the same text; the output contract keeps the first
// line machine-parseable.
func BuildPrompt(game store.Game) string {
	return fmt.Sprintf(
		`Predict the final score of this MLB game.

Away: %s (record %s)
Home: %s (record %s)
First pitch: %s
Venue: %s

Answer in exactly this format:
Line 1: "%s - %s: X-Y" where X is the away score and Y is the home score.
Then 2-3 sentences explaining your reasoning.`,
		game.AwayTeam.Name, game.AwayTeam.Record,
		game.HomeTeam.Name, game.HomeTeam.Record,
		game.GameTime.Format("2006-01-02 15:04 MST"),
		game.Venue,
		game.AwayTeam.Name, game.HomeTeam.Name,
	)
}
