package predict

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/fortuna/augur/internal/store"
)

// homeFieldBonus is added to the home team's win fraction before the
// sides are compared.
const homeFieldBonus = 0.05

// Fallback produces a plausible score line and a provider-flavored
// justification from nothing but the teams' season records. It is used
// whenever a provider has no credential or its call fails terminally.
// Winner selection is deterministic for fixed records; only the score
// magnitudes are randomized.
func Fallback(provider string, game store.Game) string {
	awayFrac := winFraction(game.AwayTeam.Record)
	homeFrac := winFraction(game.HomeTeam.Record)
	homeAdj := homeFrac + homeFieldBonus

	homeWins := homeAdj >= awayFrac

	winnerScore := 3 + rand.Intn(4) // 3..6
	loserScore := 1 + rand.Intn(3)  // 1..3

	awayScore, homeScore := winnerScore, loserScore
	winner, loser := game.AwayTeam.Name, game.HomeTeam.Name
	winnerFrac := awayFrac
	if homeWins {
		awayScore, homeScore = loserScore, winnerScore
		winner, loser = game.HomeTeam.Name, game.AwayTeam.Name
		winnerFrac = homeAdj
	}

	winProb := 50.0
	if total := homeAdj + awayFrac; total > 0 {
		winProb = winnerFrac / total * 100
	}

	line := fmt.Sprintf("%s - %s: %d-%d", game.AwayTeam.Name, game.HomeTeam.Name, awayScore, homeScore)
	return line + "\n" + justification(provider, winner, loser, winProb)
}

// justification returns the per-provider canned reasoning sentence.
func justification(provider, winner, loser string, winProb float64) string {
	switch provider {
	case ProviderOpenAI:
		return fmt.Sprintf("The model estimates a %.0f%% win probability for the %s based on season records and home-field advantage.", winProb, winner)
	case ProviderClaude:
		return fmt.Sprintf("Statistical analysis of the season records favors the %s over the %s in this matchup.", winner, loser)
	case ProviderGemini:
		return fmt.Sprintf("Season form and the home-field edge point to the %s taking this one.", winner)
	case ProviderDeepSeek:
		return fmt.Sprintf("Comparing win percentages gives the %s a clear statistical edge over the %s.", winner, loser)
	default:
		return fmt.Sprintf("The %s hold the stronger record and are favored to win.", winner)
	}
}

// winFraction parses a "W-L" record into a win fraction. Malformed records
// coerce to 0-0, and zero total decisions default to 0.5.
func winFraction(record string) float64 {
	wins, losses := parseRecord(record)
	total := wins + losses
	if total == 0 {
		return 0.5
	}
	return float64(wins) / float64(total)
}

// parseRecord splits "W-L" into numeric wins and losses; anything
// malformed reads as zero.
func parseRecord(record string) (int, int) {
	parts := strings.SplitN(strings.TrimSpace(record), "-", 2)
	if len(parts) != 2 {
		return 0, 0
	}
	wins, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	losses, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return 0, 0
	}
	return wins, losses
}
