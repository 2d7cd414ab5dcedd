package predict

import (
	"fmt"
	"strings"
	"testing"

	"github.com/fortuna/augur/internal/store"
)

func lopsidedGame() store.Game {
	return store.Game{
		ID:       "bos-nyy",
		AwayTeam: store.Team{Name: "Boston Red Sox", Abbreviation: "BOS", Record: "50-10"},
		HomeTeam: store.Team{Name: "New York Yankees", Abbreviation: "NYY", Record: "10-50"},
	}
}

func TestFallbackWinnerIsDeterministic(t *testing.T) {
	game := lopsidedGame()

	// 50-10 away vs 10-50 home: the away side wins even with the home
	// bonus, on every invocation.
	for i := 0; i < 20; i++ {
		text := Fallback(ProviderOpenAI, game)
		lines := strings.SplitN(text, "\n", 2)
		if len(lines) != 2 {
			t.Fatalf("expected score line plus justification, got %q", text)
		}

		var awayScore, homeScore int
		if _, err := fmt.Sscanf(lines[0], "Boston Red Sox - New York Yankees: %d-%d", &awayScore, &homeScore); err != nil {
			t.Fatalf("unparseable score line %q: %v", lines[0], err)
		}
		if awayScore <= homeScore {
			t.Fatalf("away team should win, got %d-%d", awayScore, homeScore)
		}
		if awayScore < 3 || awayScore > 6 || homeScore < 1 || homeScore > 3 {
			t.Fatalf("score out of range: %d-%d", awayScore, homeScore)
		}
	}
}

func TestFallbackHomeBonusBreaksTies(t *testing.T) {
	game := store.Game{
		AwayTeam: store.Team{Name: "Chicago Cubs", Record: "40-40"},
		HomeTeam: store.Team{Name: "St. Louis Cardinals", Record: "40-40"},
	}

	text := Fallback(ProviderGemini, game)
	if !strings.Contains(text, "St. Louis Cardinals taking this one") {
		t.Fatalf("home team should win an even matchup, got %q", text)
	}
}

func TestFallbackJustificationPerProvider(t *testing.T) {
	game := lopsidedGame()

	tests := []struct {
		provider string
		marker   string
	}{
		{ProviderOpenAI, "win probability"},
		{ProviderClaude, "Statistical analysis"},
		{ProviderGemini, "Season form"},
		{ProviderDeepSeek, "Comparing win percentages"},
		{"mystery", "stronger record"},
	}

	for _, tt := range tests {
		text := Fallback(tt.provider, game)
		if !strings.Contains(text, tt.marker) {
			t.Errorf("%s fallback missing %q: %q", tt.provider, tt.marker, text)
		}
	}
}

func TestWinFraction(t *testing.T) {
	tests := []struct {
		record string
		want   float64
	}{
		{"50-10", 50.0 / 60.0},
		{"0-0", 0.5},
		{"", 0.5},
		{"garbage", 0.5},
		{"10-x", 0.5},
		{" 30-30 ", 0.5},
	}

	for _, tt := range tests {
		if got := winFraction(tt.record); got != tt.want {
			t.Errorf("winFraction(%q) = %v, want %v", tt.record, got, tt.want)
		}
	}
}
