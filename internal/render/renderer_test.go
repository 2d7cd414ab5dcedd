package render

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/fortuna/augur/internal/store"
)

var dataScriptPattern = regexp.MustCompile(`(?s)<script id="augur-data" type="application/json">(.*?)</script>`)

func testGames() []store.Game {
	return []store.Game{{
		ID:       "bos-nyy",
		AwayTeam: store.Team{Name: "Boston Red Sox", Abbreviation: "BOS", Record: "45-30"},
		HomeTeam: store.Team{Name: "New York Yankees", Abbreviation: "NYY", Record: "50-25"},
		Venue:    "Yankee Stadium",
	}}
}

func testPredictions() []store.PredictionSet {
	return []store.PredictionSet{{
		GameID: "bos-nyy",
		ByProvider: map[string]string{
			"openai": "Boston Red Sox - New York Yankees: 4-2\nGood pitching.",
		},
	}}
}

func TestRenderCreatesPageFromSkeleton(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")
	r := NewRenderer(path)

	if err := r.Render(testGames(), testPredictions()); err != nil {
		t.Fatalf("Render: %v", err)
	}

	page, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}

	m := dataScriptPattern.FindSubmatch(page)
	if m == nil {
		t.Fatalf("no data script in page:\n%s", page)
	}

	var payload Payload
	if err := json.Unmarshal(m[1], &payload); err != nil {
		t.Fatalf("embedded payload is not valid JSON: %v", err)
	}
	if len(payload.Games) != 1 || payload.Games[0].ID != "bos-nyy" {
		t.Fatalf("unexpected payload games: %+v", payload.Games)
	}
	if payload.Predictions[0].ByProvider["openai"] == "" {
		t.Fatal("payload missing prediction text")
	}
	if payload.GeneratedAt.IsZero() {
		t.Fatal("payload missing generated_at")
	}
}

func TestRenderReplacesExistingBlockInPlace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")
	r := NewRenderer(path)

	if err := r.Render(testGames(), testPredictions()); err != nil {
		t.Fatalf("first render: %v", err)
	}
	if err := r.Render(testGames(), testPredictions()); err != nil {
		t.Fatalf("second render: %v", err)
	}

	page, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}

	if n := strings.Count(string(page), dataBegin); n != 1 {
		t.Fatalf("expected exactly 1 data block, found %d", n)
	}
	if n := len(regexp.MustCompile(`<!-- augur:updated `).FindAll(page, -1)); n != 1 {
		t.Fatalf("expected exactly 1 updated marker, found %d", n)
	}
	if strings.Contains(string(page), "augur:updated never") {
		t.Fatal("updated marker was not refreshed")
	}
}

func TestRenderPreservesSurroundingMarkup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")
	custom := `<html><body>
<h1>Custom Page</h1>
<!-- augur:data:begin -->
<script id="augur-data" type="application/json">{}</script>
<!-- augur:data:end -->
<!-- augur:updated never -->
</body></html>`
	if err := os.WriteFile(path, []byte(custom), 0o644); err != nil {
		t.Fatalf("seeding page: %v", err)
	}

	r := NewRenderer(path)
	if err := r.Render(testGames(), testPredictions()); err != nil {
		t.Fatalf("Render: %v", err)
	}

	page, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.Contains(string(page), "<h1>Custom Page</h1>") {
		t.Fatal("custom markup outside the data block was lost")
	}
}

func TestRenderFailsWithoutMarkers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")
	if err := os.WriteFile(path, []byte("<html><body>no markers</body></html>"), 0o644); err != nil {
		t.Fatalf("seeding page: %v", err)
	}

	r := NewRenderer(path)
	if err := r.Render(testGames(), testPredictions()); err == nil {
		t.Fatal("expected error for page without data markers")
	}
}
