package mlb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const scheduleJSON = `{
	"dates": [
		{
			"date": "2025-06-15",
			"games": [
				{
					"gamePk": 745001,
					"gameDate": "2025-06-15T23:05:00Z",
					"teams": {
						"away": {
							"leagueRecord": {"wins": 45, "losses": 30},
							"team": {"id": 111, "name": "Boston Red Sox"}
						},
						"home": {
							"leagueRecord": {"wins": 50, "losses": 25},
							"team": {"id": 147, "name": "New York Yankees"}
						}
					},
					"venue": {"name": "Yankee Stadium"}
				}
			]
		}
	]
}`

const teamsJSON = `{
	"teams": [
		{"id": 111, "name": "Boston Red Sox", "abbreviation": "BOS"},
		{"id": 147, "name": "New York Yankees", "abbreviation": "NYY"}
	]
}`

func newStatsServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/schedule", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("sportId") != "1" {
			t.Errorf("missing sportId on schedule request: %s", r.URL.RawQuery)
		}
		if r.URL.Query().Get("date") == "" {
			t.Errorf("missing date on schedule request: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(scheduleJSON))
	})
	mux.HandleFunc("/teams", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(teamsJSON))
	})
	return httptest.NewServer(mux)
}

func TestFetchSchedule(t *testing.T) {
	server := newStatsServer(t)
	defer server.Close()

	client := New(server.URL)
	resp, err := client.FetchSchedule(context.Background(), time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("FetchSchedule: %v", err)
	}

	if len(resp.Dates) != 1 || len(resp.Dates[0].Games) != 1 {
		t.Fatalf("unexpected schedule shape: %+v", resp)
	}
	g := resp.Dates[0].Games[0]
	if g.Teams.Away.Team.Name != "Boston Red Sox" || g.Teams.Home.Team.Name != "New York Yankees" {
		t.Fatalf("unexpected teams: %+v", g.Teams)
	}
	if g.Venue.Name != "Yankee Stadium" {
		t.Fatalf("unexpected venue %q", g.Venue.Name)
	}
}

func TestFetchTeams(t *testing.T) {
	server := newStatsServer(t)
	defer server.Close()

	client := New(server.URL)
	directory, err := client.FetchTeams(context.Background())
	if err != nil {
		t.Fatalf("FetchTeams: %v", err)
	}

	if len(directory) != 2 {
		t.Fatalf("expected 2 teams, got %d", len(directory))
	}
	if directory[111].Abbreviation != "BOS" || directory[147].Abbreviation != "NYY" {
		t.Fatalf("unexpected directory: %+v", directory)
	}
}

func TestFetchScheduleErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusBadGateway)
	}))
	defer server.Close()

	client := New(server.URL)
	if _, err := client.FetchSchedule(context.Background(), time.Now()); err == nil {
		t.Fatal("expected error on non-200 status")
	}
}

func TestMapGames(t *testing.T) {
	server := newStatsServer(t)
	defer server.Close()

	client := New(server.URL)
	ctx := context.Background()
	resp, err := client.FetchSchedule(ctx, time.Now())
	if err != nil {
		t.Fatalf("FetchSchedule: %v", err)
	}
	directory, err := client.FetchTeams(ctx)
	if err != nil {
		t.Fatalf("FetchTeams: %v", err)
	}

	games := MapGames(resp, directory, time.Now())
	if len(games) != 1 {
		t.Fatalf("expected 1 game, got %d", len(games))
	}

	g := games[0]
	if g.AwayTeam.Abbreviation != "BOS" || g.HomeTeam.Abbreviation != "NYY" {
		t.Fatalf("unexpected abbreviations %s / %s", g.AwayTeam.Abbreviation, g.HomeTeam.Abbreviation)
	}
	if g.AwayTeam.Record != "45-30" || g.HomeTeam.Record != "50-25" {
		t.Fatalf("unexpected records %s / %s", g.AwayTeam.Record, g.HomeTeam.Record)
	}
	want := time.Date(2025, 6, 15, 23, 5, 0, 0, time.UTC)
	if !g.GameTime.Equal(want) {
		t.Fatalf("game time %v, want %v", g.GameTime, want)
	}
	if g.Venue != "Yankee Stadium" {
		t.Fatalf("unexpected venue %q", g.Venue)
	}
}

func TestMapGamesEmptyResponse(t *testing.T) {
	if games := MapGames(nil, nil, time.Now()); games != nil {
		t.Fatalf("expected nil for nil response, got %v", games)
	}
	if games := MapGames(&ScheduleResponse{}, nil, time.Now()); games != nil {
		t.Fatalf("expected nil for empty dates, got %v", games)
	}
}

func TestMapGamesBadDateKeepsNow(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	resp := &ScheduleResponse{Dates: []ScheduleDate{{
		Games: []ScheduleGame{{GameDate: "not a timestamp"}},
	}}}

	games := MapGames(resp, nil, now)
	if len(games) != 1 {
		t.Fatalf("expected 1 game, got %d", len(games))
	}
	if !games[0].GameTime.Equal(now) {
		t.Fatalf("expected fallback to now, got %v", games[0].GameTime)
	}
}
