package ingest

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/fortuna/augur/internal/ingest/mlb"
	"github.com/fortuna/augur/internal/ingest/web"
	"github.com/fortuna/augur/internal/store"
	"github.com/fortuna/augur/internal/teams"
)

// PageFetcher fetches raw scoreboard HTML.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// ScheduleIngester produces today's schedule through a fixed cascade:
// scraped page strategies (table, card, free text), then the official
// stats API, then the built-in synthetic sample. It never fails; every
// failure mode degrades to the next source.
type ScheduleIngester struct {
	fetcher   PageFetcher
	parser    *web.Parser
	statsAPI  *mlb.Client
	resolver  *teams.Resolver
	sourceURL string
	now       func() time.Time
}

// NewScheduleIngester wires the scrape cascade together.
func NewScheduleIngester(fetcher PageFetcher, parser *web.Parser, statsAPI *mlb.Client, resolver *teams.Resolver, sourceURL string) *ScheduleIngester {
	return &ScheduleIngester{
		fetcher:   fetcher,
		parser:    parser,
		statsAPI:  statsAPI,
		resolver:  resolver,
		sourceURL: sourceURL,
		now:       time.Now,
	}
}

// Ingest returns today's games. The result is never empty: the synthetic
// sample backstops every other failure.
func (si *ScheduleIngester) Ingest(ctx context.Context) []store.Game {
	now := si.now()

	games := si.scrapePage(ctx, now)
	if len(games) == 0 {
		games = si.fetchFromStatsAPI(ctx, now)
	}
	if len(games) == 0 {
		log.Println("[ingester] ⚠️  all sources failed, serving built-in sample schedule")
		games = SampleSchedule(now)
	}

	return si.finalize(games, now)
}

// scrapePage fetches the scoreboard page and runs the structural strategy
// cascade. A fetch error is treated the same as zero results.
func (si *ScheduleIngester) scrapePage(ctx context.Context, now time.Time) []store.Game {
	html, err := si.fetcher.Fetch(ctx, si.sourceURL)
	if err != nil {
		log.Printf("[ingester] ⚠️  scoreboard fetch failed: %v (falling back to stats API)", err)
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		log.Printf("[ingester] ⚠️  scoreboard parse failed: %v (falling back to stats API)", err)
		return nil
	}

	strategies := []struct {
		name    string
		extract func(*goquery.Document, time.Time) []store.Game
	}{
		{"table", si.parser.ParseTable},
		{"card", si.parser.ParseCards},
		{"free-text", si.parser.ParseFreeText},
	}

	for _, s := range strategies {
		if games := s.extract(doc, now); len(games) > 0 {
			log.Printf("[ingester] ✓ %s strategy extracted %d games", s.name, len(games))
			return games
		}
	}

	log.Println("[ingester] ⚠️  no strategy extracted games from scoreboard page")
	return nil
}

// fetchFromStatsAPI pulls today's schedule from the official API.
func (si *ScheduleIngester) fetchFromStatsAPI(ctx context.Context, now time.Time) []store.Game {
	directory, err := si.statsAPI.FetchTeams(ctx)
	if err != nil {
		log.Printf("[ingester] ⚠️  stats API team directory failed: %v", err)
		directory = nil
	}

	resp, err := si.statsAPI.FetchSchedule(ctx, now)
	if err != nil {
		log.Printf("[ingester] ⚠️  stats API schedule failed: %v", err)
		return nil
	}

	games := mlb.MapGames(resp, directory, now)
	if len(games) > 0 {
		log.Printf("[ingester] ✓ stats API returned %d games", len(games))
	}
	return games
}

// finalize assigns derived ids, default venues and the scrape timestamp.
// Teams missing an abbreviation get one through the resolver.
func (si *ScheduleIngester) finalize(games []store.Game, now time.Time) []store.Game {
	for i := range games {
		g := &games[i]
		if g.AwayTeam.Abbreviation == "" {
			g.AwayTeam.Abbreviation = si.resolver.Resolve(g.AwayTeam.Name).Abbreviation
		}
		if g.HomeTeam.Abbreviation == "" {
			g.HomeTeam.Abbreviation = si.resolver.Resolve(g.HomeTeam.Name).Abbreviation
		}
		g.ID = strings.ToLower(g.AwayTeam.Abbreviation + "-" + g.HomeTeam.Abbreviation)
		if g.Venue == "" {
			g.Venue = g.HomeTeam.Name + " Stadium"
		}
		g.ScrapedAt = now.UTC()
	}
	return games
}
