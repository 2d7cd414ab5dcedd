package web

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/fortuna/augur/internal/store"
	"github.com/fortuna/augur/internal/teams"
)

var (
	// recordPattern matches a "(W-L)" record as printed next to each team
	// name in the matchup cell.
	recordPattern = regexp.MustCompile(`\((\d+)-(\d+)\)`)

	// matchupPattern finds "<Away> vs <Home>" / "<Away> at <Home>" phrases
	// in free page text for the last-resort strategy.
	matchupPattern = regexp.MustCompile(`([A-Z][A-Za-z.'& ]{2,40}?)\s+(?:vs\.?|at)\s+([A-Z][A-Za-z.'& ]{2,40})`)

	// bareRecordPattern matches "W-L" with no parentheses.
	bareRecordPattern = regexp.MustCompile(`(\d+)-(\d+)`)
)

// Parser extracts games from scoreboard HTML. Three structural strategies
// are exposed; the ingester tries them in order and keeps the first one
// that yields at least one game.
type Parser struct {
	resolver *teams.Resolver
}

// NewParser creates a parser backed by the given team name resolver.
func NewParser(resolver *teams.Resolver) *Parser {
	return &Parser{resolver: resolver}
}

// ParseTable reads the first <table> whose data rows carry at least two
// cells: a time string and a combined "Away (W-L)Home (W-L)" matchup.
// Rows that fail to parse are skipped, not fatal.
func (p *Parser) ParseTable(doc *goquery.Document, now time.Time) []store.Game {
	var games []store.Game

	doc.Find("table").EachWithBreak(func(i int, table *goquery.Selection) bool {
		rows := table.Find("tr")
		if rows.Length() < 2 {
			return true // keep looking
		}

		parsed := 0
		rows.Each(func(j int, row *goquery.Selection) {
			if j == 0 {
				return // header row
			}
			cells := row.Find("td")
			if cells.Length() < 2 {
				return
			}
			parsed++

			timeText := strings.TrimSpace(cells.Eq(0).Text())
			matchupText := strings.TrimSpace(cells.Eq(1).Text())

			game, ok := p.parseMatchupCell(matchupText)
			if !ok {
				return
			}
			game.GameTime = ParseEasternTimestamp(timeText, now)
			games = append(games, game)
		})

		// Stop at the first table that had usable data rows, even if
		// every row failed team parsing.
		return parsed == 0
	})

	return games
}

// parseMatchupCell splits "AwayTeam (W-L)HomeTeam (W-L)" into both sides.
// The first record in the string belongs to the away team, the last to the
// home team.
func (p *Parser) parseMatchupCell(text string) (store.Game, bool) {
	segments := recordPattern.Split(text, -1)
	var names []string
	for _, s := range segments {
		if s = strings.TrimSpace(s); s != "" {
			names = append(names, s)
		}
	}
	if len(names) < 2 {
		return store.Game{}, false
	}

	awayRecord, homeRecord := "0-0", "0-0"
	if recs := recordPattern.FindAllStringSubmatch(text, -1); len(recs) > 0 {
		awayRecord = recs[0][1] + "-" + recs[0][2]
		last := recs[len(recs)-1]
		homeRecord = last[1] + "-" + last[2]
	}

	return store.Game{
		AwayTeam: p.makeTeam(names[0], awayRecord),
		HomeTeam: p.makeTeam(names[1], homeRecord),
	}, true
}

// ParseCards scans for card/widget style markup: elements whose class names
// suggest game semantics, holding two or more team-like children.
func (p *Parser) ParseCards(doc *goquery.Document, now time.Time) []store.Game {
	var games []store.Game
	seen := make(map[string]bool)

	doc.Find("[class*='game'], [class*='match'], [class*='event']").Each(func(i int, card *goquery.Selection) {
		teamSel := card.Find("[class*='team']")
		if teamSel.Length() < 2 {
			return
		}

		awayName := strings.TrimSpace(teamSel.Eq(0).Text())
		homeName := strings.TrimSpace(teamSel.Eq(1).Text())
		if awayName == "" || homeName == "" || awayName == homeName {
			return
		}
		key := awayName + "|" + homeName
		if seen[key] {
			return
		}
		seen[key] = true

		awayRecord, homeRecord := "0-0", "0-0"
		recordSel := card.Find("[class*='record']")
		if recordSel.Length() >= 2 {
			if r := extractRecord(recordSel.Eq(0).Text()); r != "" {
				awayRecord = r
			}
			if r := extractRecord(recordSel.Eq(1).Text()); r != "" {
				homeRecord = r
			}
		}

		gameTime := NoonEasternToday(now)
		if dateSel := card.Find("[class*='date'], [class*='time']"); dateSel.Length() > 0 {
			gameTime = ParseEasternTimestamp(strings.TrimSpace(dateSel.First().Text()), gameTime)
		}

		games = append(games, store.Game{
			AwayTeam: p.makeTeam(awayName, awayRecord),
			HomeTeam: p.makeTeam(homeName, homeRecord),
			GameTime: gameTime,
		})
	})

	return games
}

// ParseFreeText is the last structural resort: scan visible page text for
// "X vs Y" / "X at Y" phrases and treat the sides as away/home.
func (p *Parser) ParseFreeText(doc *goquery.Document, now time.Time) []store.Game {
	var games []store.Game
	seen := make(map[string]bool)

	text := doc.Find("body").Text()
	for _, m := range matchupPattern.FindAllStringSubmatch(text, -1) {
		away := strings.TrimSpace(m[1])
		home := strings.TrimSpace(m[2])
		if away == "" || home == "" || away == home {
			continue
		}
		key := away + "|" + home
		if seen[key] {
			continue
		}
		seen[key] = true

		games = append(games, store.Game{
			AwayTeam: p.makeTeam(away, "0-0"),
			HomeTeam: p.makeTeam(home, "0-0"),
			GameTime: NoonEasternToday(now),
		})
	}

	return games
}

// makeTeam resolves a raw name into a store.Team with the given record.
func (p *Parser) makeTeam(raw, record string) store.Team {
	resolved := p.resolver.Resolve(raw)
	return store.Team{
		Name:         resolved.CanonicalName,
		Abbreviation: resolved.Abbreviation,
		Record:       record,
	}
}

// extractRecord pulls a "W-L" pair out of arbitrary text, with or without
// surrounding parentheses.
func extractRecord(text string) string {
	if m := recordPattern.FindStringSubmatch(text); m != nil {
		return m[1] + "-" + m[2]
	}
	if m := bareRecordPattern.FindStringSubmatch(text); m != nil {
		return m[1] + "-" + m[2]
	}
	return ""
}
