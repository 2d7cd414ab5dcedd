package teams

import (
	"strings"
)

// entry maps one known name string to its canonical team identity.
// Multiple keys (full name, nickname, city) can point at the same team.
type entry struct {
	key       string
	canonical string
	abbr      string
}

// directory lists every name string the resolver knows, in declaration
// order. Substring matching walks this slice top to bottom, so when a raw
// name contains more than one key the earliest declared entry wins.
var directory = []entry{
	{"Arizona Diamondbacks", "Arizona Diamondbacks", "ARI"},
	{"Arizona", "Arizona Diamondbacks", "ARI"},
	{"Atlanta Braves", "Atlanta Braves", "ATL"},
	{"Atlanta", "Atlanta Braves", "ATL"},
	{"Baltimore Orioles", "Baltimore Orioles", "BAL"},
	{"Baltimore", "Baltimore Orioles", "BAL"},
	{"Boston Red Sox", "Boston Red Sox", "BOS"},
	{"Boston", "Boston Red Sox", "BOS"},
	{"Chicago Cubs", "Chicago Cubs", "CHC"},
	{"Chicago White Sox", "Chicago White Sox", "CHW"},
	{"Cincinnati Reds", "Cincinnati Reds", "CIN"},
	{"Cincinnati", "Cincinnati Reds", "CIN"},
	{"Cleveland Guardians", "Cleveland Guardians", "CLE"},
	{"Cleveland", "Cleveland Guardians", "CLE"},
	{"Colorado Rockies", "Colorado Rockies", "COL"},
	{"Colorado", "Colorado Rockies", "COL"},
	{"Detroit Tigers", "Detroit Tigers", "DET"},
	{"Detroit", "Detroit Tigers", "DET"},
	{"Houston Astros", "Houston Astros", "HOU"},
	{"Houston", "Houston Astros", "HOU"},
	{"Kansas City Royals", "Kansas City Royals", "KCR"},
	{"Kansas City", "Kansas City Royals", "KCR"},
	{"Los Angeles Angels", "Los Angeles Angels", "LAA"},
	{"Los Angeles Dodgers", "Los Angeles Dodgers", "LAD"},
	{"Miami Marlins", "Miami Marlins", "MIA"},
	{"Miami", "Miami Marlins", "MIA"},
	{"Milwaukee Brewers", "Milwaukee Brewers", "MIL"},
	{"Milwaukee", "Milwaukee Brewers", "MIL"},
	{"Minnesota Twins", "Minnesota Twins", "MIN"},
	{"Minnesota", "Minnesota Twins", "MIN"},
	{"New York Mets", "New York Mets", "NYM"},
	{"New York Yankees", "New York Yankees", "NYY"},
	{"Oakland Athletics", "Oakland Athletics", "OAK"},
	{"Oakland", "Oakland Athletics", "OAK"},
	{"Philadelphia Phillies", "Philadelphia Phillies", "PHI"},
	{"Philadelphia", "Philadelphia Phillies", "PHI"},
	{"Pittsburgh Pirates", "Pittsburgh Pirates", "PIT"},
	{"Pittsburgh", "Pittsburgh Pirates", "PIT"},
	{"San Diego Padres", "San Diego Padres", "SDP"},
	{"San Diego", "San Diego Padres", "SDP"},
	{"San Francisco Giants", "San Francisco Giants", "SFG"},
	{"San Francisco", "San Francisco Giants", "SFG"},
	{"Seattle Mariners", "Seattle Mariners", "SEA"},
	{"Seattle", "Seattle Mariners", "SEA"},
	{"St. Louis Cardinals", "St. Louis Cardinals", "STL"},
	{"St. Louis", "St. Louis Cardinals", "STL"},
	{"Tampa Bay Rays", "Tampa Bay Rays", "TBR"},
	{"Tampa Bay", "Tampa Bay Rays", "TBR"},
	{"Texas Rangers", "Texas Rangers", "TEX"},
	{"Texas", "Texas Rangers", "TEX"},
	{"Toronto Blue Jays", "Toronto Blue Jays", "TOR"},
	{"Toronto", "Toronto Blue Jays", "TOR"},
	{"Washington Nationals", "Washington Nationals", "WSN"},
	{"Washington", "Washington Nationals", "WSN"},
}

// Team is a resolved team identity.
type Team struct {
	CanonicalName string
	Abbreviation  string
}

// Resolver maps free-text team names (full, partial, city-only) to a
// canonical name and standard abbreviation. It is pure and never fails:
// unknown names resolve to themselves with a derived abbreviation.
type Resolver struct {
	exact   map[string]entry
	ordered []entry
}

// NewResolver builds a resolver over the fixed MLB name directory.
func NewResolver() *Resolver {
	exact := make(map[string]entry, len(directory))
	for _, e := range directory {
		exact[strings.ToLower(e.key)] = e
	}
	return &Resolver{exact: exact, ordered: directory}
}

// Resolve returns the canonical name and abbreviation for a raw team name.
// Lookup order: exact match, then substring containment in declaration
// order, then a default built from the raw name itself.
func (r *Resolver) Resolve(raw string) Team {
	name := strings.TrimSpace(raw)
	lower := strings.ToLower(name)

	if e, ok := r.exact[lower]; ok {
		return Team{CanonicalName: e.canonical, Abbreviation: e.abbr}
	}

	for _, e := range r.ordered {
		if strings.Contains(lower, strings.ToLower(e.key)) {
			return Team{CanonicalName: e.canonical, Abbreviation: e.abbr}
		}
	}

	return Team{CanonicalName: name, Abbreviation: defaultAbbreviation(name)}
}

// defaultAbbreviation derives a 3-letter abbreviation from the raw name.
func defaultAbbreviation(name string) string {
	runes := []rune(name)
	if len(runes) > 3 {
		runes = runes[:3]
	}
	return strings.ToUpper(string(runes))
}
