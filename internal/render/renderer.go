package render

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/fortuna/augur/internal/store"
)

const (
	dataBegin = "<!-- augur:data:begin -->"
	dataEnd   = "<!-- augur:data:end -->"
)

var (
	dataBlockPattern = regexp.MustCompile(`(?s)<!-- augur:data:begin -->.*?<!-- augur:data:end -->`)
	updatedPattern   = regexp.MustCompile(`<!-- augur:updated .*? -->`)
)

// pageSkeleton is written when the output file does not exist yet. The
// data block between the markers is wholesale replaced on every run.
const pageSkeleton = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Augur - MLB Game Predictions</title>
</head>
<body>
<h1>Today's MLB Predictions</h1>
<div id="predictions"></div>
<!-- augur:data:begin -->
<script id="augur-data" type="application/json">{}</script>
<!-- augur:data:end -->
<!-- augur:updated never -->
</body>
</html>
`

// Payload is the serialized data block embedded in the page.
type Payload struct {
	Games       []store.Game          `json:"games"`
	Predictions []store.PredictionSet `json:"predictions"`
	GeneratedAt time.Time             `json:"generated_at"`
}

// Renderer maintains the static output page.
type Renderer struct {
	outputPath string
}

// NewRenderer creates a renderer writing to outputPath.
func NewRenderer(outputPath string) *Renderer {
	return &Renderer{outputPath: outputPath}
}

// Render replaces the page's embedded JSON data block with the given games
// and predictions and refreshes the last-updated marker. The page is
// created from the skeleton if missing.
func (r *Renderer) Render(games []store.Game, predictions []store.PredictionSet) error {
	page, err := os.ReadFile(r.outputPath)
	if os.IsNotExist(err) {
		page = []byte(pageSkeleton)
	} else if err != nil {
		return fmt.Errorf("reading output page: %w", err)
	}

	payload, err := json.Marshal(Payload{
		Games:       games,
		Predictions: predictions,
		GeneratedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	block := fmt.Sprintf("%s\n<script id=\"augur-data\" type=\"application/json\">%s</script>\n%s",
		dataBegin, payload, dataEnd)

	if !dataBlockPattern.Match(page) {
		return fmt.Errorf("output page %s has no data markers", r.outputPath)
	}
	page = dataBlockPattern.ReplaceAllLiteral(page, []byte(block))

	updated := fmt.Sprintf("<!-- augur:updated %s -->", time.Now().UTC().Format(time.RFC3339))
	if updatedPattern.Match(page) {
		page = updatedPattern.ReplaceAllLiteral(page, []byte(updated))
	} else {
		page = append(page, []byte(updated+"\n")...)
	}

	if err := os.WriteFile(r.outputPath, page, 0o644); err != nil {
		return fmt.Errorf("writing output page: %w", err)
	}
	return nil
}
