package pipeline

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/fortuna/augur/internal/store"
)

// ErrNoGames means the scrape produced literally zero games even after the
// static fallback, which should be structurally impossible. It aborts the
// run with a non-zero exit.
var ErrNoGames = errors.New("schedule ingestion produced no games")

// ScheduleSource produces today's games; it never fails, degrading to
// fallback data instead.
type ScheduleSource interface {
	Ingest(ctx context.Context) []store.Game
}

// Predictor produces a fully populated prediction set for a game.
type Predictor interface {
	PredictAll(ctx context.Context, game store.Game) store.PredictionSet
}

// PredictionStore persists prediction records, upserting by game id.
type PredictionStore interface {
	Upsert(ctx context.Context, rec *store.PredictionRecord) error
}

// Cache keeps the day's schedule and the latest prediction set per game.
// A schedule hit spares the scrape target on repeated runs within the TTL.
type Cache interface {
	GetSchedule(ctx context.Context, date time.Time) ([]store.Game, error)
	CacheSchedule(ctx context.Context, date time.Time, games []store.Game) error
	CachePredictions(ctx context.Context, set store.PredictionSet) error
}

// Publisher announces freshly generated predictions to live subscribers.
type Publisher interface {
	PublishPredictions(ctx context.Context, game store.Game, set store.PredictionSet) error
}

// Renderer updates the static output page.
type Renderer interface {
	Render(games []store.Game, predictions []store.PredictionSet) error
}

// Runner sequences one full pipeline pass: scrape, predict, persist,
// render. Store, cache, publisher and renderer are optional; a nil
// collaborator is skipped with a warning at startup rather than failing
// the run.
type Runner struct {
	source    ScheduleSource
	predictor Predictor
	store     PredictionStore
	cache     Cache
	publisher Publisher
	renderer  Renderer
}

// NewRunner wires a pipeline from its collaborators. Optional ones may be
// nil.
func NewRunner(source ScheduleSource, predictor Predictor, store PredictionStore, cache Cache, publisher Publisher, renderer Renderer) *Runner {
	return &Runner{
		source:    source,
		predictor: predictor,
		store:     store,
		cache:     cache,
		publisher: publisher,
		renderer:  renderer,
	}
}

// Run executes one pipeline pass. Games are processed strictly one at a
// time so peak concurrent outbound requests stay at one game's worth of
// provider calls. Per-game persistence failures are logged and skipped;
// only an empty schedule is fatal.
func (r *Runner) Run(ctx context.Context) error {
	start := time.Now()

	games := r.cachedSchedule(ctx, start)
	if games == nil {
		games = r.source.Ingest(ctx)
		if len(games) == 0 {
			return ErrNoGames
		}
		if r.cache != nil {
			if err := r.cache.CacheSchedule(ctx, start, games); err != nil {
				log.Printf("[pipeline] ⚠️  caching schedule failed: %v", err)
			}
		}
	}

	synthetic := 0
	for _, g := range games {
		if g.Synthetic {
			synthetic++
		}
	}
	if synthetic > 0 {
		log.Printf("[pipeline] ⚠️  %d/%d games are synthetic fallback data", synthetic, len(games))
	}
	log.Printf("[pipeline] processing %d games", len(games))

	sets := make([]store.PredictionSet, 0, len(games))
	for _, game := range games {
		set := r.predictor.PredictAll(ctx, game)
		sets = append(sets, set)

		r.persist(ctx, game, set)

		if r.cache != nil {
			if err := r.cache.CachePredictions(ctx, set); err != nil {
				log.Printf("[pipeline] ⚠️  caching %s failed: %v", game.ID, err)
			}
		}
		if r.publisher != nil {
			if err := r.publisher.PublishPredictions(ctx, game, set); err != nil {
				log.Printf("[pipeline] ⚠️  publishing %s failed: %v", game.ID, err)
			}
		}
	}

	if r.renderer != nil {
		if err := r.renderer.Render(games, sets); err != nil {
			log.Printf("[pipeline] ⚠️  rendering output page failed: %v", err)
		} else {
			log.Println("[pipeline] ✓ output page updated")
		}
	}

	log.Printf("[pipeline] ✓ run complete in %v", time.Since(start).Round(time.Millisecond))
	return nil
}

// cachedSchedule returns today's cached schedule, or nil on any miss or
// error.
func (r *Runner) cachedSchedule(ctx context.Context, date time.Time) []store.Game {
	if r.cache == nil {
		return nil
	}
	games, err := r.cache.GetSchedule(ctx, date)
	if err != nil || len(games) == 0 {
		return nil
	}
	log.Printf("[pipeline] ✓ using cached schedule (%d games)", len(games))
	return games
}

// persist upserts one game's predictions; failures are non-fatal.
func (r *Runner) persist(ctx context.Context, game store.Game, set store.PredictionSet) {
	if r.store == nil {
		return
	}

	rec := &store.PredictionRecord{
		GameID:      game.ID,
		GameDate:    game.GameTime,
		HomeTeam:    game.HomeTeam.Name,
		AwayTeam:    game.AwayTeam.Name,
		Venue:       game.Venue,
		Predictions: set.ByProvider,
	}
	if err := r.store.Upsert(ctx, rec); err != nil {
		log.Printf("[pipeline] ⚠️  persisting %s failed: %v", game.ID, err)
	}
}
