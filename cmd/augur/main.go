package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fortuna/augur/internal/api/rest"
	"github.com/fortuna/augur/internal/api/websocket"
	"github.com/fortuna/augur/internal/cache"
	"github.com/fortuna/augur/internal/ingest"
	"github.com/fortuna/augur/internal/ingest/mlb"
	"github.com/fortuna/augur/internal/ingest/web"
	"github.com/fortuna/augur/internal/pipeline"
	"github.com/fortuna/augur/internal/predict"
	"github.com/fortuna/augur/internal/publisher"
	"github.com/fortuna/augur/internal/render"
	"github.com/fortuna/augur/internal/scheduler"
	"github.com/fortuna/augur/internal/store"
	"github.com/fortuna/augur/internal/store/repository"
	"github.com/fortuna/augur/internal/teams"
)

const (
	serviceName    = "augur"
	serviceVersion = "1.0.0"
)

func main() {
	mode := "run"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	log.Printf("Starting %s v%s - MLB Game Prediction Service (%s mode)", serviceName, serviceVersion, mode)

	config := loadConfig()

	// Persistence is optional: without a DSN the run proceeds in-memory.
	var db *store.Database
	var predictionRepo *repository.PredictionRepository
	if config.AtlasDSN == "" {
		log.Println("⚠️  ATLAS_DSN not set, predictions will not be persisted")
	} else {
		var err error
		db, err = store.NewDatabase(config.AtlasDSN)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.EnsureSchema(); err != nil {
			log.Fatalf("Failed to ensure database schema: %v", err)
		}
		predictionRepo = repository.NewPredictionRepository(db)
		log.Println("✓ Connected to database")
	}

	// Redis is optional: without it caching and live updates are skipped.
	var redisCache *cache.RedisCache
	var redisPublisher *publisher.RedisPublisher
	if config.RedisURL == "" {
		log.Println("⚠️  REDIS_URL not set, caching and live updates disabled")
	} else {
		var err error
		redisCache, err = cache.NewRedisCache(config.RedisURL)
		if err != nil {
			log.Printf("⚠️  Redis connection failed: %v (continuing without cache)", err)
			redisCache = nil
		} else {
			defer redisCache.Close()
			redisPublisher = publisher.NewRedisPublisher(redisCache.Client())
			log.Println("✓ Connected to Redis")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	switch mode {
	case "run":
		runner, cleanup := buildPipeline(config, predictionRepo, redisCache, redisPublisher)
		defer cleanup()
		if err := runner.Run(ctx); err != nil {
			log.Fatalf("❌ Pipeline run failed: %v", err)
		}
		log.Println("✓ Augur run complete")

	case "cron":
		runner, cleanup := buildPipeline(config, predictionRepo, redisCache, redisPublisher)
		defer cleanup()
		sched := scheduler.New(runner, config.RunHour)
		go sched.Start(ctx)
		serve(ctx, cancel, config, db, redisCache)

	case "serve":
		serve(ctx, cancel, config, db, redisCache)

	default:
		log.Fatalf("Unknown mode %q (expected run, cron or serve)", mode)
	}
}

// buildPipeline wires the scrape → predict → persist → render pipeline.
// The returned cleanup releases the scrape client's browser allocator.
func buildPipeline(config Config, repo *repository.PredictionRepository, redisCache *cache.RedisCache, redisPublisher *publisher.RedisPublisher) (*pipeline.Runner, func()) {
	resolver := teams.NewResolver()
	webClient := web.NewClient()
	parser := web.NewParser(resolver)
	statsAPI := mlb.New(config.StatsAPIBase)

	ingester := ingest.NewScheduleIngester(webClient, parser, statsAPI, resolver, config.ScoreboardURL)
	orchestrator := predict.NewOrchestrator(predict.Credentials{
		OpenAI:   config.OpenAIKey,
		Claude:   config.ClaudeKey,
		Gemini:   config.GeminiKey,
		DeepSeek: config.DeepSeekKey,
	})
	renderer := render.NewRenderer(config.OutputHTML)

	// Interface-typed nils must stay nil, not wrap nil pointers.
	var predStore pipeline.PredictionStore
	if repo != nil {
		predStore = repo
	}
	var predCache pipeline.Cache
	if redisCache != nil {
		predCache = redisCache
	}
	var pub pipeline.Publisher
	if redisPublisher != nil {
		pub = redisPublisher
	}

	return pipeline.NewRunner(ingester, orchestrator, predStore, predCache, pub, renderer), webClient.Close
}

// serve runs the REST and websocket servers until interrupted.
func serve(ctx context.Context, cancel context.CancelFunc, config Config, db *store.Database, redisCache *cache.RedisCache) {
	if db == nil {
		log.Fatalf("serve mode requires ATLAS_DSN")
	}

	restServer := rest.NewServer(config.RESTPort, db, redisCache, config.OutputHTML)
	go func() {
		log.Printf("✓ REST API server listening on :%s", config.RESTPort)
		if err := restServer.Start(); err != nil {
			log.Printf("REST server error: %v", err)
		}
	}()

	var wsServer *websocket.Server
	if redisCache != nil {
		wsServer = websocket.NewServer(redisCache.Client())
		go func() {
			if err := wsServer.Start(ctx, config.WSPort); err != nil {
				log.Printf("WebSocket server error: %v", err)
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := restServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("REST server shutdown error: %v", err)
	}
	if wsServer != nil {
		if err := wsServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("WebSocket server shutdown error: %v", err)
		}
	}

	log.Println("Augur stopped")
}

// Config holds environment-driven settings.
type Config struct {
	ScoreboardURL string
	StatsAPIBase  string
	AtlasDSN      string
	RedisURL      string
	RESTPort      string
	WSPort        string
	OutputHTML    string
	RunHour       int

	OpenAIKey   string
	ClaudeKey   string
	GeminiKey   string
	DeepSeekKey string
}

func loadConfig() Config {
	return Config{
		ScoreboardURL: getEnv("SCOREBOARD_URL", "https://www.covers.com/sports/mlb/matchups"),
		StatsAPIBase:  getEnv("STATS_API_BASE", ""),
		AtlasDSN:      getEnv("ATLAS_DSN", ""),
		RedisURL:      getEnv("REDIS_URL", ""),
		RESTPort:      getEnv("REST_PORT", "8080"),
		WSPort:        getEnv("WS_PORT", "8081"),
		OutputHTML:    getEnv("OUTPUT_HTML", "public/index.html"),
		RunHour:       getEnvInt("RUN_HOUR", 9),

		OpenAIKey:   getEnv("OPENAI_API_KEY", ""),
		ClaudeKey:   getEnv("ANTHROPIC_API_KEY", ""),
		GeminiKey:   getEnv("GEMINI_API_KEY", ""),
		DeepSeekKey: getEnv("DEEPSEEK_API_KEY", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
