package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fortuna/augur/internal/store"
)

const (
	scheduleKeyPrefix    = "augur:schedule:"
	predictionsKeyPrefix = "augur:predictions:"

	// ScheduleTTL keeps repeated pipeline runs within a short window from
	// re-hitting the scrape target.
	ScheduleTTL = 15 * time.Minute

	// PredictionsTTL covers the gap until the next scheduled run.
	PredictionsTTL = 24 * time.Hour
)

// RedisCache handles caching of scraped schedules and generated
// predictions.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache connection.
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{
		client: client,
	}, nil
}

// Close closes the Redis connection.
func (rc *RedisCache) Close() error {
	return rc.client.Close()
}

// Client returns the underlying Redis client.
func (rc *RedisCache) Client() *redis.Client {
	return rc.client
}

// HealthCheck pings Redis to verify connection.
func (rc *RedisCache) HealthCheck(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

// CacheSchedule stores the day's scraped schedule.
func (rc *RedisCache) CacheSchedule(ctx context.Context, date time.Time, games []store.Game) error {
	data, err := json.Marshal(games)
	if err != nil {
		return fmt.Errorf("marshaling schedule: %w", err)
	}
	return rc.client.Set(ctx, scheduleKey(date), data, ScheduleTTL).Err()
}

// GetSchedule returns the cached schedule for a date, or redis.Nil if the
// cache is cold.
func (rc *RedisCache) GetSchedule(ctx context.Context, date time.Time) ([]store.Game, error) {
	data, err := rc.client.Get(ctx, scheduleKey(date)).Bytes()
	if err != nil {
		return nil, err
	}

	var games []store.Game
	if err := json.Unmarshal(data, &games); err != nil {
		return nil, fmt.Errorf("unmarshaling cached schedule: %w", err)
	}
	return games, nil
}

// CachePredictions stores the latest prediction set for a game.
func (rc *RedisCache) CachePredictions(ctx context.Context, set store.PredictionSet) error {
	data, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("marshaling prediction set: %w", err)
	}
	return rc.client.Set(ctx, predictionsKeyPrefix+set.GameID, data, PredictionsTTL).Err()
}

// GetPredictions returns the cached prediction set for a game id, or
// redis.Nil when absent.
func (rc *RedisCache) GetPredictions(ctx context.Context, gameID string) (*store.PredictionSet, error) {
	data, err := rc.client.Get(ctx, predictionsKeyPrefix+gameID).Bytes()
	if err != nil {
		return nil, err
	}

	var set store.PredictionSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("unmarshaling cached prediction set: %w", err)
	}
	return &set, nil
}

func scheduleKey(date time.Time) string {
	return scheduleKeyPrefix + date.Format("2006-01-02")
}
