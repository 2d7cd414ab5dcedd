package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fortuna/augur/internal/store"
)

// UpdatesChannel is the pub/sub channel carrying freshly generated
// prediction sets; the websocket server relays it to connected clients.
const UpdatesChannel = "predictions.updates.mlb"

// RedisPublisher publishes prediction updates over Redis pub/sub.
type RedisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher creates a publisher from an existing Redis client.
func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

// Connect creates a publisher with its own connection.
func Connect(redisURL string) (*RedisPublisher, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisPublisher{client: client}, nil
}

// Close closes the Redis connection.
func (rp *RedisPublisher) Close() error {
	return rp.client.Close()
}

// PredictionUpdate is the wire shape published for each game.
type PredictionUpdate struct {
	Game        store.Game          `json:"game"`
	Predictions store.PredictionSet `json:"predictions"`
	PublishedAt time.Time           `json:"published_at"`
}

// PublishPredictions announces a freshly generated prediction set.
func (rp *RedisPublisher) PublishPredictions(ctx context.Context, game store.Game, set store.PredictionSet) error {
	update := PredictionUpdate{
		Game:        game,
		Predictions: set,
		PublishedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(update)
	if err != nil {
		return err
	}

	return rp.client.Publish(ctx, UpdatesChannel, data).Err()
}
