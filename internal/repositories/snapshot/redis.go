package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/KirkDiggler/steamwatch/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// playersKey holds the JSON encoded player list
	playersKey = "steam:players"
)

// Config holds configuration for the Redis snapshot repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed snapshot repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// LoadPlayers reads the player list, returning an empty list when nothing was saved yet
func (r *redisRepository) LoadPlayers(ctx context.Context) (*LoadPlayersOutput, error) {
	playersJSON, err := r.client.Get(ctx, playersKey).Result()
	if err != nil {
		if err == redis.Nil {
			return &LoadPlayersOutput{
				Players: []*models.PlayerState{},
			}, nil
		}
		return nil, fmt.Errorf("failed to get players: %w", err)
	}

	var players []*models.PlayerState
	if err := json.Unmarshal([]byte(playersJSON), &players); err != nil {
		return nil, fmt.Errorf("failed to unmarshal players: %w", err)
	}

	return &LoadPlayersOutput{
		Players: players,
	}, nil
}

// SavePlayers overwrites the player list
func (r *redisRepository) SavePlayers(ctx context.Context, input *SavePlayersInput) error {
	if input == nil {
		return errors.New("input cannot be nil")
	}

	players := input.Players
	if players == nil {
		players = []*models.PlayerState{}
	}

	playersJSON, err := json.Marshal(players)
	if err != nil {
		return fmt.Errorf("failed to marshal players: %w", err)
	}

	if err := r.client.Set(ctx, playersKey, playersJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to save players: %w", err)
	}

	return nil
}
