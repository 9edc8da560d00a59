package binding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/KirkDiggler/steamwatch/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// bindingsKey is a hash of group ID to the JSON encoded binding list
	bindingsKey = "steam:bindings"
)

// Config holds configuration for the Redis binding repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed binding repository
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

// LoadBindings reads every group's binding list
func (r *redisRepository) LoadBindings(ctx context.Context) (*LoadBindingsOutput, error) {
	fields, err := r.client.HGetAll(ctx, bindingsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get bindings: %w", err)
	}

	groups := make(map[string][]*models.Binding, len(fields))
	for groupID, bindingsJSON := range fields {
		var bindings []*models.Binding
		if err := json.Unmarshal([]byte(bindingsJSON), &bindings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal bindings for group %s: %w", groupID, err)
		}

		// Older records may not carry the group ID on each entry
		for _, b := range bindings {
			b.GroupID = groupID
		}

		groups[groupID] = bindings
	}

	return &LoadBindingsOutput{
		Groups: groups,
	}, nil
}

// SaveBindings replaces the binding hash in a single transaction
func (r *redisRepository) SaveBindings(ctx context.Context, input *SaveBindingsInput) error {
	if input == nil {
		return errors.New("input cannot be nil")
	}

	values := make(map[string]interface{}, len(input.Groups))
	for groupID, bindings := range input.Groups {
		if len(bindings) == 0 {
			continue
		}

		bindingsJSON, err := json.Marshal(bindings)
		if err != nil {
			return fmt.Errorf("failed to marshal bindings for group %s: %w", groupID, err)
		}
		values[groupID] = bindingsJSON
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, bindingsKey)
	if len(values) > 0 {
		pipe.HSet(ctx, bindingsKey, values)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save bindings: %w", err)
	}

	return nil
}
