package mute

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

const (
	// mutedGroupsKey is a set of group IDs with broadcasting disabled
	mutedGroupsKey = "steam:muted_groups"
)

// Config holds configuration for the Redis mute repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed mute repository
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

// LoadMuted returns the muted group IDs in sorted order
func (r *redisRepository) LoadMuted(ctx context.Context) ([]string, error) {
	groupIDs, err := r.client.SMembers(ctx, mutedGroupsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get muted groups: %w", err)
	}

	sort.Strings(groupIDs)
	return groupIDs, nil
}

// SaveMuted replaces the muted set in a single transaction
func (r *redisRepository) SaveMuted(ctx context.Context, groupIDs []string) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, mutedGroupsKey)

	if len(groupIDs) > 0 {
		members := make([]interface{}, 0, len(groupIDs))
		for _, id := range groupIDs {
			members = append(members, id)
		}
		pipe.SAdd(ctx, mutedGroupsKey, members...)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save muted groups: %w", err)
	}

	return nil
}
