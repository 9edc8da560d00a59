package group

import (
	"context"
	"errors"
	"fmt"

	"github.com/KirkDiggler/steamwatch/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// groupNamesKey is a hash of group ID to display name
	groupNamesKey = "steam:groups"

	// groupAvatarKeyPrefix prefixes the sidecar avatar blob of a group
	groupAvatarKeyPrefix = "steam:group_avatar:"
)

// ErrGroupNotFound is returned when a group has no stored profile
var ErrGroupNotFound = errors.New("group profile not found")

// Config holds configuration for the Redis group repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed group repository
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

// SaveProfile stores the name in the group hash and the avatar next to it
func (r *redisRepository) SaveProfile(ctx context.Context, input *SaveProfileInput) error {
	if input == nil || input.Profile == nil {
		return errors.New("input and profile cannot be nil")
	}

	profile := input.Profile
	if profile.GroupID == "" {
		return errors.New("group ID cannot be empty")
	}

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, groupNamesKey, profile.GroupID, profile.Name)

	avatarKey := groupAvatarKeyPrefix + profile.GroupID
	if len(profile.Avatar) > 0 {
		pipe.Set(ctx, avatarKey, profile.Avatar, 0)
	} else {
		pipe.Del(ctx, avatarKey)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save group profile: %w", err)
	}

	return nil
}

// GetProfile retrieves a group's profile; the avatar may be empty
func (r *redisRepository) GetProfile(ctx context.Context, input *GetProfileInput) (*models.GroupProfile, error) {
	if input == nil || input.GroupID == "" {
		return nil, errors.New("input and group ID cannot be empty")
	}

	name, err := r.client.HGet(ctx, groupNamesKey, input.GroupID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to get group name: %w", err)
	}

	avatar, err := r.client.Get(ctx, groupAvatarKeyPrefix+input.GroupID).Bytes()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get group avatar: %w", err)
	}

	return &models.GroupProfile{
		GroupID: input.GroupID,
		Name:    name,
		Avatar:  avatar,
	}, nil
}
