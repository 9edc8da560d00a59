package avatar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	avatarKeyPrefix = "steam:avatar:"

	// defaultTTL drops avatars that have not been replaced by a newer hash
	defaultTTL = 7 * 24 * time.Hour
)

// ErrAvatarNotFound is returned when no avatar is cached for the key
var ErrAvatarNotFound = errors.New("avatar not found")

// Config holds configuration for the Redis avatar cache
type Config struct {
	// Redis client
	RedisClient *redis.Client

	// TTL of cached avatars, defaults to a week
	TTL time.Duration
}

type redisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis creates a new Redis-backed avatar cache
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}

	return &redisRepository{
		client: cfg.RedisClient,
		ttl:    ttl,
	}, nil
}

func avatarKey(steamID, hash string) string {
	return fmt.Sprintf("%s%s:%s", avatarKeyPrefix, steamID, hash)
}

// GetAvatar returns the cached avatar bytes
func (r *redisRepository) GetAvatar(ctx context.Context, input *GetAvatarInput) ([]byte, error) {
	if input == nil || input.SteamID == "" {
		return nil, errors.New("input and steam ID cannot be empty")
	}

	data, err := r.client.Get(ctx, avatarKey(input.SteamID, input.AvatarHash)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrAvatarNotFound
		}
		return nil, fmt.Errorf("failed to get avatar: %w", err)
	}

	return data, nil
}

// SaveAvatar caches avatar bytes with the configured TTL
func (r *redisRepository) SaveAvatar(ctx context.Context, input *SaveAvatarInput) error {
	if input == nil || input.SteamID == "" {
		return errors.New("input and steam ID cannot be empty")
	}

	if err := r.client.Set(ctx, avatarKey(input.SteamID, input.AvatarHash), input.Data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save avatar: %w", err)
	}

	return nil
}
