package avatar

//go:generate mockgen -package=mocks -destination=mocks/mock_fetcher.go github.com/KirkDiggler/steamwatch/internal/services/avatar Fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"

	"github.com/KirkDiggler/steamwatch/internal/models"
	avatarRepo "github.com/KirkDiggler/steamwatch/internal/repositories/avatar"
)

// Fetcher downloads avatar images
type Fetcher interface {
	FetchAvatar(ctx context.Context, url string) ([]byte, error)
}

// Config holds configuration for the avatar resolver
type Config struct {
	Repository avatarRepo.Repository
	Fetcher    Fetcher
	Logger     *slog.Logger
}

// Resolver returns decoded player avatars, downloading each avatar hash once
type Resolver struct {
	repo    avatarRepo.Repository
	fetcher Fetcher
	logger  *slog.Logger
}

// New creates a new avatar resolver
func New(cfg *Config) (*Resolver, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Repository == nil {
		return nil, ErrNilRepository
	}
	if cfg.Fetcher == nil {
		return nil, ErrNilFetcher
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Resolver{
		repo:    cfg.Repository,
		fetcher: cfg.Fetcher,
		logger:  logger,
	}, nil
}

// Resolve returns the player's avatar from the cache, fetching it on a miss
func (r *Resolver) Resolve(ctx context.Context, player *models.PlayerState) (image.Image, error) {
	if player == nil {
		return nil, ErrNilPlayer
	}
	if player.AvatarURL == "" {
		return nil, ErrNoAvatarURL
	}

	data, err := r.repo.GetAvatar(ctx, &avatarRepo.GetAvatarInput{
		SteamID:    player.SteamID,
		AvatarHash: player.AvatarHash,
	})
	if err == nil {
		img, decodeErr := decode(data)
		if decodeErr == nil {
			return img, nil
		}
		r.logger.Warn("cached avatar is corrupt, refetching", "steam_id", player.SteamID, "err", decodeErr)
	} else if !errors.Is(err, avatarRepo.ErrAvatarNotFound) {
		r.logger.Warn("avatar cache lookup failed", "steam_id", player.SteamID, "err", err)
	}

	data, err = r.fetcher.FetchAvatar(ctx, player.AvatarURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch avatar for %s: %w", player.SteamID, err)
	}

	img, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode avatar for %s: %w", player.SteamID, err)
	}

	if err := r.repo.SaveAvatar(ctx, &avatarRepo.SaveAvatarInput{
		SteamID:    player.SteamID,
		AvatarHash: player.AvatarHash,
		Data:       data,
	}); err != nil {
		r.logger.Warn("failed to cache avatar", "steam_id", player.SteamID, "err", err)
	}

	return img, nil
}

func decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}
