package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/KirkDiggler/steamwatch/internal/models"
	"github.com/KirkDiggler/steamwatch/internal/services/mute"
)

// Config is the bot's runtime configuration, read from the environment
type Config struct {
	DiscordToken  string `env:"DISCORD_TOKEN,required,notEmpty"`
	ApplicationID string `env:"APPLICATION_ID"`

	// GuildID registers commands to one guild; empty registers them globally
	GuildID string `env:"GUILD_ID"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	SteamAPIKeys []string `env:"STEAM_API_KEYS,required,notEmpty" envSeparator:","`
	SteamProxy   string   `env:"STEAM_PROXY"`

	RequestInterval   time.Duration `env:"STEAM_REQUEST_INTERVAL" envDefault:"300s"`
	RequestsPerSecond float64       `env:"STEAM_REQUESTS_PER_SECOND" envDefault:"1"`

	BroadcastMode  string   `env:"STEAM_BROADCAST_MODE" envDefault:"all"`
	BlockedGameIDs []string `env:"STEAM_BLOCKED_GAME_IDS" envSeparator:","`

	// Daily window outside which every group is muted, as HH:MM
	BroadcastOpenTime  string `env:"STEAM_BROADCAST_OPEN_TIME"`
	BroadcastCloseTime string `env:"STEAM_BROADCAST_CLOSE_TIME"`

	// MetricsAddr serves /metrics when set
	MetricsAddr string `env:"METRICS_ADDR"`
}

// Load reads a .env file if one exists, then parses and validates the environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects values that would only fail later at runtime
func (c *Config) Validate() error {
	if _, err := models.ParseBroadcastMode(c.BroadcastMode); err != nil {
		return err
	}

	if _, err := mute.ParseSchedule(c.BroadcastOpenTime, c.BroadcastCloseTime); err != nil {
		return fmt.Errorf("invalid broadcast window: %w", err)
	}

	if c.RequestInterval <= 0 {
		return fmt.Errorf("STEAM_REQUEST_INTERVAL must be positive, got %s", c.RequestInterval)
	}

	if c.RequestsPerSecond <= 0 {
		return fmt.Errorf("STEAM_REQUESTS_PER_SECOND must be positive, got %v", c.RequestsPerSecond)
	}

	if _, err := c.ProxyURL(); err != nil {
		return err
	}

	return nil
}

// Mode returns the parsed broadcast mode
func (c *Config) Mode() models.BroadcastMode {
	mode, err := models.ParseBroadcastMode(c.BroadcastMode)
	if err != nil {
		return models.BroadcastModeAll
	}
	return mode
}

// ProxyURL returns the Steam proxy, or nil when none is configured
func (c *Config) ProxyURL() (*url.URL, error) {
	if c.SteamProxy == "" {
		return nil, nil
	}
	u, err := url.Parse(c.SteamProxy)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid STEAM_PROXY %q", c.SteamProxy)
	}
	return u, nil
}
