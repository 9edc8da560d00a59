package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/KirkDiggler/steamwatch/internal/models"
	snapshotRepo "github.com/KirkDiggler/steamwatch/internal/repositories/snapshot"
)

// Config holds configuration for the snapshot store
type Config struct {
	Repository snapshotRepo.Repository
	Logger     *slog.Logger
}

// Store holds the last processed state of every tracked player, process wide.
// All reads hand out copies so callers can keep a slice across an Update.
type Store struct {
	mu      sync.RWMutex
	players map[string]*models.PlayerState
	repo    snapshotRepo.Repository
	logger  *slog.Logger
}

// New creates an empty snapshot store
func New(cfg *Config) (*Store, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.Repository == nil {
		return nil, ErrNilRepository
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		players: make(map[string]*models.PlayerState),
		repo:    cfg.Repository,
		logger:  logger,
	}, nil
}

// Load replaces the in-memory state with the persisted one
func (s *Store) Load(ctx context.Context) error {
	output, err := s.repo.LoadPlayers(ctx)
	if err != nil {
		return fmt.Errorf("failed to load player snapshots: %w", err)
	}

	players := make(map[string]*models.PlayerState, len(output.Players))
	for _, p := range output.Players {
		if p == nil || p.SteamID == "" {
			continue
		}
		players[p.SteamID] = p
	}

	s.mu.Lock()
	s.players = players
	s.mu.Unlock()

	s.logger.Info("loaded player snapshots", "count", len(players))
	return nil
}

// Save persists a copy of the current state
func (s *Store) Save(ctx context.Context) error {
	s.mu.RLock()
	players := make([]*models.PlayerState, 0, len(s.players))
	for _, p := range s.players {
		players = append(players, p.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(players, func(i, j int) bool {
		return players[i].SteamID < players[j].SteamID
	})

	if err := s.repo.SavePlayers(ctx, &snapshotRepo.SavePlayersInput{Players: players}); err != nil {
		return fmt.Errorf("failed to save player snapshots: %w", err)
	}

	return nil
}

// Get returns a copy of one player's state
func (s *Store) Get(steamID string) (*models.PlayerState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.players[steamID]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// Slice returns copies of the known players among steamIDs, in the order given.
// Players never observed are skipped.
func (s *Store) Slice(steamIDs []string) []*models.PlayerState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.PlayerState, 0, len(steamIDs))
	for _, id := range steamIDs {
		if p, ok := s.players[id]; ok {
			result = append(result, p.Clone())
		}
	}
	return result
}

// Update records freshly polled players and maintains session bookkeeping.
// Entering a game starts a session at now, leaving clears it and staying in
// the same game carries the prior start forward, so repeating an Update with
// the same input leaves session starts unchanged. Players missing from the
// input keep their previous state.
func (s *Store) Update(players []*models.PlayerState, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range players {
		if p == nil || p.SteamID == "" {
			continue
		}

		next := p.Clone()
		next.SessionStart = nil

		if next.InGame() {
			prior, ok := s.players[next.SteamID]
			if ok && prior.InGame() && prior.Game.Name == next.Game.Name && prior.SessionStart != nil {
				start := *prior.SessionStart
				next.SessionStart = &start
			} else {
				start := now
				next.SessionStart = &start
			}
		}

		s.players[next.SteamID] = next
	}
}

// Len returns the number of tracked players
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players)
}
