package mute

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	muteRepo "github.com/KirkDiggler/steamwatch/internal/repositories/mute"
)

// Config holds configuration for the mute state
type Config struct {
	Repository muteRepo.Repository
	Logger     *slog.Logger
}

// State is the set of groups with broadcasting disabled
type State struct {
	mu     sync.RWMutex
	muted  map[string]bool
	repo   muteRepo.Repository
	logger *slog.Logger
}

// New creates an empty mute state
func New(cfg *Config) (*State, error) {
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

	return &State{
		muted:  make(map[string]bool),
		repo:   cfg.Repository,
		logger: logger,
	}, nil
}

// Load replaces the in-memory set with the persisted one
func (s *State) Load(ctx context.Context) error {
	groupIDs, err := s.repo.LoadMuted(ctx)
	if err != nil {
		return fmt.Errorf("failed to load muted groups: %w", err)
	}

	muted := make(map[string]bool, len(groupIDs))
	for _, id := range groupIDs {
		muted[id] = true
	}

	s.mu.Lock()
	s.muted = muted
	s.mu.Unlock()

	return nil
}

// Save persists the current set
func (s *State) Save(ctx context.Context) error {
	if err := s.repo.SaveMuted(ctx, s.Muted()); err != nil {
		return fmt.Errorf("failed to save muted groups: %w", err)
	}
	return nil
}

// IsMuted reports whether broadcasting is disabled for a group
func (s *State) IsMuted(groupID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.muted[groupID]
}

// Mute disables broadcasting for a group
func (s *State) Mute(groupID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.muted[groupID] = true
}

// Unmute enables broadcasting for a group
func (s *State) Unmute(groupID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.muted, groupID)
}

// Muted lists the muted groups, sorted
func (s *State) Muted() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.muted))
	for id := range s.muted {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
