package mute

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/steamwatch/internal/repositories/mute Repository

import (
	"context"
)

// Repository defines durable storage for the set of muted groups
type Repository interface {
	// LoadMuted returns the IDs of every muted group
	LoadMuted(ctx context.Context) ([]string, error)

	// SaveMuted replaces the set of muted groups
	SaveMuted(ctx context.Context, groupIDs []string) error
}
