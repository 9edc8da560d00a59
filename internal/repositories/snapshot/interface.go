package snapshot

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/steamwatch/internal/repositories/snapshot Repository

import (
	"context"
)

// Repository defines durable storage for the flat list of player states
type Repository interface {
	// LoadPlayers returns every persisted player state
	LoadPlayers(ctx context.Context) (*LoadPlayersOutput, error)

	// SavePlayers replaces the persisted player states
	SavePlayers(ctx context.Context, input *SavePlayersInput) error
}
