package snapshot

import "github.com/KirkDiggler/steamwatch/internal/models"

// LoadPlayersOutput contains the persisted player states
type LoadPlayersOutput struct {
	Players []*models.PlayerState
}

// SavePlayersInput contains the player states to persist
type SavePlayersInput struct {
	Players []*models.PlayerState
}
