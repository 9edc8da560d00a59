package messaging

import (
	"time"

	"github.com/KirkDiggler/steamwatch/internal/models"
)

// MessagingError is a custom error type for messaging errors
type MessagingError string

// Error implements the error interface
func (e MessagingError) Error() string {
	return string(e)
}

const (
	ErrNilInput         MessagingError = "input cannot be nil"
	ErrUnsupportedEvent MessagingError = "event kind has no message"
)

// GetTransitionMessageInput contains parameters for a transition notice
type GetTransitionMessageInput struct {
	Event *models.TransitionEvent

	// DisplayName is the name to show for the player
	DisplayName string
}

// GetTransitionMessageOutput contains a transition notice
type GetTransitionMessageOutput struct {
	Message string
}

// GetStatusMessageInput contains parameters for a status board line
type GetStatusMessageInput struct {
	Player *models.PlayerState

	// Now is used to describe how long ago an offline player logged off
	Now time.Time
}

// GetStatusMessageOutput contains a status board line
type GetStatusMessageOutput struct {
	Status string

	// InGame is true when Status is a game name
	InGame bool
}
