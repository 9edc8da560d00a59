package messaging

import "context"

// Service renders user-facing text for presence changes
type Service interface {
	// GetTransitionMessage returns the notice line for a game transition
	GetTransitionMessage(ctx context.Context, input *GetTransitionMessageInput) (*GetTransitionMessageOutput, error)

	// GetStatusMessage returns the status line shown under a player on a status board
	GetStatusMessage(ctx context.Context, input *GetStatusMessageInput) (*GetStatusMessageOutput, error)
}
