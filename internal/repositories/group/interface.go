package group

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/steamwatch/internal/repositories/group Repository

import (
	"context"

	"github.com/KirkDiggler/steamwatch/internal/models"
)

// Repository defines storage for group display profiles
type Repository interface {
	// SaveProfile stores a group's display name and avatar
	SaveProfile(ctx context.Context, input *SaveProfileInput) error

	// GetProfile retrieves a group's profile
	GetProfile(ctx context.Context, input *GetProfileInput) (*models.GroupProfile, error)
}
