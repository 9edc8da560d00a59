package group

import "github.com/KirkDiggler/steamwatch/internal/models"

// SaveProfileInput contains parameters for saving a group profile
type SaveProfileInput struct {
	Profile *models.GroupProfile
}

// GetProfileInput contains parameters for retrieving a group profile
type GetProfileInput struct {
	GroupID string
}
