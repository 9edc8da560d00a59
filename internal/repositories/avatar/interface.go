package avatar

import (
	"context"
)

// Repository caches downloaded Steam avatars keyed by Steam ID and avatar hash
type Repository interface {
	// GetAvatar returns a cached avatar or ErrAvatarNotFound
	GetAvatar(ctx context.Context, input *GetAvatarInput) ([]byte, error)

	// SaveAvatar stores an avatar
	SaveAvatar(ctx context.Context, input *SaveAvatarInput) error
}

// GetAvatarInput contains parameters for retrieving a cached avatar
type GetAvatarInput struct {
	SteamID    string
	AvatarHash string
}

// SaveAvatarInput contains parameters for caching an avatar
type SaveAvatarInput struct {
	SteamID    string
	AvatarHash string
	Data       []byte
}
