package broadcast

//go:generate mockgen -package=mocks -destination=mocks/mock_avatar_resolver.go github.com/KirkDiggler/steamwatch/internal/services/broadcast AvatarResolver

import (
	"context"
	"image"
	"log/slog"

	"github.com/KirkDiggler/steamwatch/internal/common/clock"
	"github.com/KirkDiggler/steamwatch/internal/models"
	"github.com/KirkDiggler/steamwatch/internal/render"
	groupRepo "github.com/KirkDiggler/steamwatch/internal/repositories/group"
	"github.com/KirkDiggler/steamwatch/internal/services/messaging"
)

// AvatarResolver loads a player's avatar image
type AvatarResolver interface {
	Resolve(ctx context.Context, player *models.PlayerState) (image.Image, error)
}

// MuteChecker reports whether broadcasts to a group are suppressed
type MuteChecker interface {
	IsMuted(groupID string) bool
}

// BindingLookup lists the bindings of a group
type BindingLookup interface {
	Bindings(groupID string) []*models.Binding
}

// Config holds configuration for the broadcast policy
type Config struct {
	Mute      MuteChecker
	Bindings  BindingLookup
	Avatars   AvatarResolver
	Messaging messaging.Service
	Renderer  *render.Renderer
	Groups    groupRepo.Repository
	Clock     clock.Clock
	Logger    *slog.Logger

	// Mode selects the image attached to a broadcast, defaults to all
	Mode models.BroadcastMode

	// BlockedGameIDs are never announced or shown as being played
	BlockedGameIDs []string

	// AvatarConcurrency bounds parallel avatar loads, defaults to 8
	AvatarConcurrency int
}

// DecideInput contains the outcome of one poll for one group
type DecideInput struct {
	GroupID string

	// Events are the group's transitions, in roster order
	Events []*models.TransitionEvent

	// Players is the group's roster after the poll
	Players []*models.PlayerState
}

// RenderRosterInput contains parameters for drawing a group's status board
type RenderRosterInput struct {
	GroupID string
	Players []*models.PlayerState
}
