package poller

//go:generate mockgen -package=mocks -destination=mocks/mock_poller.go github.com/KirkDiggler/steamwatch/internal/services/poller PlayerFetcher,Sender

import (
	"context"
	"log/slog"
	"time"

	"github.com/KirkDiggler/steamwatch/internal/common/clock"
	"github.com/KirkDiggler/steamwatch/internal/common/uuid"
	"github.com/KirkDiggler/steamwatch/internal/metrics"
	"github.com/KirkDiggler/steamwatch/internal/models"
	"github.com/KirkDiggler/steamwatch/internal/services/broadcast"
)

// PlayerFetcher returns current summaries for Steam IDs. It may return the
// players it could fetch together with an error for the rest.
type PlayerFetcher interface {
	FetchPlayers(ctx context.Context, ids []string) ([]*models.PlayerState, error)
}

// Sender delivers a payload into its group
type Sender interface {
	Send(ctx context.Context, payload *models.OutboundPayload) error
}

// SnapshotStore is the process-wide record of last seen player states
type SnapshotStore interface {
	Slice(steamIDs []string) []*models.PlayerState
	Update(players []*models.PlayerState, now time.Time)
	Save(ctx context.Context) error
}

// BindingSource lists the players tracked by each group
type BindingSource interface {
	Groups() []string
	PlayerIDs(groupID string) []string
	AllPlayerIDs() []string
}

// Decider turns a group's events into a payload
type Decider interface {
	Decide(ctx context.Context, input *broadcast.DecideInput) (*models.OutboundPayload, error)
}

// Config holds configuration for the poller
type Config struct {
	Fetcher   PlayerFetcher
	Sender    Sender
	Snapshots SnapshotStore
	Bindings  BindingSource
	Policy    Decider
	Clock     clock.Clock
	UUID      uuid.UUID
	Metrics   *metrics.Metrics
	Logger    *slog.Logger

	// Interval between poll cycles started by Start
	Interval time.Duration
}

// RunCycleOutput summarizes one poll cycle
type RunCycleOutput struct {
	CycleID string

	// Players is the number of summaries returned upstream
	Players int

	Groups int
	Sent   int
	Failed int

	// UpstreamErr is set when some players could not be fetched
	UpstreamErr error
}
