package poller

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/KirkDiggler/steamwatch/internal/common/clock"
	"github.com/KirkDiggler/steamwatch/internal/common/uuid"
	"github.com/KirkDiggler/steamwatch/internal/metrics"
	"github.com/KirkDiggler/steamwatch/internal/models"
	"github.com/KirkDiggler/steamwatch/internal/services/broadcast"
	"github.com/KirkDiggler/steamwatch/internal/services/diff"
)

// Poller runs poll cycles: fetch every tracked player once, update the
// snapshot store, then diff and broadcast per group.
type Poller struct {
	fetcher   PlayerFetcher
	sender    Sender
	snapshots SnapshotStore
	bindings  BindingSource
	policy    Decider
	clock     clock.Clock
	uuid      uuid.UUID
	metrics   *metrics.Metrics
	logger    *slog.Logger
	interval  time.Duration

	// polling is true while a cycle is in flight
	polling atomic.Bool
	wg      sync.WaitGroup
}

// New creates a new poller
func New(cfg *Config) (*Poller, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Fetcher == nil {
		return nil, ErrNilFetcher
	}
	if cfg.Sender == nil {
		return nil, ErrNilSender
	}
	if cfg.Snapshots == nil {
		return nil, ErrNilSnapshots
	}
	if cfg.Bindings == nil {
		return nil, ErrNilBindings
	}
	if cfg.Policy == nil {
		return nil, ErrNilPolicy
	}
	if cfg.Clock == nil {
		return nil, ErrNilClock
	}
	if cfg.UUID == nil {
		return nil, ErrNilUUID
	}
	if cfg.Interval <= 0 {
		return nil, ErrInvalidInterval
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Poller{
		fetcher:   cfg.Fetcher,
		sender:    cfg.Sender,
		snapshots: cfg.Snapshots,
		bindings:  cfg.Bindings,
		policy:    cfg.Policy,
		clock:     cfg.Clock,
		uuid:      cfg.UUID,
		metrics:   cfg.Metrics,
		logger:    logger,
		interval:  cfg.Interval,
	}, nil
}

// Polling reports whether a cycle is in flight
func (p *Poller) Polling() bool {
	return p.polling.Load()
}

// Start runs a cycle every interval until ctx is done, then waits for the
// last cycle to finish. Ticks that land while a cycle is in flight are skipped.
func (p *Poller) Start(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info("poller started", "interval", p.interval)

	for {
		select {
		case <-ctx.Done():
			p.wg.Wait()
			p.logger.Info("poller stopped")
			return
		case <-ticker.C:
			p.wg.Add(1)
			go func() {
				defer p.wg.Done()
				if _, err := p.RunCycle(ctx); err != nil && err != ErrCycleInProgress {
					p.logger.Error("poll cycle failed", "err", err)
				}
			}()
		}
	}
}

// Prime fetches every tracked player and records them without broadcasting,
// so the first real cycle only reports changes made after startup.
func (p *Poller) Prime(ctx context.Context) error {
	if !p.polling.CompareAndSwap(false, true) {
		return ErrCycleInProgress
	}
	defer p.polling.Store(false)

	ids := p.bindings.AllPlayerIDs()
	p.metrics.TrackedPlayers(len(ids))
	if len(ids) == 0 {
		return nil
	}

	players, err := p.fetcher.FetchPlayers(ctx, ids)
	if err != nil {
		p.metrics.UpstreamFailure()
		p.logger.Warn("priming fetch incomplete", "fetched", len(players), "requested", len(ids), "err", err)
	}

	p.snapshots.Update(players, p.clock.Now())
	if err := p.snapshots.Save(ctx); err != nil {
		return fmt.Errorf("failed to save snapshots: %w", err)
	}

	p.logger.Info("snapshot primed", "players", len(players))
	return nil
}

// RunCycle runs one poll cycle. It returns ErrCycleInProgress without doing
// anything if another cycle has not finished.
func (p *Poller) RunCycle(ctx context.Context) (*RunCycleOutput, error) {
	if !p.polling.CompareAndSwap(false, true) {
		p.metrics.CycleFinished(metrics.CycleSkipped, 0)
		p.logger.Warn("previous poll cycle still running, skipping")
		return nil, ErrCycleInProgress
	}
	defer p.polling.Store(false)

	started := p.clock.Now()
	output := &RunCycleOutput{CycleID: p.uuid.NewUUID()}
	logger := p.logger.With("cycle_id", output.CycleID)

	ids := p.bindings.AllPlayerIDs()
	p.metrics.TrackedPlayers(len(ids))
	if len(ids) == 0 {
		p.metrics.CycleFinished(metrics.CycleOK, p.clock.Now().Sub(started))
		return output, nil
	}

	players, err := p.fetcher.FetchPlayers(ctx, ids)
	if err != nil {
		// missing players keep their previous state and produce no events
		output.UpstreamErr = err
		p.metrics.UpstreamFailure()
		logger.Warn("upstream fetch incomplete", "fetched", len(players), "requested", len(ids), "err", err)
	}
	output.Players = len(players)

	groups := p.bindings.Groups()
	output.Groups = len(groups)

	previous := make(map[string][]*models.PlayerState, len(groups))
	for _, groupID := range groups {
		previous[groupID] = p.snapshots.Slice(p.bindings.PlayerIDs(groupID))
	}

	p.snapshots.Update(players, p.clock.Now())

	for _, groupID := range groups {
		sent, err := p.processGroup(ctx, logger.With("group_id", groupID), groupID, previous[groupID])
		switch {
		case err != nil:
			output.Failed++
			logger.Error("group broadcast failed", "group_id", groupID, "err", err)
		case sent:
			output.Sent++
		}
	}

	result := metrics.CycleOK
	if output.UpstreamErr != nil {
		result = metrics.CyclePartial
	}

	if err := p.snapshots.Save(ctx); err != nil {
		p.metrics.CycleFinished(metrics.CycleFailed, p.clock.Now().Sub(started))
		return output, fmt.Errorf("failed to save snapshots: %w", err)
	}

	p.metrics.CycleFinished(result, p.clock.Now().Sub(started))
	logger.Info("poll cycle finished",
		"players", output.Players,
		"groups", output.Groups,
		"sent", output.Sent,
		"failed", output.Failed)

	return output, nil
}

// processGroup diffs and broadcasts one group. A panic is contained to the group.
func (p *Poller) processGroup(ctx context.Context, logger *slog.Logger, groupID string, previous []*models.PlayerState) (sent bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.metrics.Broadcast(metrics.BroadcastPanic)
			sent = false
			err = fmt.Errorf("panic processing group %s: %v", groupID, r)
		}
	}()

	current := p.snapshots.Slice(p.bindings.PlayerIDs(groupID))

	// duration is measured at composition time, not at sample time
	events := diff.DiffWithLogger(previous, current, p.clock.Now(), logger)
	if len(events) == 0 {
		return false, nil
	}

	payload, err := p.policy.Decide(ctx, &broadcast.DecideInput{
		GroupID: groupID,
		Events:  events,
		Players: current,
	})
	if err != nil {
		p.metrics.Broadcast(metrics.BroadcastFailed)
		return false, fmt.Errorf("failed to decide broadcast: %w", err)
	}
	if payload == nil {
		p.metrics.Broadcast(metrics.BroadcastNothing)
		return false, nil
	}

	if err := p.sender.Send(ctx, payload); err != nil {
		p.metrics.Broadcast(metrics.BroadcastFailed)
		return false, fmt.Errorf("failed to send broadcast: %w", err)
	}

	p.metrics.Broadcast(metrics.BroadcastSent)
	logger.Debug("broadcast sent", "events", len(events), "image", len(payload.Image) > 0)
	return true, nil
}
