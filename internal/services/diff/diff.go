// Package diff classifies game transitions between two observations of the
// same players.
package diff

import (
	"log/slog"
	"time"

	"github.com/KirkDiggler/steamwatch/internal/models"
)

// Diff compares old and new observations matched by Steam ID and returns one
// event per player whose game changed, in the order of next. Players absent
// from prev are first observations and produce no event. Stop durations are
// measured against now.
func Diff(prev, next []*models.PlayerState, now time.Time) []*models.TransitionEvent {
	return DiffWithLogger(prev, next, now, slog.Default())
}

// DiffWithLogger is Diff with an explicit logger for data-quality warnings
func DiffWithLogger(prev, next []*models.PlayerState, now time.Time, logger *slog.Logger) []*models.TransitionEvent {
	byID := make(map[string]*models.PlayerState, len(prev))
	for _, p := range prev {
		if p != nil {
			byID[p.SteamID] = p
		}
	}

	var events []*models.TransitionEvent
	for _, n := range next {
		if n == nil {
			continue
		}

		o, ok := byID[n.SteamID]
		if !ok {
			continue
		}

		event := classify(o, n, now)
		if event == nil {
			continue
		}

		switch {
		case event.Kind == models.EventKindAnomaly:
			logger.Warn("unclassifiable game transition",
				"steam_id", n.SteamID,
				"old_game", o.GameName(),
				"new_game", n.GameName())
		case event.Kind == models.EventKindStop && !event.DurationKnown:
			logger.Warn("stop without recorded session start",
				"steam_id", n.SteamID,
				"game", o.GameName())
		}

		events = append(events, event)
	}

	return events
}

func classify(o, n *models.PlayerState, now time.Time) *models.TransitionEvent {
	oldIn, newIn := o.InGame(), n.InGame()

	if !oldIn && !newIn {
		return nil
	}
	if oldIn && newIn && o.Game.Name == n.Game.Name {
		return nil
	}

	event := &models.TransitionEvent{
		SteamID: n.SteamID,
		Name:    n.Name,
		OldGame: cloneGame(o.Game),
		NewGame: cloneGame(n.Game),
	}

	switch {
	case !oldIn && newIn:
		event.Kind = models.EventKindStart
	case oldIn && !newIn:
		event.Kind = models.EventKindStop
		if o.SessionStart != nil {
			start := *o.SessionStart
			event.SessionStart = &start
			event.DurationKnown = true
			if d := now.Sub(start); d > 0 {
				event.Duration = d
			}
		}
	case oldIn && newIn:
		event.Kind = models.EventKindChange
	default:
		// Unreachable with typed game fields; kept so a bad record is reported, not broadcast.
		event.Kind = models.EventKindAnomaly
	}

	return event
}

func cloneGame(g *models.Game) *models.Game {
	if g == nil {
		return nil
	}
	clone := *g
	return &clone
}
