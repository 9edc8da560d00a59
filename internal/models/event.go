package models

import (
	"time"
)

// EventKind classifies a player's game transition between two polls
type EventKind string

const (
	// EventKindStart indicates the player started a game
	EventKindStart EventKind = "start"

	// EventKindStop indicates the player stopped playing
	EventKindStop EventKind = "stop"

	// EventKindChange indicates the player switched games
	EventKindChange EventKind = "change"

	// EventKindAnomaly indicates a transition that could not be classified
	EventKindAnomaly EventKind = "anomaly"
)

// TransitionEvent describes one player's game transition within a poll cycle
type TransitionEvent struct {
	Kind    EventKind
	SteamID string

	// Name is the persona name from the newest observation
	Name string

	OldGame *Game
	NewGame *Game

	// SessionStart is the start of the session that a stop event ends
	SessionStart *time.Time

	// Duration is only set for stop events with a known session start
	Duration      time.Duration
	DurationKnown bool
}
