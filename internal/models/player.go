package models

import (
	"time"
)

// PersonaState is the coarse Steam presence code reported for a player
type PersonaState int

const (
	PersonaStateOffline        PersonaState = 0
	PersonaStateOnline         PersonaState = 1
	PersonaStateBusy           PersonaState = 2
	PersonaStateAway           PersonaState = 3
	PersonaStateSnooze         PersonaState = 4
	PersonaStateLookingToTrade PersonaState = 5
	PersonaStateLookingToPlay  PersonaState = 6
)

// String returns a human readable name for the presence code
func (s PersonaState) String() string {
	switch s {
	case PersonaStateOffline:
		return "offline"
	case PersonaStateOnline:
		return "online"
	case PersonaStateBusy:
		return "busy"
	case PersonaStateAway:
		return "away"
	case PersonaStateSnooze:
		return "snooze"
	case PersonaStateLookingToTrade:
		return "looking to trade"
	case PersonaStateLookingToPlay:
		return "looking to play"
	default:
		return "unknown"
	}
}

// IsOnline reports whether the player is signed in with any non-offline state
func (s PersonaState) IsOnline() bool {
	return s != PersonaStateOffline
}

// Game identifies the game a player is currently running
type Game struct {
	// ID is the Steam app ID, used for block-list filtering
	ID string `json:"id,omitempty"`

	// Name is the display name of the game
	Name string `json:"name"`
}

// PlayerState is the last observed state of a tracked Steam account
type PlayerState struct {
	// SteamID is the 64-bit Steam ID of the player
	SteamID string `json:"steam_id"`

	// Name is the Steam persona name
	Name string `json:"name"`

	// PersonaState is the coarse presence code
	PersonaState PersonaState `json:"persona_state"`

	// Game is the game currently being played, nil when not in a game
	Game *Game `json:"game,omitempty"`

	// LastLogoff is only meaningful while offline
	LastLogoff *time.Time `json:"last_logoff,omitempty"`

	// SessionStart is when the current game began, nil when not in a game
	SessionStart *time.Time `json:"session_start,omitempty"`

	AvatarURL  string `json:"avatar_url,omitempty"`
	AvatarHash string `json:"avatar_hash,omitempty"`
	ProfileURL string `json:"profile_url,omitempty"`
}

// InGame reports whether the player is currently running a game
func (p *PlayerState) InGame() bool {
	return p != nil && p.Game != nil
}

// GameName returns the current game name or an empty string
func (p *PlayerState) GameName() string {
	if !p.InGame() {
		return ""
	}
	return p.Game.Name
}

// Clone returns a deep copy of the player state
func (p *PlayerState) Clone() *PlayerState {
	if p == nil {
		return nil
	}

	clone := *p
	if p.Game != nil {
		game := *p.Game
		clone.Game = &game
	}
	if p.LastLogoff != nil {
		t := *p.LastLogoff
		clone.LastLogoff = &t
	}
	if p.SessionStart != nil {
		t := *p.SessionStart
		clone.SessionStart = &t
	}

	return &clone
}
