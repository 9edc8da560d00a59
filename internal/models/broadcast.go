package models

import (
	"fmt"
	"strings"
)

// BroadcastMode selects which image accompanies a broadcast
type BroadcastMode string

const (
	// BroadcastModeAll attaches the full roster status board
	BroadcastModeAll BroadcastMode = "all"

	// BroadcastModePart attaches cards for players who just started a game
	BroadcastModePart BroadcastMode = "part"

	// BroadcastModeNone sends text only
	BroadcastModeNone BroadcastMode = "none"
)

// ParseBroadcastMode parses a configured mode name
func ParseBroadcastMode(value string) (BroadcastMode, error) {
	switch mode := BroadcastMode(strings.ToLower(strings.TrimSpace(value))); mode {
	case BroadcastModeAll, BroadcastModePart, BroadcastModeNone:
		return mode, nil
	default:
		return "", fmt.Errorf("invalid broadcast mode %q", value)
	}
}

// OutboundPayload is a message ready to be sent into a group
type OutboundPayload struct {
	GroupID string
	Text    string
	Image   []byte
}
