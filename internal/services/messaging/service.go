package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/KirkDiggler/steamwatch/internal/models"
)

// service implements the Service interface
type service struct{}

// NewService creates a new messaging service
func NewService() Service {
	return &service{}
}

// GetTransitionMessage returns the notice line for a start, stop or change event
func (s *service) GetTransitionMessage(ctx context.Context, input *GetTransitionMessageInput) (*GetTransitionMessageOutput, error) {
	if input == nil || input.Event == nil {
		return nil, ErrNilInput
	}

	event := input.Event
	name := input.DisplayName
	if name == "" {
		name = event.SteamID
	}

	var message string
	switch event.Kind {
	case models.EventKindStart:
		if event.NewGame == nil {
			return nil, ErrUnsupportedEvent
		}
		message = fmt.Sprintf("%s started playing %s", name, event.NewGame.Name)
	case models.EventKindStop:
		if event.OldGame == nil {
			return nil, ErrUnsupportedEvent
		}
		message = fmt.Sprintf("%s stopped playing %s", name, event.OldGame.Name)
		if event.DurationKnown {
			message += fmt.Sprintf(" after %s", FormatDuration(event.Duration))
		}
	case models.EventKindChange:
		if event.OldGame == nil || event.NewGame == nil {
			return nil, ErrUnsupportedEvent
		}
		message = fmt.Sprintf("%s stopped playing %s and started playing %s", name, event.OldGame.Name, event.NewGame.Name)
	default:
		return nil, ErrUnsupportedEvent
	}

	return &GetTransitionMessageOutput{
		Message: message,
	}, nil
}

// GetStatusMessage describes a player's presence the way the Steam friends list does
func (s *service) GetStatusMessage(ctx context.Context, input *GetStatusMessageInput) (*GetStatusMessageOutput, error) {
	if input == nil || input.Player == nil {
		return nil, ErrNilInput
	}

	p := input.Player
	switch p.PersonaState {
	case models.PersonaStateOffline:
		if p.LastLogoff == nil || p.LastLogoff.IsZero() {
			return &GetStatusMessageOutput{Status: "Offline"}, nil
		}
		return &GetStatusMessageOutput{
			Status: "Last online " + FormatAgo(input.Now.Sub(*p.LastLogoff)),
		}, nil
	case models.PersonaStateOnline, models.PersonaStateBusy, models.PersonaStateSnooze:
		if p.InGame() {
			return &GetStatusMessageOutput{Status: p.Game.Name, InGame: true}, nil
		}
		return &GetStatusMessageOutput{Status: "Online"}, nil
	case models.PersonaStateAway:
		if p.InGame() {
			return &GetStatusMessageOutput{Status: p.Game.Name, InGame: true}, nil
		}
		return &GetStatusMessageOutput{Status: "Away"}, nil
	case models.PersonaStateLookingToTrade, models.PersonaStateLookingToPlay:
		return &GetStatusMessageOutput{Status: "Online"}, nil
	default:
		return &GetStatusMessageOutput{Status: "Unknown"}, nil
	}
}

// FormatDuration renders a play time as hours and minutes, or minutes under an hour
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	hours := int(d / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatAgo renders an elapsed time in the coarsest whole unit
func FormatAgo(d time.Duration) string {
	seconds := int64(d / time.Second)
	switch {
	case seconds < 60:
		return "just now"
	case seconds < 3600:
		return plural(seconds/60, "minute") + " ago"
	case seconds < 86400:
		return plural(seconds/3600, "hour") + " ago"
	case seconds < 2592000:
		return plural(seconds/86400, "day") + " ago"
	case seconds < 31536000:
		return plural(seconds/2592000, "month") + " ago"
	default:
		return plural(seconds/31536000, "year") + " ago"
	}
}

func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
