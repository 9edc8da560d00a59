package binding

import (
	"log/slog"

	"github.com/KirkDiggler/steamwatch/internal/models"
	bindingRepo "github.com/KirkDiggler/steamwatch/internal/repositories/binding"
)

// Config holds configuration for the binding registry
type Config struct {
	Repository bindingRepo.Repository
	Logger     *slog.Logger
}

// AddInput contains parameters for binding a member to a Steam account
type AddInput struct {
	GroupID  string
	MemberID string
	SteamID  string
}

// AddOutput contains the result of a bind
type AddOutput struct {
	Binding *models.Binding

	// Rebound is true when the member was already bound and got updated in place
	Rebound bool
}

// SetNicknameInput contains parameters for setting a member's nickname
type SetNicknameInput struct {
	GroupID  string
	MemberID string

	// Nickname is trimmed, an empty value clears the nickname
	Nickname string
}
