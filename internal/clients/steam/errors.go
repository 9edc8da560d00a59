package steam

import (
	"errors"
	"fmt"
)

var (
	// ErrUpstreamUnavailable means at least one batch could not be fetched with any key
	ErrUpstreamUnavailable = errors.New("steam api unavailable")

	ErrNoAPIKeys      = errors.New("no steam api keys configured")
	ErrInvalidSteamID = errors.New("invalid steam id or friend code")
)

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("steam api status %d: %s", e.Status, e.Body)
}
