package mute

// MuteError is a custom error type for mute state errors
type MuteError string

// Error implements the error interface
func (e MuteError) Error() string {
	return string(e)
}

const (
	ErrInvalidClock  MuteError = "invalid time of day, expected HH:MM"
	ErrNilConfig     MuteError = "config cannot be nil"
	ErrNilRepository MuteError = "mute repository cannot be nil"
	ErrNilState      MuteError = "mute state cannot be nil"
	ErrNilGroups     MuteError = "group lister cannot be nil"
	ErrNilClock      MuteError = "clock cannot be nil"
)
