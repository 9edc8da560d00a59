package broadcast

// BroadcastError is a custom error type for broadcast policy errors
type BroadcastError string

// Error implements the error interface
func (e BroadcastError) Error() string {
	return string(e)
}

const (
	ErrNilConfig    BroadcastError = "config cannot be nil"
	ErrNilInput     BroadcastError = "input cannot be nil"
	ErrNilMute      BroadcastError = "mute state cannot be nil"
	ErrNilBindings  BroadcastError = "binding lookup cannot be nil"
	ErrNilAvatars   BroadcastError = "avatar resolver cannot be nil"
	ErrNilMessaging BroadcastError = "messaging service cannot be nil"
	ErrNilRenderer  BroadcastError = "renderer cannot be nil"
	ErrNilGroups    BroadcastError = "group repository cannot be nil"
	ErrNilClock     BroadcastError = "clock cannot be nil"
	ErrInvalidMode  BroadcastError = "invalid broadcast mode"
)
