package poller

// PollerError is a custom error type for poll cycle errors
type PollerError string

// Error implements the error interface
func (e PollerError) Error() string {
	return string(e)
}

const (
	ErrNilConfig       PollerError = "config cannot be nil"
	ErrNilFetcher      PollerError = "player fetcher cannot be nil"
	ErrNilSender       PollerError = "sender cannot be nil"
	ErrNilSnapshots    PollerError = "snapshot store cannot be nil"
	ErrNilBindings     PollerError = "binding registry cannot be nil"
	ErrNilPolicy       PollerError = "broadcast policy cannot be nil"
	ErrNilClock        PollerError = "clock cannot be nil"
	ErrNilUUID         PollerError = "uuid generator cannot be nil"
	ErrInvalidInterval PollerError = "interval must be positive"
	ErrCycleInProgress PollerError = "a poll cycle is already running"
)
