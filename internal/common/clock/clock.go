package clock

import "time"

// Clock supplies the time used for session bookkeeping, stop durations and
// the broadcast schedule
//
//go:generate mockgen -package=mocks -destination=mocks/mock_clock.go github.com/KirkDiggler/steamwatch/internal/common/clock Clock
type Clock interface {
	Now() time.Time
}

// DefaultClock reads the system clock
type DefaultClock struct{}

// Now returns the current time
func (c *DefaultClock) Now() time.Time {
	return time.Now()
}
