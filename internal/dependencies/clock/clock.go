package clock

import "time"

// Clock is the time source for session timestamps. Injecting it lets tests
// pin activity tracking and expiry to a fixed instant.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

func (c *RealClock) Now() time.Time {
	return time.Now()
}
