package clock

import "time"

// Clock abstracts the current time so event timestamps and session expiry
// can be controlled in tests
type Clock interface {
	// Now returns the current time
	Now() time.Time
}

// SystemClock implements Clock with the real system time
type SystemClock struct{}

// New creates a new SystemClock
func New() *SystemClock {
	return &SystemClock{}
}

func (c *SystemClock) Now() time.Time {
	return time.Now()
}
