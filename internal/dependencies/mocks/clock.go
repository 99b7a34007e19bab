package mocks

import (
	"time"

	"github.com/ollieshotz/shotz/internal/dependencies/clock"
)

// MockClock is a manually driven Clock. Tests set a start time and step it
// with Advance so event timestamps and session expiry are deterministic.
type MockClock struct {
	CurrentTime time.Time
}

var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a MockClock frozen at the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{CurrentTime: t}
}

func (c *MockClock) Now() time.Time {
	return c.CurrentTime
}

// Advance moves the clock forward by the given duration
func (c *MockClock) Advance(d time.Duration) {
	c.CurrentTime = c.CurrentTime.Add(d)
}

// Set jumps the clock to the given time, forward or backward
func (c *MockClock) Set(t time.Time) {
	c.CurrentTime = t
}
