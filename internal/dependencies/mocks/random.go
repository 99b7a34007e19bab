package mocks

import (
	"github.com/ollieshotz/shotz/internal/dependencies/random"
)

// MockRandom is a scripted Random. Tests queue the suffixes they want
// generated IDs to carry; an exhausted queue yields empty strings.
type MockRandom struct {
	stringResults []string
}

var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates an empty MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn always returns 0; nothing in the domain depends on its distribution
func (r *MockRandom) Intn(n int) int {
	return 0
}

// String pops the next queued result, or "" when the queue is empty
func (r *MockRandom) String(length int, alphabet string) string {
	if len(r.stringResults) == 0 {
		return ""
	}
	result := r.stringResults[0]
	r.stringResults = r.stringResults[1:]
	return result
}

// QueueString appends values to the String result queue
func (r *MockRandom) QueueString(values ...string) {
	r.stringResults = append(r.stringResults, values...)
}
