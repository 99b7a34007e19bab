package offline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ollieshotz/shotz/internal/model"
)

func TestMonitorInitialState(t *testing.T) {
	assert.True(t, NewMonitor(true).IsOnline())
	assert.False(t, NewMonitor(false).IsOnline())
}

func TestMonitorFiresOncePerTransition(t *testing.T) {
	m := NewMonitor(false)

	fired := 0
	m.OnOnline(func() { fired++ })

	m.SetOnline(true)
	assert.Equal(t, 1, fired)

	// Repeated online observations do not re-fire
	m.SetOnline(true)
	assert.Equal(t, 1, fired)

	// A full offline/online cycle fires again
	m.SetOnline(false)
	m.SetOnline(true)
	assert.Equal(t, 2, fired)
}

func TestMonitorOnlineToOnlineNoFire(t *testing.T) {
	m := NewMonitor(true)

	fired := 0
	m.OnOnline(func() { fired++ })

	m.SetOnline(true)
	assert.Zero(t, fired)
}

func TestMonitorObserveError(t *testing.T) {
	m := NewMonitor(true)

	// Unrelated errors leave connectivity untouched
	m.ObserveError(model.ErrGameNotFound)
	assert.True(t, m.IsOnline())
	m.ObserveError(nil)
	assert.True(t, m.IsOnline())

	// A store reachability failure flips the monitor offline
	m.ObserveError(fmt.Errorf("append: %w", model.ErrStoreUnavailable))
	assert.False(t, m.IsOnline())
}

func TestMonitorMultipleCallbacks(t *testing.T) {
	m := NewMonitor(false)

	a, b := 0, 0
	m.OnOnline(func() { a++ })
	m.OnOnline(func() { b++ })

	m.SetOnline(true)
	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b)
}
