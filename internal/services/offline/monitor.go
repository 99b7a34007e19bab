package offline

import (
	"errors"
	"sync"

	"github.com/ollieshotz/shotz/internal/model"
)

// Monitor tracks connectivity state and notifies listeners when the process
// comes back online. State changes are pushed by whoever observes them (API
// layer, CLI, tests); the monitor itself never polls.
type Monitor struct {
	mu        sync.Mutex
	online    bool
	callbacks []func()
}

// NewMonitor creates a monitor with the given initial state
func NewMonitor(initialOnline bool) *Monitor {
	return &Monitor{online: initialOnline}
}

// IsOnline reports the last observed connectivity state
func (m *Monitor) IsOnline() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// OnOnline registers a callback fired on each offline to online transition
func (m *Monitor) OnOnline(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, fn)
}

// ObserveError marks the monitor offline when err is a store reachability
// failure. Any other error leaves the state unchanged.
func (m *Monitor) ObserveError(err error) {
	if errors.Is(err, model.ErrStoreUnavailable) {
		m.SetOnline(false)
	}
}

// SetOnline records a connectivity observation. Callbacks fire exactly once
// per offline to online transition; repeated online observations are no-ops.
func (m *Monitor) SetOnline(online bool) {
	m.mu.Lock()
	transitioned := online && !m.online
	m.online = online
	var callbacks []func()
	if transitioned {
		callbacks = append(callbacks, m.callbacks...)
	}
	m.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}
