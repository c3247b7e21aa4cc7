package clock

import "sync"

// ManualTicker is a Ticker whose ticks are delivered by calling Fire.
// Tests use it to drive the engine synchronously without wall-clock delay.
type ManualTicker struct {
	mu     sync.Mutex
	fn     func()
	starts int
	stops  int
}

// NewManualTicker returns a stopped ManualTicker.
func NewManualTicker() *ManualTicker {
	return &ManualTicker{}
}

// Start records fn as the current task.
func (m *ManualTicker) Start(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fn = fn
	m.starts++
}

// Stop clears the current task.
func (m *ManualTicker) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fn != nil {
		m.stops++
	}
	m.fn = nil
}

// Running reports whether a task is set.
func (m *ManualTicker) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fn != nil
}

// Fire invokes the current task n times, re-reading the task before each call
// so that a task which stops or restarts the ticker is honored.
//
// Postcondition: Returns the number of ticks actually delivered.
func (m *ManualTicker) Fire(n int) int {
	delivered := 0
	for i := 0; i < n; i++ {
		m.mu.Lock()
		fn := m.fn
		m.mu.Unlock()
		if fn == nil {
			break
		}
		fn()
		delivered++
	}
	return delivered
}

// Starts returns how many times Start has been called.
func (m *ManualTicker) Starts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.starts
}

// Stops returns how many times a running task was stopped.
func (m *ManualTicker) Stops() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stops
}
