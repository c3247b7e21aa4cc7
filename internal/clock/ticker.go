// Package clock provides the periodic tick sources that drive the table timer.
package clock

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultInterval is the cadence of a table clock.
const DefaultInterval = time.Second

// Ticker is a restartable periodic task.
//
// Start replaces any running task. Stop is idempotent.
type Ticker interface {
	// Start begins invoking fn once per interval, stopping any previous task first.
	Start(fn func())
	// Stop halts the current task. Safe to call when not running.
	Stop()
	// Running reports whether a task is currently scheduled.
	Running() bool
}

// PeriodicTicker invokes a callback on a clockwork ticker.
// It is safe for concurrent use.
//
// Invariant: at most one tick goroutine exists per PeriodicTicker.
type PeriodicTicker struct {
	clock    clockwork.Clock
	interval time.Duration

	mu   sync.Mutex
	stop chan struct{}
}

// NewPeriodicTicker creates a stopped ticker firing every interval on clk.
//
// Precondition: clk must be non-nil; interval must be > 0.
// Postcondition: Returns a PeriodicTicker that is not running.
func NewPeriodicTicker(clk clockwork.Clock, interval time.Duration) *PeriodicTicker {
	if interval <= 0 {
		panic("clock.NewPeriodicTicker: interval must be > 0")
	}
	return &PeriodicTicker{clock: clk, interval: interval}
}

// Start stops any running task and begins calling fn once per interval.
// fn is called from a separate goroutine, never concurrently with itself.
//
// Precondition: fn must not be nil.
// Postcondition: Running() is true; the first call happens one full interval from now.
func (p *PeriodicTicker) Start(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()

	stop := make(chan struct{})
	t := p.clock.NewTicker(p.interval)
	p.stop = stop

	go func() {
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.Chan():
				// A tick and a stop can be ready together; stop wins.
				select {
				case <-stop:
					return
				default:
				}
				fn()
			}
		}
	}()
}

// Stop halts the current task. An invocation of fn already in progress may complete,
// but no further tick is delivered.
//
// Postcondition: Running() is false.
func (p *PeriodicTicker) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *PeriodicTicker) stopLocked() {
	if p.stop != nil {
		close(p.stop)
		p.stop = nil
	}
}

// Running reports whether a task is scheduled.
func (p *PeriodicTicker) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stop != nil
}
