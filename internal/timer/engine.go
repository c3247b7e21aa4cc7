// Package timer implements the turn and time state machine of a board game table clock:
// per-player bank time, optional per-turn time, elimination on timeout, and a shared
// team bank any player may borrow from.
package timer

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/boardclock/internal/clock"
)

// ErrTeamBankEmpty is returned when borrowing from a team bank with no time left.
var ErrTeamBankEmpty = errors.New("team bank time is empty")

// Engine owns all state of one table. Every operation is atomic with respect to the
// others; ticks arrive from a clock.Ticker and never overlap.
//
// Invariant: at most one player is Active; exactly one while the game is not over.
// Invariant: once over, winner is nil or a seated player who is not eliminated.
// Invariant: usingTeamBank implies running and not paused.
// Invariant: roster.len() == settings.PlayerCount.
type Engine struct {
	mu     sync.Mutex
	ticker clock.Ticker
	logger *zap.Logger

	settings      Settings
	roster        roster
	current       int
	teamBank      int
	running       bool
	paused        bool
	usingTeamBank bool
	over          bool
	gameID        uuid.UUID

	// winner is the survivor recorded when the game ended; nil for no winner.
	winner *Player

	// tickGen invalidates ticks scheduled before the last ticker restart or stop.
	tickGen uint64

	pending []Event
	changed bool

	handlersMu  sync.Mutex
	handlers    map[int]EventHandler
	nextHandler int
}

// NewEngine creates an engine initialized with settings. A nil logger discards output.
//
// Precondition: ticker must be non-nil.
// Postcondition: Returns an initialized, not running Engine, or a *ValidationError.
func NewEngine(settings Settings, ticker clock.Ticker, logger *zap.Logger) (*Engine, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		ticker:   ticker,
		logger:   logger,
		handlers: make(map[int]EventHandler),
	}
	e.mu.Lock()
	e.initializeLocked(settings)
	e.pending = nil
	e.changed = false
	e.mu.Unlock()
	return e, nil
}

// Subscribe registers h to receive events. The returned function unregisters it.
//
// Precondition: h must not be nil.
func (e *Engine) Subscribe(h EventHandler) (unsubscribe func()) {
	e.handlersMu.Lock()
	defer e.handlersMu.Unlock()
	id := e.nextHandler
	e.nextHandler++
	e.handlers[id] = h
	return func() {
		e.handlersMu.Lock()
		defer e.handlersMu.Unlock()
		delete(e.handlers, id)
	}
}

// do runs fn under the engine lock, then delivers the events fn produced.
func (e *Engine) do(fn func()) {
	e.mu.Lock()
	fn()
	events := e.pending
	if e.changed {
		events = append(events, Event{Kind: EventStateChanged})
	}
	e.pending = nil
	e.changed = false
	e.mu.Unlock()

	if len(events) == 0 {
		return
	}
	e.handlersMu.Lock()
	handlers := make([]EventHandler, 0, len(e.handlers))
	for _, h := range e.handlers {
		handlers = append(handlers, h)
	}
	e.handlersMu.Unlock()
	for _, ev := range events {
		for _, h := range handlers {
			h(ev)
		}
	}
}

func (e *Engine) emit(ev Event) {
	e.pending = append(e.pending, ev)
}

func (e *Engine) log() *zap.Logger {
	return e.logger.With(zap.String("game_id", e.gameID.String()))
}

// initializeLocked replaces all game state with a fresh game for s.
func (e *Engine) initializeLocked(s Settings) {
	e.stopTickerLocked()
	e.settings = s
	e.roster = roster{}
	for i := 0; i < s.PlayerCount; i++ {
		e.roster.add(newPlayer(i, s))
	}
	e.roster.at(0).Active = true
	e.current = 0
	e.teamBank = s.TeamBankSeconds()
	e.running = false
	e.paused = false
	e.usingTeamBank = false
	e.over = false
	e.winner = nil
	e.gameID = uuid.New()
	e.changed = true

	e.log().Info("game initialized",
		zap.Int("players", s.PlayerCount),
		zap.Int("bank_time_minutes", s.BankTimeMinutes),
		zap.Int("turn_time_seconds", s.TurnTimeSeconds),
		zap.Bool("turn_time_enabled", s.EnableTurnTime),
		zap.Int("team_bank_minutes", s.TeamBankMinutes),
	)
}

// restartTickerLocked stops the tick source and starts a new one with a fresh cadence.
func (e *Engine) restartTickerLocked() {
	e.stopTickerLocked()
	gen := e.tickGen
	e.ticker.Start(func() { e.onTick(gen) })
}

func (e *Engine) stopTickerLocked() {
	e.ticker.Stop()
	e.tickGen++
}

// onTick applies a tick from the ticker started for generation gen.
func (e *Engine) onTick(gen uint64) {
	e.do(func() {
		if gen != e.tickGen {
			return
		}
		e.tickLocked()
	})
}

// Settings returns the current settings.
func (e *Engine) Settings() Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings
}

// GameID identifies the current game; it changes on every reset or reconfigure.
func (e *Engine) GameID() uuid.UUID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gameID
}

// StartTimer begins ticking. No-op when already ticking or when the game is over.
//
// Postcondition: running is true and paused is false unless the game is over.
func (e *Engine) StartTimer() {
	e.do(e.startTimerLocked)
}

func (e *Engine) startTimerLocked() {
	if e.over || (e.running && !e.paused) {
		return
	}
	e.running = true
	e.paused = false
	e.restartTickerLocked()
	e.changed = true
	e.log().Info("timer started", zap.String("player", e.roster.at(e.current).Name))
}

// Pause suspends ticking. Idempotent. Borrowing from the team bank ends on pause.
//
// Postcondition: the tick source is stopped.
func (e *Engine) Pause() {
	e.do(e.pauseLocked)
}

func (e *Engine) pauseLocked() {
	e.stopTickerLocked()
	if !e.running || e.paused {
		return
	}
	e.paused = true
	if e.usingTeamBank {
		e.usingTeamBank = false
		e.log().Info("team bank stopped", zap.String("reason", "paused"), zap.Int("team_bank_seconds", e.teamBank))
	}
	e.changed = true
	e.log().Info("timer paused")
}

// Resume restarts ticking after Pause. No-op unless running and paused, or once the game is over.
func (e *Engine) Resume() {
	e.do(e.resumeLocked)
}

func (e *Engine) resumeLocked() {
	if e.over || !e.running || !e.paused {
		return
	}
	e.paused = false
	e.restartTickerLocked()
	e.changed = true
	e.log().Info("timer resumed")
}

// TogglePause starts a stopped timer, resumes a paused one, or pauses a ticking one.
func (e *Engine) TogglePause() {
	e.do(func() {
		switch {
		case !e.running:
			e.startTimerLocked()
		case e.paused:
			e.resumeLocked()
		default:
			e.pauseLocked()
		}
	})
}

// Reset discards progress and starts a fresh game with the current settings.
//
// Postcondition: State equals a freshly initialized game; the tick source is stopped.
func (e *Engine) Reset() {
	e.do(func() {
		e.initializeLocked(e.settings)
		e.log().Info("game reset")
	})
}

// Reconfigure validates s and, on success, replaces the game with a fresh one for s.
// On failure the current state is untouched and an EventValidationError is emitted.
//
// Postcondition: Returns nil or a *ValidationError.
func (e *Engine) Reconfigure(s Settings) error {
	var err error
	e.do(func() {
		if err = s.Validate(); err != nil {
			var verr *ValidationError
			reason := err.Error()
			if errors.As(err, &verr) {
				reason = verr.Reason
			}
			e.emit(Event{Kind: EventValidationError, Reason: reason})
			e.log().Warn("settings rejected", zap.Error(err))
			return
		}
		e.initializeLocked(s)
	})
	return err
}
