package timer

import "go.uber.org/zap"

// StartTeamBank switches ticking to the shared pool, starting the timer if needed and
// restarting the tick cadence. An empty pool is rejected with ErrTeamBankEmpty and an
// EventTeamBankEmpty; state is unchanged. Ignored while already borrowing or once over.
func (e *Engine) StartTeamBank() error {
	var err error
	e.do(func() { err = e.startTeamBankLocked() })
	return err
}

func (e *Engine) startTeamBankLocked() error {
	if e.over || e.usingTeamBank {
		return nil
	}
	if e.teamBank <= 0 {
		e.emit(Event{Kind: EventTeamBankEmpty})
		e.log().Warn("team bank empty")
		return ErrTeamBankEmpty
	}
	e.usingTeamBank = true
	e.running = true
	e.paused = false
	e.restartTickerLocked()
	e.changed = true
	e.log().Info("team bank started",
		zap.String("player", e.roster.at(e.current).Name),
		zap.Int("team_bank_seconds", e.teamBank),
	)
	return nil
}

// StopTeamBank returns ticking to the current player. Ignored when not borrowing.
func (e *Engine) StopTeamBank() {
	e.do(e.stopTeamBankLocked)
}

func (e *Engine) stopTeamBankLocked() {
	if !e.usingTeamBank {
		return
	}
	e.usingTeamBank = false
	e.changed = true
	if e.running && !e.paused {
		e.restartTickerLocked()
	}
	e.log().Info("team bank stopped", zap.Int("team_bank_seconds", e.teamBank))
}

// ToggleTeamBank stops borrowing if active, otherwise starts it.
func (e *Engine) ToggleTeamBank() error {
	var err error
	e.do(func() {
		if e.usingTeamBank {
			e.stopTeamBankLocked()
			return
		}
		err = e.startTeamBankLocked()
	})
	return err
}
