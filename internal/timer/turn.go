package timer

import "go.uber.org/zap"

// ClockwiseOrder returns turn positions in play order. Seat position is play order.
func (e *Engine) ClockwiseOrder() []int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clockwiseOrderLocked()
}

func (e *Engine) clockwiseOrderLocked() []int {
	order := make([]int, e.roster.len())
	for i := range order {
		order[i] = i
	}
	return order
}

// NextPlayerIndex returns the next non-eliminated position after the current one,
// wrapping around. If every other player is eliminated the scan stops after one lap and
// the current position is returned; callers detect that case by counting survivors.
func (e *Engine) NextPlayerIndex() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.nextPlayerIndexLocked()
}

func (e *Engine) nextPlayerIndexLocked() int {
	order := e.clockwiseOrderLocked()
	n := len(order)
	start := 0
	for i, pos := range order {
		if pos == e.current {
			start = i
			break
		}
	}
	next := start
	for attempts := 1; attempts <= n; attempts++ {
		next = (next + 1) % n
		if !e.roster.at(order[next]).Eliminated {
			break
		}
	}
	return order[next]
}

func (e *Engine) survivorsLocked() int {
	n := 0
	for _, p := range e.roster.players() {
		if !p.Eliminated {
			n++
		}
	}
	return n
}

// Tick applies one elapsed second. It is a no-op unless the timer is running,
// not paused, and the game is not over.
//
// While borrowing, only the team bank drains; reaching zero ends borrowing.
// Otherwise turn time drains first; the tick that empties turn time never touches
// bank time. Bank time reaching zero eliminates the current player.
func (e *Engine) Tick() {
	e.do(e.tickLocked)
}

func (e *Engine) tickLocked() {
	if !e.running || e.paused || e.over {
		return
	}
	if e.usingTeamBank {
		if e.teamBank > 0 {
			e.teamBank--
			e.changed = true
			if e.teamBank == 0 {
				e.log().Info("team bank exhausted")
				e.stopTeamBankLocked()
			}
		}
		return
	}

	p := e.roster.at(e.current)
	if p.Eliminated {
		return
	}
	if p.TurnTimeEnabled && p.TurnTime > 0 {
		p.TurnTime--
		e.changed = true
		return
	}
	if p.BankTime > 0 {
		p.BankTime--
		e.changed = true
		if p.BankTime == 0 {
			e.eliminateLocked(e.current)
		}
	}
}

// EliminatePlayer removes the player at position pos from rotation. If that player held
// the turn, play passes to the next survivor. One or fewer survivors end the game.
// Out-of-range or already eliminated positions are ignored.
func (e *Engine) EliminatePlayer(pos int) {
	e.do(func() {
		if pos < 0 || pos >= e.roster.len() {
			return
		}
		e.eliminateLocked(pos)
	})
}

func (e *Engine) eliminateLocked(pos int) {
	p := e.roster.at(pos)
	if p.Eliminated {
		return
	}
	p.Eliminated = true
	p.Active = false
	e.changed = true
	e.emit(Event{Kind: EventPlayerEliminated, Player: p.Name})
	e.log().Info("player eliminated", zap.String("player", p.Name), zap.Int("position", pos))

	if e.over {
		e.endGameLocked()
		return
	}
	if pos == e.current {
		e.nextPlayerLocked()
		return
	}
	if e.survivorsLocked() <= 1 {
		e.endGameLocked()
	}
}

// nextPlayerLocked passes the turn to the next survivor and ends the game when at most
// one player remains.
func (e *Engine) nextPlayerLocked() {
	e.current = e.nextPlayerIndexLocked()
	for pos, p := range e.roster.players() {
		p.Active = pos == e.current && !p.Eliminated
	}
	e.changed = true
	e.log().Debug("turn passed",
		zap.Int("position", e.current),
		zap.String("player", e.roster.at(e.current).Name),
	)
	if e.survivorsLocked() <= 1 {
		e.endGameLocked()
	}
}

// endGameLocked stops ticking for good and records the survivor, if any, as the winner.
// Once over, the outcome only changes when the recorded winner leaves play; the game
// then ends with no winner. Players added afterwards never become the winner.
func (e *Engine) endGameLocked() {
	if e.over {
		if e.winner == nil || e.inPlayLocked(e.winner) {
			return
		}
		e.winner = nil
		e.changed = true
		e.emit(Event{Kind: EventGameOver})
		e.log().Info("game over", zap.String("winner", "none"), zap.String("reason", "winner left play"))
		return
	}

	e.winner = nil
	for _, p := range e.roster.players() {
		if !p.Eliminated {
			e.winner = p
			break
		}
	}
	e.over = true
	e.stopTickerLocked()
	e.paused = true
	e.usingTeamBank = false
	e.changed = true

	ev := Event{Kind: EventGameOver}
	if e.winner != nil {
		ev.Player = e.winner.Name
		ev.HasWinner = true
	}
	e.emit(ev)
	if ev.HasWinner {
		e.log().Info("game over", zap.String("winner", ev.Player))
	} else {
		e.log().Info("game over", zap.String("winner", "none"))
	}
}

// inPlayLocked reports whether p is still seated and not eliminated.
func (e *Engine) inPlayLocked(p *Player) bool {
	if p.Eliminated {
		return false
	}
	for _, q := range e.roster.players() {
		if q == p {
			return true
		}
	}
	return false
}

// EndTurn resets the current player's turn time and passes play to the next survivor.
// Ignored unless running, unpaused, not borrowing from the team bank, and not over.
func (e *Engine) EndTurn() {
	e.do(func() {
		if !e.running || e.paused || e.usingTeamBank || e.over {
			return
		}
		p := e.roster.at(e.current)
		if e.settings.EnableTurnTime {
			p.TurnTime = e.settings.TurnTimeSeconds
		}
		e.nextPlayerLocked()
	})
}
