package timer

import "fmt"

// FormatClock renders whole seconds as "MM:SS". Minutes are zero-padded to two digits
// and unbounded; negative input renders as "00:00".
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// PlayerView is a read-only copy of a player for rendering.
type PlayerView struct {
	ID              int
	Name            string
	ColorName       string
	Hex             string
	BankTime        int
	TurnTime        int
	TurnTimeEnabled bool
	BankClock       string
	// TurnClock is "--:--" when per-turn time is disabled.
	TurnClock  string
	Active     bool
	Eliminated bool
}

// Snapshot is a consistent read-only copy of the whole game.
type Snapshot struct {
	GameID        string
	Settings      Settings
	Players       []PlayerView
	CurrentPlayer int
	// NextPlayer is the position that would take the next turn, or -1 once the game is over.
	NextPlayer    int
	TeamBank      int
	TeamBankClock string
	Running       bool
	Paused        bool
	UsingTeamBank bool
	GameOver      bool
	// Winner is the surviving player's name when GameOver and HasWinner.
	Winner    string
	HasWinner bool
}

// Snapshot copies the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Snapshot{
		GameID:        e.gameID.String(),
		Settings:      e.settings,
		CurrentPlayer: e.current,
		NextPlayer:    -1,
		TeamBank:      e.teamBank,
		TeamBankClock: FormatClock(e.teamBank),
		Running:       e.running,
		Paused:        e.paused,
		UsingTeamBank: e.usingTeamBank,
		GameOver:      e.over,
	}
	if !e.over {
		s.NextPlayer = e.nextPlayerIndexLocked()
	}
	for _, p := range e.roster.players() {
		v := PlayerView{
			ID:              p.ID,
			Name:            p.Name,
			ColorName:       p.Color.Name,
			Hex:             p.Hex,
			BankTime:        p.BankTime,
			TurnTime:        p.TurnTime,
			TurnTimeEnabled: p.TurnTimeEnabled,
			BankClock:       FormatClock(p.BankTime),
			TurnClock:       "--:--",
			Active:          p.Active,
			Eliminated:      p.Eliminated,
		}
		if p.TurnTimeEnabled {
			v.TurnClock = FormatClock(p.TurnTime)
		}
		s.Players = append(s.Players, v)
	}
	if e.over && e.winner != nil {
		s.Winner = e.winner.Name
		s.HasWinner = true
	}
	return s
}
