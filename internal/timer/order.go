package timer

import (
	"fmt"

	"go.uber.org/zap"
)

// TurnOrderEntry is one row of a submitted turn order with the user's edits.
type TurnOrderEntry struct {
	ID int
	// Name replaces the player's name unless blank.
	Name string
	// Color replaces the player's display color when it normalizes; see NormalizeColor.
	Color string
}

// AddPlayer appends a new inactive player, up to MaxPlayers.
//
// Postcondition: the new player's ID equals its position; its color is PaletteColor(ID).
func (e *Engine) AddPlayer() {
	e.do(func() {
		if e.settings.PlayerCount >= MaxPlayers {
			return
		}
		p := newPlayer(e.roster.len(), e.settings)
		e.roster.add(p)
		e.settings.PlayerCount++
		e.changed = true
		e.log().Info("player added", zap.String("player", p.Name), zap.Int("players", e.settings.PlayerCount))
	})
}

// RemovePlayer drops the last player in turn order, down to MinPlayers. If that player
// held the turn, the turn goes to position 0 rather than to the next player in order,
// or to the first survivor when position 0 is eliminated.
func (e *Engine) RemovePlayer() {
	e.do(func() {
		if e.settings.PlayerCount <= MinPlayers {
			return
		}
		removed := e.roster.removeLast()
		e.settings.PlayerCount--
		e.changed = true
		e.log().Info("player removed", zap.String("player", removed.Name), zap.Int("players", e.settings.PlayerCount))

		if removed.Active || e.current >= e.roster.len() {
			e.current = 0
			for pos, p := range e.roster.players() {
				if !p.Eliminated {
					e.current = pos
					break
				}
			}
			// A finished game hands the turn to nobody.
			if !e.over {
				for pos, p := range e.roster.players() {
					p.Active = pos == e.current && !p.Eliminated
				}
			}
		}
		if e.over || e.survivorsLocked() <= 1 {
			e.endGameLocked()
		}
	})
}

// EditPlayer renames and recolors the player at position pos in place. Nobody is
// reseated and ids are unchanged. A blank name or a color NormalizeColor rejects leaves
// that attribute as it was; out-of-range positions are ignored.
func (e *Engine) EditPlayer(pos int, name, color string) {
	e.do(func() {
		if pos < 0 || pos >= e.roster.len() {
			return
		}
		p := e.roster.at(pos)
		before, beforeHex := p.Name, p.Hex
		p.Name = sanitizeName(name, p.Name)
		if hex, ok := NormalizeColor(color); ok {
			p.Hex = hex
		}
		if p.Name == before && p.Hex == beforeHex {
			return
		}
		e.changed = true
		e.log().Info("player edited",
			zap.Int("position", pos),
			zap.String("player", p.Name),
			zap.String("color", p.Hex),
		)
	})
}

// ApplyTurnOrder merges name and color edits by id and re-sequences the roster.
// Survivors take the submitted order, survivors missing from it follow in their previous
// order, and eliminated players go last in their previous order. Ids are then
// renumbered to match positions and the current position follows the active player.
// Unknown and duplicate ids are ignored.
func (e *Engine) ApplyTurnOrder(entries []TurnOrderEntry) {
	e.do(func() {
		seen := make(map[int]bool, e.roster.len())
		slots := make([]int, 0, e.roster.len())

		for _, entry := range entries {
			slot, ok := e.roster.slotOf(entry.ID)
			if !ok || seen[slot] {
				continue
			}
			p := e.roster.arena[slot]
			p.Name = sanitizeName(entry.Name, p.Name)
			if hex, ok := NormalizeColor(entry.Color); ok {
				p.Hex = hex
			}
			if p.Eliminated {
				continue
			}
			seen[slot] = true
			slots = append(slots, slot)
		}
		for _, slot := range e.roster.order {
			if !seen[slot] && !e.roster.arena[slot].Eliminated {
				seen[slot] = true
				slots = append(slots, slot)
			}
		}
		for _, slot := range e.roster.order {
			if !seen[slot] {
				slots = append(slots, slot)
			}
		}

		e.roster.reorder(slots)
		for pos, p := range e.roster.players() {
			if p.Active {
				e.current = pos
				break
			}
		}
		e.changed = true
		e.log().Info("turn order applied", zap.Int("current", e.current))
	})
}

// TurnOrderSlot is one row of the turn-order view.
type TurnOrderSlot struct {
	ID     int
	Name   string
	Hex    string
	Status string
}

// TurnOrder lists survivors starting with the current player in play order, labeled
// "Current Turn", "Next Turn", then by ordinal.
func (e *Engine) TurnOrder() []TurnOrderSlot {
	e.mu.Lock()
	defer e.mu.Unlock()

	order := e.clockwiseOrderLocked()
	start := 0
	for i, pos := range order {
		if pos == e.current {
			start = i
			break
		}
	}
	var out []TurnOrderSlot
	for i := 0; i < len(order); i++ {
		p := e.roster.at(order[(start+i)%len(order)])
		if p.Eliminated {
			continue
		}
		var status string
		switch {
		case p.Active:
			status = "Current Turn"
		case len(out) == 0 || (len(out) == 1 && out[0].Status == "Current Turn"):
			status = "Next Turn"
		default:
			status = Ordinal(len(out) + 1)
		}
		out = append(out, TurnOrderSlot{ID: p.ID, Name: p.Name, Hex: p.Hex, Status: status})
	}
	return out
}

// Ordinal formats n as "1st", "2nd", "3rd", "4th", "11th", "21st".
func Ordinal(n int) string {
	suffix := "th"
	switch v := n % 100; {
	case v >= 11 && v <= 13:
	case v%10 == 1:
		suffix = "st"
	case v%10 == 2:
		suffix = "nd"
	case v%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
