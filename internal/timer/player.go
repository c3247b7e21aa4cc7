package timer

import (
	"strings"
	"unicode/utf8"
)

// MaxNameLength is the longest player name kept, in runes.
const MaxNameLength = 12

// Player is one seat at the table.
//
// Invariant: BankTime >= 0 and TurnTime >= 0.
// Invariant: Eliminated never reverts to false; an eliminated player is never Active.
type Player struct {
	// ID equals the player's position in turn order; it is reassigned only by ApplyTurnOrder.
	ID    int
	Name  string
	Color Color
	// Hex is the display color, either Color.Hex or a custom color.
	Hex string
	// BankTime is the personal reserve in seconds.
	BankTime int
	// TurnTime is the remaining per-turn allotment in seconds; ignored unless TurnTimeEnabled.
	TurnTime        int
	TurnTimeEnabled bool
	Active          bool
	Eliminated      bool
}

func newPlayer(id int, s Settings) *Player {
	c := PaletteColor(id)
	p := &Player{
		ID:              id,
		Name:            c.Name,
		Color:           c,
		Hex:             c.Hex,
		BankTime:        s.BankTimeSeconds(),
		TurnTimeEnabled: s.EnableTurnTime,
	}
	if s.EnableTurnTime {
		p.TurnTime = s.TurnTimeSeconds
	}
	return p
}

// sanitizeName trims name and limits it to MaxNameLength runes.
// A blank name falls back to previous.
func sanitizeName(name, previous string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return previous
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		name = strings.TrimSpace(string([]rune(name)[:MaxNameLength]))
	}
	return name
}
