package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cory-johannsen/boardclock/internal/preset"
	"github.com/cory-johannsen/boardclock/internal/timer"
)

// Table is the set of engine operations the console commands drive.
// *timer.Engine satisfies it.
type Table interface {
	StartTimer()
	Pause()
	Resume()
	TogglePause()
	EndTurn()
	StartTeamBank() error
	StopTeamBank()
	ToggleTeamBank() error
	AddPlayer()
	RemovePlayer()
	EditPlayer(pos int, name, color string)
	EliminatePlayer(pos int)
	ApplyTurnOrder(entries []timer.TurnOrderEntry)
	Reset()
	Reconfigure(s timer.Settings) error
	Settings() timer.Settings
	Snapshot() timer.Snapshot
	TurnOrder() []timer.TurnOrderSlot
}

// HandleBorrow handles the "borrow" and "teambank" commands.
//
// Precondition: t must not be nil.
// Postcondition: Returns a message when the team bank refused, otherwise "".
func HandleBorrow(t Table, toggle bool) string {
	var err error
	if toggle {
		err = t.ToggleTeamBank()
	} else {
		err = t.StartTeamBank()
	}
	if errors.Is(err, timer.ErrTeamBankEmpty) {
		return "The team bank is empty."
	}
	return ""
}

// HandleName handles "name <seat> <name>". Names longer than the limit are cut;
// a blank name leaves the player unchanged. Nobody changes seat.
//
// Precondition: t must not be nil.
// Postcondition: Returns a message describing the result of the command.
func HandleName(t Table, raw string) string {
	seatArg, name, ok := SplitSeatArg(raw)
	if !ok || name == "" {
		return "Usage: name <seat> <name>"
	}
	snap := t.Snapshot()
	pos, err := ParseSeat(seatArg, len(snap.Players))
	if err != nil {
		return capitalize(err.Error())
	}
	t.EditPlayer(pos, name, "")
	return fmt.Sprintf("Renamed %s.", snap.Players[pos].Name)
}

// HandleColor handles "color <seat> <color>". Nobody changes seat.
//
// Precondition: t must not be nil.
// Postcondition: Returns a message describing the result of the command.
func HandleColor(t Table, raw string) string {
	seatArg, color, ok := SplitSeatArg(raw)
	if !ok || color == "" {
		return "Usage: color <seat> <name|#rrggbb|rgb(r,g,b)>"
	}
	snap := t.Snapshot()
	pos, err := ParseSeat(seatArg, len(snap.Players))
	if err != nil {
		return capitalize(err.Error())
	}
	hex, ok := timer.NormalizeColor(color)
	if !ok {
		return fmt.Sprintf("Unrecognized color %q.", color)
	}
	t.EditPlayer(pos, "", hex)
	return fmt.Sprintf("%s now plays %s.", snap.Players[pos].Name, hex)
}

// HandleOrder handles "order <seat> <seat> ...". Seats name the current positions in the
// order they should now play; unlisted players keep their relative order after them.
//
// Precondition: t must not be nil.
// Postcondition: Returns a message describing the result of the command.
func HandleOrder(t Table, args []string) string {
	if len(args) == 0 {
		return "Usage: order <seat> <seat> ..."
	}
	snap := t.Snapshot()
	entries := make([]timer.TurnOrderEntry, 0, len(args))
	for _, arg := range args {
		pos, err := ParseSeat(arg, len(snap.Players))
		if err != nil {
			return capitalize(err.Error())
		}
		entries = append(entries, timer.TurnOrderEntry{ID: snap.Players[pos].ID})
	}
	t.ApplyTurnOrder(entries)

	names := make([]string, 0, len(snap.Players))
	for _, p := range t.Snapshot().Players {
		names = append(names, p.Name)
	}
	return "Seating: " + strings.Join(names, ", ") + "."
}

// HandleEliminate handles "eliminate <seat>".
//
// Precondition: t must not be nil.
// Postcondition: Returns a message when the seat is invalid or already out, otherwise "".
func HandleEliminate(t Table, args []string) string {
	if len(args) != 1 {
		return "Usage: eliminate <seat>"
	}
	snap := t.Snapshot()
	pos, err := ParseSeat(args[0], len(snap.Players))
	if err != nil {
		return capitalize(err.Error())
	}
	if snap.Players[pos].Eliminated {
		return fmt.Sprintf("%s is already out.", snap.Players[pos].Name)
	}
	t.EliminatePlayer(pos)
	return ""
}

// HandleSettings handles "settings" with no arguments (show) or with key=value pairs
// (reconfigure, which restarts the game).
//
// Precondition: t must not be nil.
// Postcondition: Returns a message describing the current or rejected settings.
func HandleSettings(t Table, args []string) string {
	s := t.Settings()
	if len(args) == 0 {
		return RenderSettings(s)
	}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Sprintf("Expected key=value, got %q.", arg)
		}
		if err := applySetting(&s, strings.ToLower(key), value); err != nil {
			return capitalize(err.Error())
		}
	}
	if msg, ok := reconfigure(t, s); !ok {
		return msg
	}
	return RenderSettings(t.Settings())
}

// HandlePreset handles "preset" with no arguments (list) or with a preset name (apply).
//
// Precondition: t must not be nil; catalog may be nil when no presets are loaded.
// Postcondition: Returns a message describing the result of the command.
func HandlePreset(t Table, catalog *preset.Catalog, raw string) string {
	if catalog == nil || catalog.Len() == 0 {
		return "No presets are loaded."
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		var sb strings.Builder
		sb.WriteString("Presets:")
		for _, name := range catalog.Names() {
			p, _ := catalog.Get(name)
			sb.WriteString("\n  " + p.Name)
			if p.Description != "" {
				sb.WriteString(" - " + p.Description)
			}
		}
		return sb.String()
	}
	p, ok := catalog.Get(raw)
	if !ok {
		return fmt.Sprintf("Unknown preset %q.", raw)
	}
	if msg, ok := reconfigure(t, p.Settings); !ok {
		return msg
	}
	return fmt.Sprintf("Preset %s applied.\n%s", p.Name, RenderSettings(t.Settings()))
}

// RenderSettings formats settings for display.
func RenderSettings(s timer.Settings) string {
	turn := "off"
	if s.EnableTurnTime {
		turn = "on"
	}
	return fmt.Sprintf("Settings: players=%d bank=%dm turn=%ds (%s) team=%dm",
		s.PlayerCount, s.BankTimeMinutes, s.TurnTimeSeconds, turn, s.TeamBankMinutes)
}

// RenderPalette lists the palette colors with their hex codes.
func RenderPalette() string {
	var sb strings.Builder
	sb.WriteString("Colors:")
	for i, c := range timer.Palette {
		fmt.Fprintf(&sb, "\n  %2d. %-6s %s", i+1, c.Name, c.Hex)
	}
	return sb.String()
}

func reconfigure(t Table, s timer.Settings) (string, bool) {
	if err := t.Reconfigure(s); err != nil {
		var verr *timer.ValidationError
		if errors.As(err, &verr) {
			return fmt.Sprintf("Settings rejected: %s.", verr.Reason), false
		}
		return fmt.Sprintf("Settings rejected: %v.", err), false
	}
	return "", true
}

func applySetting(s *timer.Settings, key, value string) error {
	if key == "turntime" {
		switch strings.ToLower(value) {
		case "on", "true", "yes", "1":
			s.EnableTurnTime = true
		case "off", "false", "no", "0":
			s.EnableTurnTime = false
		default:
			return fmt.Errorf("turntime must be on or off, got %q", value)
		}
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%s must be a whole number, got %q", key, value)
	}
	switch key {
	case "players":
		s.PlayerCount = n
	case "bank":
		s.BankTimeMinutes = n
	case "turn":
		s.TurnTimeSeconds = n
	case "team":
		s.TeamBankMinutes = n
	default:
		return fmt.Errorf("unknown setting %q; use players, bank, turn, team or turntime", key)
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:] + "."
}
