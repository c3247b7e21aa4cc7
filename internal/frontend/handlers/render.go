package handlers

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/boardclock/internal/command"
	"github.com/cory-johannsen/boardclock/internal/frontend/telnet"
	"github.com/cory-johannsen/boardclock/internal/timer"
)

// nameWidth pads player names so columns line up before color codes are applied.
const nameWidth = timer.MaxNameLength

// Renderer formats table state as console text.
type Renderer struct {
	Style telnet.Styler
}

// NewRenderer returns a Renderer that emits ANSI colors when color is true.
func NewRenderer(color bool) Renderer {
	return Renderer{Style: telnet.Styler{Enabled: color}}
}

// StateLabel describes the clock state in a few words.
func StateLabel(snap timer.Snapshot) string {
	switch {
	case snap.GameOver && snap.HasWinner:
		return "Game over: " + snap.Winner + " wins"
	case snap.GameOver:
		return "Game over: no winner"
	case !snap.Running:
		return "Not started"
	case snap.Paused:
		return "Paused"
	case snap.UsingTeamBank:
		return "Borrowing team bank"
	default:
		return "Running"
	}
}

// Board renders every seat with its clocks, marking the current and next player.
//
// Postcondition: Returns one header line, one column line and one line per player.
func (r Renderer) Board(snap timer.Snapshot) string {
	var b strings.Builder

	state := StateLabel(snap)
	stateColor := telnet.BrightGreen
	switch {
	case snap.GameOver:
		stateColor = telnet.BrightRed
	case !snap.Running || snap.Paused:
		stateColor = telnet.BrightYellow
	case snap.UsingTeamBank:
		stateColor = telnet.BrightCyan
	}
	b.WriteString(r.Style.Apply(telnet.Bold+stateColor, state))
	if snap.Settings.TeamBankMinutes > 0 {
		b.WriteString(r.Style.Apply(telnet.Cyan, "  Team bank "+snap.TeamBankClock))
	}
	b.WriteString("\n")
	b.WriteString(r.Style.Apply(telnet.Dim, fmt.Sprintf("      %-*s  %5s  %5s", nameWidth, "Player", "Bank", "Turn")))

	for i, p := range snap.Players {
		b.WriteString("\n")
		marker := " "
		if p.Active {
			marker = r.Style.Apply(telnet.BrightWhite, ">")
		}
		name := r.Style.Hex(p.Hex, fmt.Sprintf("%-*s", nameWidth, p.Name))
		bank := p.BankClock
		if !p.Eliminated && p.BankTime < 60 {
			bank = r.Style.Apply(telnet.BrightRed, bank)
		}
		line := fmt.Sprintf("%s %2d  %s  %s  %s", marker, i+1, name, bank, p.TurnClock)
		switch {
		case p.Eliminated:
			line = fmt.Sprintf("  %2d  %s  %s  %s  %s", i+1, name, p.BankClock, p.TurnClock, r.Style.Apply(telnet.Red, "OUT"))
		case i == snap.NextPlayer && !p.Active:
			line += "  " + r.Style.Apply(telnet.Dim, "next")
		}
		b.WriteString(line)
	}
	return b.String()
}

// StatusLine renders a single line for the live watch display.
func (r Renderer) StatusLine(snap timer.Snapshot) string {
	if snap.GameOver || snap.CurrentPlayer < 0 || snap.CurrentPlayer >= len(snap.Players) {
		return StateLabel(snap)
	}
	p := snap.Players[snap.CurrentPlayer]
	parts := []string{
		r.Style.Hex(p.Hex, p.Name) + " " + p.BankClock,
	}
	if p.TurnTimeEnabled {
		parts = append(parts, "turn "+p.TurnClock)
	}
	if snap.Settings.TeamBankMinutes > 0 {
		team := "team " + snap.TeamBankClock
		if snap.UsingTeamBank {
			team = r.Style.Apply(telnet.BrightCyan, team+" (borrowing)")
		}
		parts = append(parts, team)
	}
	parts = append(parts, strings.ToLower(StateLabel(snap)))
	return strings.Join(parts, " | ")
}

// TurnOrder renders the upcoming turns, starting with the current player.
func (r Renderer) TurnOrder(slots []timer.TurnOrderSlot) string {
	if len(slots) == 0 {
		return r.Style.Apply(telnet.Dim, "Nobody is left to play.")
	}
	var b strings.Builder
	b.WriteString(r.Style.Apply(telnet.BrightWhite, "Turn order:"))
	for _, s := range slots {
		fmt.Fprintf(&b, "\n  %-12s %s", s.Status, r.Style.Hex(s.Hex, s.Name))
	}
	return b.String()
}

// Event renders an engine event that every console should see. Events that only
// answer the command that caused them are not rendered here.
//
// Postcondition: Returns ("", false) for events with no broadcast text.
func (r Renderer) Event(ev timer.Event) (string, bool) {
	switch ev.Kind {
	case timer.EventPlayerEliminated:
		return r.Style.Apply(telnet.BrightRed, ev.Player+" has been eliminated."), true
	case timer.EventGameOver:
		if ev.HasWinner {
			return r.Style.Apply(telnet.Bold+telnet.BrightGreen, "Game over! "+ev.Player+" wins."), true
		}
		return r.Style.Apply(telnet.Bold+telnet.BrightRed, "Game over! Nobody is left standing."), true
	default:
		return "", false
	}
}

// Prompt renders the input prompt naming whose turn it is.
func (r Renderer) Prompt(snap timer.Snapshot) string {
	label := "game over"
	if !snap.GameOver && snap.CurrentPlayer >= 0 && snap.CurrentPlayer < len(snap.Players) {
		label = snap.Players[snap.CurrentPlayer].Name
	}
	return r.Style.Apply(telnet.BrightCyan, "["+label+"]> ")
}

// Error renders a command reply that reports a problem.
func (r Renderer) Error(text string) string {
	return r.Style.Apply(telnet.Red, text)
}

// Help lists the registered commands by category.
func (r Renderer) Help(registry *command.Registry) string {
	var b strings.Builder
	b.WriteString(r.Style.Apply(telnet.BrightWhite, "Available commands:"))

	categories := []struct {
		name  string
		label string
	}{
		{command.CategoryClock, "Clock"},
		{command.CategoryPlayers, "Players"},
		{command.CategoryGame, "Game"},
		{command.CategorySystem, "System"},
	}

	byCategory := registry.CommandsByCategory()
	for _, cat := range categories {
		cmds := byCategory[cat.name]
		if len(cmds) == 0 {
			continue
		}
		b.WriteString("\n" + r.Style.Apply(telnet.BrightYellow, "  "+cat.label+":"))
		for _, cmd := range cmds {
			aliases := ""
			if len(cmd.Aliases) > 0 {
				aliases = " (" + strings.Join(cmd.Aliases, ", ") + ")"
			}
			b.WriteString("\n" + r.Style.Apply(telnet.Green, fmt.Sprintf("    %-10s", cmd.Name)) + " " + cmd.Help + aliases)
		}
	}
	return b.String()
}
