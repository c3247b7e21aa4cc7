package handlers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/boardclock/internal/clock"
	"github.com/cory-johannsen/boardclock/internal/command"
	"github.com/cory-johannsen/boardclock/internal/frontend/telnet"
	"github.com/cory-johannsen/boardclock/internal/timer"
)

func newTestEngine(t *testing.T, s timer.Settings) (*timer.Engine, *clock.ManualTicker) {
	t.Helper()
	tk := clock.NewManualTicker()
	e, err := timer.NewEngine(s, tk, nil)
	require.NoError(t, err)
	return e, tk
}

func TestStateLabel(t *testing.T) {
	tests := []struct {
		snap timer.Snapshot
		want string
	}{
		{timer.Snapshot{}, "Not started"},
		{timer.Snapshot{Running: true}, "Running"},
		{timer.Snapshot{Running: true, Paused: true}, "Paused"},
		{timer.Snapshot{Running: true, UsingTeamBank: true}, "Borrowing team bank"},
		{timer.Snapshot{GameOver: true, HasWinner: true, Winner: "Blue"}, "Game over: Blue wins"},
		{timer.Snapshot{GameOver: true}, "Game over: no winner"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StateLabel(tt.snap))
	}
}

func TestBoard_Initial(t *testing.T) {
	e, _ := newTestEngine(t, timer.DefaultSettings())
	out := NewRenderer(false).Board(e.Snapshot())
	lines := strings.Split(out, "\n")

	require.Len(t, lines, 6)
	assert.Equal(t, "Not started  Team bank 10:00", lines[0])
	assert.Contains(t, lines[1], "Player")
	assert.True(t, strings.HasPrefix(lines[2], ">  1  Red "), lines[2])
	assert.Contains(t, lines[2], "30:00  01:00")
	assert.True(t, strings.HasSuffix(lines[3], "next"), lines[3])
	assert.NotContains(t, lines[4], "next")
}

func TestBoard_EliminatedAndNoTeamBank(t *testing.T) {
	s := timer.DefaultSettings()
	s.TeamBankMinutes = 0
	s.EnableTurnTime = false
	e, _ := newTestEngine(t, s)
	e.EliminatePlayer(2)

	out := NewRenderer(false).Board(e.Snapshot())
	lines := strings.Split(out, "\n")

	assert.Equal(t, "Not started", lines[0])
	assert.Contains(t, lines[4], "Green")
	assert.True(t, strings.HasSuffix(lines[4], "OUT"), lines[4])
	assert.Contains(t, lines[2], "--:--")
}

func TestBoard_ColorsUsePlayerHex(t *testing.T) {
	e, _ := newTestEngine(t, timer.DefaultSettings())
	out := NewRenderer(true).Board(e.Snapshot())

	code, ok := telnet.HexColor("#dc2626")
	require.True(t, ok)
	assert.Contains(t, out, code+"Red")
	assert.Equal(t, NewRenderer(false).Board(e.Snapshot()), telnet.StripANSI(out))
}

func TestStatusLine(t *testing.T) {
	e, tk := newTestEngine(t, timer.DefaultSettings())
	r := NewRenderer(false)

	assert.Equal(t, "Red 30:00 | turn 01:00 | team 10:00 | not started", r.StatusLine(e.Snapshot()))

	e.StartTimer()
	tk.Fire(1)
	assert.Equal(t, "Red 30:00 | turn 00:59 | team 10:00 | running", r.StatusLine(e.Snapshot()))

	require.NoError(t, e.StartTeamBank())
	tk.Fire(1)
	assert.Equal(t, "Red 30:00 | turn 00:59 | team 09:59 (borrowing) | borrowing team bank", r.StatusLine(e.Snapshot()))
}

func TestStatusLine_GameOver(t *testing.T) {
	e, _ := newTestEngine(t, timer.DefaultSettings())
	e.EliminatePlayer(1)
	e.EliminatePlayer(2)
	e.EliminatePlayer(3)

	assert.Equal(t, "Game over: Red wins", NewRenderer(false).StatusLine(e.Snapshot()))
	assert.Equal(t, "[game over]> ", NewRenderer(false).Prompt(e.Snapshot()))
}

func TestTurnOrder(t *testing.T) {
	e, _ := newTestEngine(t, timer.DefaultSettings())
	e.StartTimer()
	e.EndTurn()

	out := NewRenderer(false).TurnOrder(e.TurnOrder())
	assert.Equal(t, "Turn order:\n  Current Turn Blue\n  Next Turn    Green\n  3rd          Yellow\n  4th          Red", out)
	assert.Equal(t, "Nobody is left to play.", NewRenderer(false).TurnOrder(nil))
}

func TestEvent(t *testing.T) {
	r := NewRenderer(false)

	text, ok := r.Event(timer.Event{Kind: timer.EventPlayerEliminated, Player: "Blue"})
	assert.True(t, ok)
	assert.Equal(t, "Blue has been eliminated.", text)

	text, ok = r.Event(timer.Event{Kind: timer.EventGameOver, Player: "Red", HasWinner: true})
	assert.True(t, ok)
	assert.Equal(t, "Game over! Red wins.", text)

	text, ok = r.Event(timer.Event{Kind: timer.EventGameOver})
	assert.True(t, ok)
	assert.Equal(t, "Game over! Nobody is left standing.", text)

	for _, kind := range []timer.EventKind{timer.EventStateChanged, timer.EventTeamBankEmpty, timer.EventValidationError} {
		_, ok := r.Event(timer.Event{Kind: kind})
		assert.False(t, ok, "%s should not be broadcast", kind)
	}
}

func TestHelpListsEveryCommand(t *testing.T) {
	registry := command.DefaultRegistry()
	out := NewRenderer(false).Help(registry)
	for _, cmd := range registry.Commands() {
		assert.Contains(t, out, cmd.Name)
	}
	assert.Contains(t, out, "Clock:")
	assert.Contains(t, out, "Players:")
}

func TestPropertyBoardHasOneLinePerPlayer(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := timer.DefaultSettings()
		s.PlayerCount = rapid.IntRange(timer.MinPlayers, timer.MaxPlayers).Draw(rt, "players")
		e, err := timer.NewEngine(s, clock.NewManualTicker(), nil)
		if err != nil {
			rt.Fatalf("new engine: %v", err)
		}
		color := rapid.Bool().Draw(rt, "color")
		out := telnet.StripANSI(NewRenderer(color).Board(e.Snapshot()))
		if got := strings.Count(out, "\n") + 1; got != s.PlayerCount+2 {
			rt.Fatalf("board has %d lines for %d players", got, s.PlayerCount)
		}
		if strings.Count(out, ">") != 1 {
			rt.Fatalf("board should mark exactly one current player:\n%s", out)
		}
	})
}
