package timer_test

import (
	"testing"

	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/boardclock/internal/clock"
	"github.com/cory-johannsen/boardclock/internal/timer"
)

func checkInvariants(t *rapid.T, prev, snap timer.Snapshot) {
	active := 0
	survivors := 0
	for i, p := range snap.Players {
		if p.Active {
			active++
			if p.Eliminated {
				t.Fatalf("player %d is active and eliminated", i)
			}
		}
		if !p.Eliminated {
			survivors++
		}
		if p.BankTime < 0 || p.TurnTime < 0 {
			t.Fatalf("player %d has negative time: bank=%d turn=%d", i, p.BankTime, p.TurnTime)
		}
		if p.ID != i {
			t.Fatalf("player at %d has id %d", i, p.ID)
		}
	}
	if active > 1 {
		t.Fatalf("%d active players", active)
	}
	if !snap.GameOver && survivors > 0 && active != 1 {
		t.Fatalf("%d survivors but %d active", survivors, active)
	}
	if snap.HasWinner {
		found := false
		for _, p := range snap.Players {
			if p.Name == snap.Winner && !p.Eliminated {
				found = true
			}
		}
		if !found {
			t.Fatalf("winner %q is not a surviving player", snap.Winner)
		}
	}
	if prev.GameID == snap.GameID && prev.GameOver && !prev.HasWinner && snap.HasWinner {
		t.Fatalf("game over without a winner later named %q", snap.Winner)
	}
	if snap.TeamBank < 0 {
		t.Fatalf("negative team bank %d", snap.TeamBank)
	}
	if snap.UsingTeamBank && (snap.Paused || !snap.Running) {
		t.Fatalf("team bank in use while running=%v paused=%v", snap.Running, snap.Paused)
	}
	if len(snap.Players) != snap.Settings.PlayerCount {
		t.Fatalf("%d players, settings say %d", len(snap.Players), snap.Settings.PlayerCount)
	}

	// Elimination is monotonic within one game while the roster does not shrink.
	if prev.GameID == snap.GameID && len(snap.Players) >= len(prev.Players) {
		if eliminatedCount(snap) < eliminatedCount(prev) {
			t.Fatalf("eliminated players went from %d to %d", eliminatedCount(prev), eliminatedCount(snap))
		}
	}
}

func eliminatedCount(snap timer.Snapshot) int {
	n := 0
	for _, p := range snap.Players {
		if p.Eliminated {
			n++
		}
	}
	return n
}

func TestProperty_EngineInvariantsHold(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := timer.Settings{
			PlayerCount:     rapid.IntRange(timer.MinPlayers, 5).Draw(t, "players"),
			BankTimeMinutes: 1,
			TurnTimeSeconds: 10,
			TeamBankMinutes: rapid.IntRange(0, 1).Draw(t, "team"),
			EnableTurnTime:  rapid.Bool().Draw(t, "enable_turn"),
		}
		tk := clock.NewManualTicker()
		e, err := timer.NewEngine(s, tk, zap.NewNop())
		if err != nil {
			t.Fatalf("NewEngine: %v", err)
		}

		ops := []func(){
			func() { tk.Fire(rapid.IntRange(1, 40).Draw(t, "ticks")) },
			e.StartTimer,
			e.Pause,
			e.Resume,
			e.TogglePause,
			e.EndTurn,
			func() { _ = e.ToggleTeamBank() },
			e.AddPlayer,
			e.RemovePlayer,
			func() { e.EliminatePlayer(rapid.IntRange(0, 5).Draw(t, "eliminate")) },
			func() {
				e.EditPlayer(rapid.IntRange(0, 5).Draw(t, "edit"),
					rapid.SampledFrom([]string{"", "Ann", "Bob"}).Draw(t, "name"),
					rapid.SampledFrom([]string{"", "#abc", "nope"}).Draw(t, "color"))
			},
			func() {
				n := len(e.Snapshot().Players)
				perm := rapid.Permutation(seq(n)).Draw(t, "order")
				entries := make([]timer.TurnOrderEntry, n)
				for i, id := range perm {
					entries[i] = timer.TurnOrderEntry{ID: id}
				}
				e.ApplyTurnOrder(entries)
			},
		}

		prev := e.Snapshot()
		steps := rapid.IntRange(1, 60).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			ops[rapid.IntRange(0, len(ops)-1).Draw(t, "op")]()
			snap := e.Snapshot()
			checkInvariants(t, prev, snap)
			if snap.GameOver && tk.Running() {
				t.Fatalf("ticker running after game over")
			}
			prev = snap
		}
	})
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
