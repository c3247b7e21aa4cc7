// Package command provides the console command registry, parser, and built-in table commands.
package command

import "github.com/cory-johannsen/boardclock/internal/preset"

// Categories for organizing commands.
const (
	CategoryClock   = "clock"
	CategoryPlayers = "players"
	CategoryGame    = "game"
	CategorySystem  = "system"
)

// Handler identifiers naming each built-in command's behavior.
const (
	HandlerStart     = "start"
	HandlerPause     = "pause"
	HandlerResume    = "resume"
	HandlerToggle    = "toggle"
	HandlerEndTurn   = "end"
	HandlerBorrow    = "borrow"
	HandlerReturn    = "return"
	HandlerTeamBank  = "teambank"
	HandlerAdd       = "add"
	HandlerRemove    = "remove"
	HandlerName      = "name"
	HandlerColor     = "color"
	HandlerOrder     = "order"
	HandlerEliminate = "eliminate"
	HandlerReset     = "reset"
	HandlerSettings  = "settings"
	HandlerPreset    = "preset"
	HandlerStatus    = "status"
	HandlerTurns     = "turns"
	HandlerColors    = "colors"
	HandlerWatch     = "watch"
	HandlerHelp      = "help"
	HandlerQuit      = "quit"
)

// View names the rendering of the table shown after a command's reply.
type View int

const (
	// ViewNone shows only the reply text.
	ViewNone View = iota
	// ViewStatus shows the one-line clock status.
	ViewStatus
	// ViewBoard shows every seat.
	ViewBoard
)

// Env is what a table command runs against.
type Env struct {
	Table Table
	// Presets may be nil when no preset directory is configured.
	Presets *preset.Catalog
}

// Result is the outcome of a table command.
type Result struct {
	// Text is the reply; empty when the view says it all.
	Text string
	// Problem marks Text as a refusal.
	Problem bool
	View    View
}

// RunFunc applies a command to the table.
type RunFunc func(env Env, in ParseResult) Result

// Command defines a console command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Help is the short help text displayed at the table.
	Help string
	// Category groups the command (clock, players, game, system).
	Category string
	// Handler identifies the command's behavior.
	Handler string
	// Run drives the table. Nil for commands that only act on the console itself
	// (status, turns, watch, help, quit).
	Run RunFunc
}

// BuiltinCommands returns all built-in table commands.
func BuiltinCommands() []Command {
	return []Command{
		{Name: "start", Aliases: []string{"go"}, Help: "Start the clock", Category: CategoryClock, Handler: HandlerStart, Run: clockOp(Table.StartTimer)},
		{Name: "pause", Help: "Pause the clock", Category: CategoryClock, Handler: HandlerPause, Run: clockOp(Table.Pause)},
		{Name: "resume", Help: "Resume a paused clock", Category: CategoryClock, Handler: HandlerResume, Run: clockOp(Table.Resume)},
		{Name: "toggle", Aliases: []string{"t"}, Help: "Start, pause or resume the clock", Category: CategoryClock, Handler: HandlerToggle, Run: clockOp(Table.TogglePause)},
		{Name: "end", Aliases: []string{"next", "done", "n"}, Help: "End the current turn", Category: CategoryClock, Handler: HandlerEndTurn, Run: clockOp(Table.EndTurn)},
		{Name: "borrow", Aliases: []string{"bank"}, Help: "Borrow time from the team bank", Category: CategoryClock, Handler: HandlerBorrow, Run: runBorrow(false)},
		{Name: "return", Aliases: []string{"unborrow"}, Help: "Stop borrowing from the team bank", Category: CategoryClock, Handler: HandlerReturn, Run: clockOp(Table.StopTeamBank)},
		{Name: "teambank", Aliases: []string{"tb"}, Help: "Toggle borrowing from the team bank", Category: CategoryClock, Handler: HandlerTeamBank, Run: runBorrow(true)},

		{Name: "add", Help: "Add a player to the table", Category: CategoryPlayers, Handler: HandlerAdd, Run: boardOp(Table.AddPlayer)},
		{Name: "remove", Aliases: []string{"rm"}, Help: "Remove the last player", Category: CategoryPlayers, Handler: HandlerRemove, Run: boardOp(Table.RemovePlayer)},
		{Name: "name", Aliases: []string{"rename"}, Help: "Rename a player (name <seat> <name>)", Category: CategoryPlayers, Handler: HandlerName, Run: replyOp(func(env Env, in ParseResult) string {
			return HandleName(env.Table, in.RawArgs)
		})},
		{Name: "color", Aliases: []string{"colour"}, Help: "Set a player's color (color <seat> <name|#rrggbb|rgb(r,g,b)>)", Category: CategoryPlayers, Handler: HandlerColor, Run: replyOp(func(env Env, in ParseResult) string {
			return HandleColor(env.Table, in.RawArgs)
		})},
		{Name: "order", Aliases: []string{"seat"}, Help: "Reorder players (order <seat> <seat> ...)", Category: CategoryPlayers, Handler: HandlerOrder, Run: replyOp(func(env Env, in ParseResult) string {
			return HandleOrder(env.Table, in.Args)
		})},
		{Name: "eliminate", Aliases: []string{"forfeit", "elim"}, Help: "Eliminate a player (eliminate <seat>)", Category: CategoryPlayers, Handler: HandlerEliminate, Run: func(env Env, in ParseResult) Result {
			return statusUnless(HandleEliminate(env.Table, in.Args))
		}},

		{Name: "reset", Help: "Restart the game with the current settings", Category: CategoryGame, Handler: HandlerReset, Run: boardOp(Table.Reset)},
		{Name: "settings", Aliases: []string{"set"}, Help: "Show or change settings (set players=4 bank=30 turn=60 team=10 turntime=on)", Category: CategoryGame, Handler: HandlerSettings, Run: replyOp(func(env Env, in ParseResult) string {
			return HandleSettings(env.Table, in.Args)
		})},
		{Name: "preset", Aliases: []string{"presets"}, Help: "List presets or apply one (preset <name>)", Category: CategoryGame, Handler: HandlerPreset, Run: replyOp(func(env Env, in ParseResult) string {
			return HandlePreset(env.Table, env.Presets, in.RawArgs)
		})},

		{Name: "status", Aliases: []string{"look", "l"}, Help: "Show every player's clock", Category: CategorySystem, Handler: HandlerStatus},
		{Name: "turns", Aliases: []string{"queue"}, Help: "Show the upcoming turn order", Category: CategorySystem, Handler: HandlerTurns},
		{Name: "watch", Aliases: []string{"w"}, Help: "Toggle a live clock line", Category: CategorySystem, Handler: HandlerWatch},
		{Name: "colors", Aliases: []string{"palette"}, Help: "List the color palette", Category: CategorySystem, Handler: HandlerColors, Run: replyOp(func(Env, ParseResult) string {
			return RenderPalette()
		})},
		{Name: "help", Aliases: []string{"?"}, Help: "Show available commands", Category: CategorySystem, Handler: HandlerHelp},
		{Name: "quit", Aliases: []string{"exit"}, Help: "Leave the table console", Category: CategorySystem, Handler: HandlerQuit},
	}
}

// clockOp runs op and shows the clock status line.
func clockOp(op func(Table)) RunFunc {
	return func(env Env, _ ParseResult) Result {
		op(env.Table)
		return Result{View: ViewStatus}
	}
}

// boardOp runs op and shows the whole board.
func boardOp(op func(Table)) RunFunc {
	return func(env Env, _ ParseResult) Result {
		op(env.Table)
		return Result{View: ViewBoard}
	}
}

// replyOp shows only the text fn returns.
func replyOp(fn func(Env, ParseResult) string) RunFunc {
	return func(env Env, in ParseResult) Result {
		return Result{Text: fn(env, in)}
	}
}

func runBorrow(toggle bool) RunFunc {
	return func(env Env, _ ParseResult) Result {
		return statusUnless(HandleBorrow(env.Table, toggle))
	}
}

// statusUnless reports problem as a refusal, or shows the status line when it is empty.
func statusUnless(problem string) Result {
	if problem != "" {
		return Result{Text: problem, Problem: true}
	}
	return Result{View: ViewStatus}
}
