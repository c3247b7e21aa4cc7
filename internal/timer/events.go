package timer

// EventKind identifies a signal emitted by the engine.
type EventKind int

const (
	// EventStateChanged follows any mutation of game state.
	EventStateChanged EventKind = iota
	// EventPlayerEliminated reports a player whose bank time ran out or who was removed from play.
	EventPlayerEliminated
	// EventGameOver reports the end of the game, with or without a winner.
	EventGameOver
	// EventTeamBankEmpty reports a rejected attempt to borrow from an empty team bank.
	EventTeamBankEmpty
	// EventValidationError reports rejected settings.
	EventValidationError
)

// String returns a human-readable event label.
func (k EventKind) String() string {
	switch k {
	case EventStateChanged:
		return "state changed"
	case EventPlayerEliminated:
		return "player eliminated"
	case EventGameOver:
		return "game over"
	case EventTeamBankEmpty:
		return "team bank empty"
	case EventValidationError:
		return "validation error"
	default:
		return "unknown"
	}
}

// Event is a signal delivered to subscribers after the operation that caused it completes.
type Event struct {
	Kind EventKind
	// Player is the name of the eliminated player or the winner.
	Player string
	// HasWinner is set on EventGameOver when a player survived.
	HasWinner bool
	// Reason carries the validation failure for EventValidationError.
	Reason string
}

// EventHandler receives engine events. Handlers run on the goroutine that performed
// the operation, after the engine lock is released, so they may call back into the engine.
type EventHandler func(Event)
