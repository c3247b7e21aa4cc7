package timer

import "fmt"

// Settings ranges.
const (
	MinPlayers = 2
	MaxPlayers = 12

	MinBankTimeMinutes = 1
	MaxBankTimeMinutes = 180

	MinTurnTimeSeconds = 10
	MaxTurnTimeSeconds = 600

	MinTeamBankMinutes = 0
	MaxTeamBankMinutes = 60
)

// Settings configures one game. A game's settings are replaced wholesale on reconfigure.
type Settings struct {
	PlayerCount     int
	BankTimeMinutes int
	TurnTimeSeconds int
	TeamBankMinutes int
	EnableTurnTime  bool
}

// DefaultSettings returns the settings a fresh table starts with.
func DefaultSettings() Settings {
	return Settings{
		PlayerCount:     4,
		BankTimeMinutes: 30,
		TurnTimeSeconds: 60,
		TeamBankMinutes: 10,
		EnableTurnTime:  true,
	}
}

// BankTimeSeconds returns the starting bank time per player.
func (s Settings) BankTimeSeconds() int { return s.BankTimeMinutes * 60 }

// TeamBankSeconds returns the starting shared pool.
func (s Settings) TeamBankSeconds() int { return s.TeamBankMinutes * 60 }

// ValidationError reports a settings value outside its allowed range.
type ValidationError struct {
	// Field is the settings key that failed, e.g. "bank_time_minutes".
	Field string
	// Reason is a human-readable description suitable for display.
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks every field against its range, reporting the first violation.
// Bank, turn and team bank are checked before player count.
//
// Postcondition: Returns nil or a *ValidationError.
func (s Settings) Validate() error {
	if s.BankTimeMinutes < MinBankTimeMinutes || s.BankTimeMinutes > MaxBankTimeMinutes {
		return &ValidationError{
			Field:  "bank_time_minutes",
			Reason: fmt.Sprintf("bank time must be between %d and %d minutes", MinBankTimeMinutes, MaxBankTimeMinutes),
		}
	}
	if s.TurnTimeSeconds < MinTurnTimeSeconds || s.TurnTimeSeconds > MaxTurnTimeSeconds {
		return &ValidationError{
			Field:  "turn_time_seconds",
			Reason: fmt.Sprintf("turn time must be between %d and %d seconds", MinTurnTimeSeconds, MaxTurnTimeSeconds),
		}
	}
	if s.TeamBankMinutes < MinTeamBankMinutes || s.TeamBankMinutes > MaxTeamBankMinutes {
		return &ValidationError{
			Field:  "team_bank_minutes",
			Reason: fmt.Sprintf("team bank time must be between %d and %d minutes", MinTeamBankMinutes, MaxTeamBankMinutes),
		}
	}
	if s.PlayerCount < MinPlayers || s.PlayerCount > MaxPlayers {
		return &ValidationError{
			Field:  "player_count",
			Reason: fmt.Sprintf("player count must be between %d and %d", MinPlayers, MaxPlayers),
		}
	}
	return nil
}
