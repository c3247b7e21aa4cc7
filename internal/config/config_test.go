package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/boardclock/internal/timer"
)

func validConfig() Config {
	return Config{
		Console: ConsoleConfig{
			Mode:  "telnet",
			Color: true,
		},
		Telnet: TelnetConfig{
			Host:         "0.0.0.0",
			Port:         4100,
			ReadTimeout:  5 * time.Minute,
			WriteTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stderr",
		},
		Table: TableConfig{
			PlayerCount:     4,
			BankTimeMinutes: 30,
			TurnTimeSeconds: 60,
			TeamBankMinutes: 10,
			EnableTurnTime:  true,
			TickInterval:    time.Second,
		},
	}
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestTelnetAddr(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "0.0.0.0:4100", cfg.Telnet.Addr())
}

func TestTableSettings(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, timer.DefaultSettings(), cfg.Table.Settings())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	err := os.WriteFile(path, []byte(`
console:
  mode: stdio
  color: false
telnet:
  host: 127.0.0.1
  port: 4101
logging:
  level: debug
  format: console
table:
  player_count: 6
  bank_time_minutes: 45
  turn_time_seconds: 90
  team_bank_minutes: 0
  enable_turn_time: false
  tick_interval: 500ms
`), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "stdio", cfg.Console.Mode)
	assert.False(t, cfg.Console.Color)
	assert.Equal(t, 4101, cfg.Telnet.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 6, cfg.Table.PlayerCount)
	assert.Equal(t, 45, cfg.Table.BankTimeMinutes)
	assert.Equal(t, 90, cfg.Table.TurnTimeSeconds)
	assert.Equal(t, 0, cfg.Table.TeamBankMinutes)
	assert.False(t, cfg.Table.EnableTurnTime)
	assert.Equal(t, 500*time.Millisecond, cfg.Table.TickInterval)
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: warn\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "stderr", cfg.Logging.Output)
	assert.Equal(t, "telnet", cfg.Console.Mode)
	assert.Equal(t, timer.DefaultSettings(), cfg.Table.Settings())
	assert.Equal(t, time.Second, cfg.Table.TickInterval)
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte("table:\n  player_count: 3\n"), 0644))
	t.Setenv("BOARDCLOCK_TABLE_PLAYER_COUNT", "8")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Table.PlayerCount)
}

func TestLoadRejectsInvalidTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte("table:\n  bank_time_minutes: 500\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bank_time_minutes")
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:4100", cfg.Telnet.Addr())
	assert.Equal(t, 16, cfg.Telnet.MaxSessions)
	assert.Equal(t, timer.DefaultSettings(), cfg.Table.Settings())
}

func TestValidateConsoleMode(t *testing.T) {
	for _, mode := range []string{"telnet", "stdio"} {
		cfg := validConfig()
		cfg.Console.Mode = mode
		assert.NoError(t, cfg.Validate(), "mode %q should be valid", mode)
	}
	cfg := validConfig()
	cfg.Console.Mode = "invalid"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := validConfig()
		cfg.Logging.Level = level
		assert.NoError(t, cfg.Validate(), "level %q should be valid", level)
	}
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingFormat(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		cfg := validConfig()
		cfg.Logging.Format = format
		assert.NoError(t, cfg.Validate(), "format %q should be valid", format)
	}
	cfg := validConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingOutput(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Output = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Console.Mode = "stdio"
	cfg.Logging.Output = "stdout"
	assert.Error(t, cfg.Validate())

	cfg.Logging.Output = "/tmp/boardclock.log"
	assert.NoError(t, cfg.Validate())
}

func TestValidateTelnetPort(t *testing.T) {
	cfg := validConfig()
	cfg.Telnet.Port = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateTelnetMaxSessions(t *testing.T) {
	cfg := validConfig()
	cfg.Telnet.MaxSessions = -1
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telnet.max_sessions")

	cfg.Telnet.MaxSessions = 0
	assert.NoError(t, cfg.Validate())
}

func TestValidateTelnetIgnoredInStdioMode(t *testing.T) {
	cfg := validConfig()
	cfg.Console.Mode = "stdio"
	cfg.Telnet.Port = 0
	assert.NoError(t, cfg.Validate())
}

func TestValidateTickInterval(t *testing.T) {
	cfg := validConfig()
	cfg.Table.TickInterval = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateDefaultPresetNeedsDir(t *testing.T) {
	cfg := validConfig()
	cfg.Table.DefaultPreset = "blitz"
	assert.Error(t, cfg.Validate())

	cfg.Table.PresetDir = "content/presets"
	assert.NoError(t, cfg.Validate())
}

func TestValidateAggregatesErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	cfg.Table.PlayerCount = 1
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")
	assert.Contains(t, err.Error(), "player_count")
}

// Property-based tests

func TestPropertyValidPortRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		port := rapid.IntRange(1, 65535).Draw(t, "port")
		cfg := validConfig()
		cfg.Telnet.Port = port
		err := cfg.Validate()
		if err != nil {
			t.Fatalf("valid port %d rejected: %v", port, err)
		}
	})
}

func TestPropertyInvalidPortRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		port := rapid.OneOf(
			rapid.IntRange(-1000, 0),
			rapid.IntRange(65536, 100000),
		).Draw(t, "port")
		cfg := validConfig()
		cfg.Telnet.Port = port
		err := cfg.Validate()
		if err == nil {
			t.Fatalf("invalid port %d accepted", port)
		}
	})
}

func TestPropertyTableRangesAccepted(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := validConfig()
		cfg.Table.PlayerCount = rapid.IntRange(timer.MinPlayers, timer.MaxPlayers).Draw(t, "players")
		cfg.Table.BankTimeMinutes = rapid.IntRange(timer.MinBankTimeMinutes, timer.MaxBankTimeMinutes).Draw(t, "bank")
		cfg.Table.TurnTimeSeconds = rapid.IntRange(timer.MinTurnTimeSeconds, timer.MaxTurnTimeSeconds).Draw(t, "turn")
		cfg.Table.TeamBankMinutes = rapid.IntRange(timer.MinTeamBankMinutes, timer.MaxTeamBankMinutes).Draw(t, "team")
		if err := cfg.Validate(); err != nil {
			t.Fatalf("valid table rejected: %v", err)
		}
	})
}

func TestPropertyPlayerCountOutOfRangeRejected(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.OneOf(
			rapid.IntRange(-10, timer.MinPlayers-1),
			rapid.IntRange(timer.MaxPlayers+1, 100),
		).Draw(t, "players")
		cfg := validConfig()
		cfg.Table.PlayerCount = n
		if err := cfg.Validate(); err == nil {
			t.Fatalf("player count %d accepted", n)
		}
	})
}
