// Package config provides Viper-based configuration loading for the table clock.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cory-johannsen/boardclock/internal/timer"
)

// ConsoleConfig selects how players reach the table console.
type ConsoleConfig struct {
	// Mode is "telnet" to serve the console over TCP or "stdio" to use the terminal.
	Mode string `mapstructure:"mode"`
	// Color enables ANSI colors in console output.
	Color bool `mapstructure:"color"`
}

// TelnetConfig holds Telnet acceptor settings.
type TelnetConfig struct {
	// Host is the bind address for the Telnet listener.
	Host string `mapstructure:"host"`
	// Port is the TCP port for the Telnet listener.
	Port int `mapstructure:"port"`
	// ReadTimeout is the per-read timeout for Telnet connections; zero disables it.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout is the per-write timeout for Telnet connections.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// MaxSessions caps concurrent consoles; zero means no limit.
	MaxSessions int `mapstructure:"max_sessions"`
}

// Addr returns the "host:port" listen address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (t TelnetConfig) Addr() string {
	return fmt.Sprintf("%s:%d", t.Host, t.Port)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is "stderr", "stdout", or a file path. The stdio console needs a
	// destination other than stdout.
	Output string `mapstructure:"output"`
}

// TableConfig holds the settings a table starts with.
type TableConfig struct {
	PlayerCount     int  `mapstructure:"player_count"`
	BankTimeMinutes int  `mapstructure:"bank_time_minutes"`
	TurnTimeSeconds int  `mapstructure:"turn_time_seconds"`
	TeamBankMinutes int  `mapstructure:"team_bank_minutes"`
	EnableTurnTime  bool `mapstructure:"enable_turn_time"`
	// TickInterval is the clock cadence; one tick consumes one second of game time.
	TickInterval time.Duration `mapstructure:"tick_interval"`
	// PresetDir is a directory of preset YAML files; empty disables presets.
	PresetDir string `mapstructure:"preset_dir"`
	// DefaultPreset, if set, overrides the settings above at startup.
	DefaultPreset string `mapstructure:"default_preset"`
}

// Settings converts the table section into engine settings.
func (t TableConfig) Settings() timer.Settings {
	return timer.Settings{
		PlayerCount:     t.PlayerCount,
		BankTimeMinutes: t.BankTimeMinutes,
		TurnTimeSeconds: t.TurnTimeSeconds,
		TeamBankMinutes: t.TeamBankMinutes,
		EnableTurnTime:  t.EnableTurnTime,
	}
}

// Config is the top-level application configuration.
type Config struct {
	Console ConsoleConfig `mapstructure:"console"`
	Telnet  TelnetConfig  `mapstructure:"telnet"`
	Logging LoggingConfig `mapstructure:"logging"`
	Table   TableConfig   `mapstructure:"table"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateConsole(c.Console); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Console.Mode == "telnet" {
		if err := validateTelnet(c.Telnet); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Console.Mode == "stdio" && c.Logging.Output == "stdout" {
		errs = append(errs, "logging.output must not be stdout in stdio console mode")
	}
	if err := validateTable(c.Table); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateConsole(c ConsoleConfig) error {
	validModes := map[string]bool{"telnet": true, "stdio": true}
	if !validModes[c.Mode] {
		return fmt.Errorf("console.mode must be one of [telnet, stdio], got %q", c.Mode)
	}
	return nil
}

func validateTelnet(t TelnetConfig) error {
	var errs []string
	if t.Port < 1 || t.Port > 65535 {
		errs = append(errs, fmt.Sprintf("telnet.port must be 1-65535, got %d", t.Port))
	}
	if t.ReadTimeout < 0 {
		errs = append(errs, "telnet.read_timeout must not be negative")
	}
	if t.WriteTimeout < 0 {
		errs = append(errs, "telnet.write_timeout must not be negative")
	}
	if t.MaxSessions < 0 {
		errs = append(errs, fmt.Sprintf("telnet.max_sessions must not be negative, got %d", t.MaxSessions))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	if l.Output == "" {
		return fmt.Errorf("logging.output must not be empty")
	}
	return nil
}

func validateTable(t TableConfig) error {
	var errs []string
	if err := t.Settings().Validate(); err != nil {
		errs = append(errs, "table: "+err.Error())
	}
	if t.TickInterval <= 0 {
		errs = append(errs, fmt.Sprintf("table.tick_interval must be > 0, got %s", t.TickInterval))
	}
	if t.DefaultPreset != "" && t.PresetDir == "" {
		errs = append(errs, "table.default_preset requires table.preset_dir")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with BOARDCLOCK_ prefix
	v.SetEnvPrefix("BOARDCLOCK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	return LoadFromViper(v)
}

// Default returns the validated default configuration without reading a file.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Default() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BOARDCLOCK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("console.mode", "telnet")
	v.SetDefault("console.color", true)

	v.SetDefault("telnet.host", "0.0.0.0")
	v.SetDefault("telnet.port", 4100)
	v.SetDefault("telnet.read_timeout", "0s")
	v.SetDefault("telnet.write_timeout", "30s")
	v.SetDefault("telnet.max_sessions", 16)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stderr")

	d := timer.DefaultSettings()
	v.SetDefault("table.player_count", d.PlayerCount)
	v.SetDefault("table.bank_time_minutes", d.BankTimeMinutes)
	v.SetDefault("table.turn_time_seconds", d.TurnTimeSeconds)
	v.SetDefault("table.team_bank_minutes", d.TeamBankMinutes)
	v.SetDefault("table.enable_turn_time", d.EnableTurnTime)
	v.SetDefault("table.tick_interval", "1s")
	v.SetDefault("table.preset_dir", "")
	v.SetDefault("table.default_preset", "")
}
