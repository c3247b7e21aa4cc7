// Package main runs the board game table clock. One engine is shared by every console:
// Telnet clients on the configured port, or the local terminal in stdio mode.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/cory-johannsen/boardclock/internal/clock"
	"github.com/cory-johannsen/boardclock/internal/config"
	"github.com/cory-johannsen/boardclock/internal/frontend/handlers"
	"github.com/cory-johannsen/boardclock/internal/frontend/telnet"
	"github.com/cory-johannsen/boardclock/internal/observability"
	"github.com/cory-johannsen/boardclock/internal/preset"
	"github.com/cory-johannsen/boardclock/internal/server"
	"github.com/cory-johannsen/boardclock/internal/timer"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file (defaults apply when empty)")
	presetDir := flag.String("presets", "", "path to preset YAML files directory (overrides table.preset_dir)")
	presetName := flag.String("preset", "", "preset to start with (overrides table.default_preset)")
	stdio := flag.Bool("stdio", false, "run the console on this terminal instead of serving Telnet")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *presetDir != "" {
		cfg.Table.PresetDir = *presetDir
	}
	if *presetName != "" {
		cfg.Table.DefaultPreset = *presetName
	}
	if *stdio {
		cfg.Console.Mode = "stdio"
		if cfg.Logging.Output == "stdout" {
			cfg.Logging.Output = "stderr"
		}
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("validating config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting board game clock",
		zap.String("console", cfg.Console.Mode),
		zap.Duration("tick_interval", cfg.Table.TickInterval),
	)

	presets, settings, err := loadPresets(cfg.Table, logger)
	if err != nil {
		logger.Fatal("loading presets", zap.Error(err))
	}

	ticker := clock.NewPeriodicTicker(clockwork.NewRealClock(), cfg.Table.TickInterval)
	engine, err := timer.NewEngine(settings, ticker, logger)
	if err != nil {
		logger.Fatal("creating table", zap.Error(err))
	}
	logger.Info("table ready",
		zap.String("game_id", engine.GameID().String()),
		zap.Int("players", settings.PlayerCount),
	)

	console := handlers.NewTableHandler(engine, presets, cfg.Console.Color, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lifecycle := server.NewLifecycle(logger)

	engineDone := make(chan struct{})
	lifecycle.Add("table", &server.FuncService{
		StartFn: func() error {
			<-engineDone
			return nil
		},
		StopFn: func() {
			engine.Pause()
			close(engineDone)
		},
	})

	switch cfg.Console.Mode {
	case "stdio":
		term := telnet.NewStreamTerminal(os.Stdin, os.Stdout)
		lifecycle.AddPrimary("console", &server.FuncService{
			StartFn: func() error {
				err := console.HandleSession(ctx, term)
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			},
			StopFn: cancel,
		})
	default:
		acceptor := telnet.NewAcceptor(cfg.Telnet, console, logger)
		lifecycle.Add("telnet", &server.FuncService{
			StartFn: acceptor.ListenAndServe,
			StopFn:  acceptor.Stop,
		})
	}

	logger.Info("server initialized",
		zap.Duration("startup", time.Since(start)),
		zap.String("telnet_addr", cfg.Telnet.Addr()),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

// loadConfig reads path, or returns the defaults when path is empty.
func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default()
	}
	return config.Load(path)
}

// loadPresets loads the preset catalog and picks the starting settings: the default
// preset when one is configured, otherwise the table section.
//
// Postcondition: Returns a nil catalog when no preset directory is configured.
func loadPresets(table config.TableConfig, logger *zap.Logger) (*preset.Catalog, timer.Settings, error) {
	settings := table.Settings()
	if table.PresetDir == "" {
		return nil, settings, nil
	}

	catalog, err := preset.LoadFromDir(table.PresetDir)
	if err != nil {
		return nil, settings, err
	}
	logger.Info("presets loaded",
		zap.String("dir", table.PresetDir),
		zap.Strings("names", catalog.Names()),
	)

	if table.DefaultPreset == "" {
		return catalog, settings, nil
	}
	p, ok := catalog.Get(table.DefaultPreset)
	if !ok {
		return nil, settings, fmt.Errorf("default preset %q not found in %s", table.DefaultPreset, table.PresetDir)
	}
	return catalog, p.Settings, nil
}
