// Package handlers implements the table console: a command loop that drives the
// timer engine and renders its state to a terminal.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/boardclock/internal/command"
	"github.com/cory-johannsen/boardclock/internal/frontend/telnet"
	"github.com/cory-johannsen/boardclock/internal/preset"
	"github.com/cory-johannsen/boardclock/internal/timer"
)

// eventBuffer bounds the events queued for one console. A console that falls further
// behind misses intermediate updates rather than stalling the clock.
const eventBuffer = 64

// Table is the engine surface a console needs: the command operations plus event delivery.
type Table interface {
	command.Table
	Subscribe(h timer.EventHandler) (unsubscribe func())
}

// TableHandler runs console sessions against one shared table.
// It implements telnet.SessionHandler.
type TableHandler struct {
	table    Table
	registry *command.Registry
	presets  *preset.Catalog
	render   Renderer
	logger   *zap.Logger
}

var _ telnet.SessionHandler = (*TableHandler)(nil)

// NewTableHandler creates a console handler for table.
//
// Precondition: table and logger must be non-nil; presets may be nil.
// Postcondition: Returns a handler using the default command registry.
func NewTableHandler(table Table, presets *preset.Catalog, color bool, logger *zap.Logger) *TableHandler {
	return &TableHandler{
		table:    table,
		registry: command.DefaultRegistry(),
		presets:  presets,
		render:   NewRenderer(color),
		logger:   logger,
	}
}

// session is the per-terminal state of one console.
type session struct {
	h    *TableHandler
	term telnet.Terminal

	mu       sync.Mutex
	watching bool
}

// HandleSession runs the command loop on term until the user quits, input ends, or
// ctx is cancelled. Broadcast events are written to term as they happen.
//
// Postcondition: Returns nil on quit or end of input, ctx.Err() on cancellation,
// or a wrapped error on I/O failure.
func (h *TableHandler) HandleSession(ctx context.Context, term telnet.Terminal) error {
	s := &session{h: h, term: term}

	events := make(chan timer.Event, eventBuffer)
	unsubscribe := h.table.Subscribe(func(ev timer.Event) {
		select {
		case events <- ev:
		default:
		}
	})
	defer unsubscribe()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.forwardEvents(ctx, events)
	}()

	h.logger.Info("console session started")
	_ = term.WriteLine(h.render.Style.Apply(telnet.BrightWhite, "Board game clock. Type 'help' for commands."))
	_ = term.WriteLine(h.render.Board(h.table.Snapshot()))

	err := s.commandLoop(ctx)
	cancel()
	wg.Wait()

	h.logger.Info("console session ended", zap.Error(err))
	return err
}

// forwardEvents writes broadcast events and live status updates to the terminal.
func (s *session) forwardEvents(ctx context.Context, events <-chan timer.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			if text, ok := s.h.render.Event(ev); ok {
				_ = s.term.WriteStatus(text)
				_ = s.term.WriteLine("")
				_ = s.term.WritePrompt(s.h.render.Prompt(s.h.table.Snapshot()))
				continue
			}
			if ev.Kind == timer.EventStateChanged && s.isWatching() {
				snap := s.h.table.Snapshot()
				_ = s.term.WriteStatus(s.h.render.StatusLine(snap) + "  " + s.h.render.Prompt(snap))
			}
		}
	}
}

func (s *session) isWatching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watching
}

func (s *session) toggleWatch() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watching = !s.watching
	return s.watching
}

// commandLoop reads lines, resolves commands and applies them to the table.
//
// Postcondition: Returns nil on quit or end of input, ctx.Err() on cancellation,
// or a wrapped error on read failure.
func (s *session) commandLoop(ctx context.Context) error {
	for {
		if err := s.term.WritePrompt(s.h.render.Prompt(s.h.table.Snapshot())); err != nil {
			return fmt.Errorf("writing prompt: %w", err)
		}

		line, err := s.term.ReadLine()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		reply, quit := s.h.execute(command.Parse(line), s)
		if reply != "" {
			if err := s.term.WriteLine(reply); err != nil {
				return fmt.Errorf("writing reply: %w", err)
			}
		}
		if quit {
			return nil
		}
	}
}

// execute applies one parsed command and returns the text to show.
// s may be nil when no terminal is attached; watch then has no effect.
//
// Postcondition: quit is true only for the quit command.
func (h *TableHandler) execute(parsed command.ParseResult, s *session) (reply string, quit bool) {
	cmd, ok := h.registry.Resolve(parsed.Command)
	if !ok {
		h.logger.Debug("unknown command", zap.String("command", parsed.Command))
		return h.render.Error(fmt.Sprintf("Unknown command %q. Type 'help' for commands.", parsed.Command)), false
	}
	if cmd.Run != nil {
		return h.present(cmd.Run(command.Env{Table: h.table, Presets: h.presets}, parsed)), false
	}

	switch cmd.Handler {
	case command.HandlerStatus:
		return h.render.Board(h.table.Snapshot()), false
	case command.HandlerTurns:
		return h.render.TurnOrder(h.table.TurnOrder()), false
	case command.HandlerWatch:
		if s == nil {
			return "", false
		}
		if s.toggleWatch() {
			return "Watching the clock. Type 'watch' again to stop.", false
		}
		return "Stopped watching.", false
	case command.HandlerHelp:
		return h.render.Help(h.registry), false
	case command.HandlerQuit:
		return h.render.Style.Apply(telnet.Cyan, "Leaving the table. The clock keeps running."), true
	default:
		h.logger.Warn("command has no handler", zap.String("command", cmd.Name), zap.String("handler", cmd.Handler))
		return h.render.Error(fmt.Sprintf("%s is not available.", cmd.Name)), false
	}
}

// present renders a command result: the reply, then the view it asks for.
func (h *TableHandler) present(res command.Result) string {
	text := res.Text
	if res.Problem {
		text = h.render.Error(text)
	}
	var view string
	switch res.View {
	case command.ViewStatus:
		view = h.render.StatusLine(h.table.Snapshot())
	case command.ViewBoard:
		view = h.render.Board(h.table.Snapshot())
	}
	switch {
	case text == "":
		return view
	case view == "":
		return text
	default:
		return text + "\n" + view
	}
}
