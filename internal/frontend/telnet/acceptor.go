package telnet

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/boardclock/internal/config"
)

// TableFullMessage is sent to a client that connects while every console slot is taken.
const TableFullMessage = "The table is full. Try again later."

// SessionHandler runs the console command loop for a single terminal.
// The same handler serves Telnet clients and the local console.
type SessionHandler interface {
	HandleSession(ctx context.Context, term Terminal) error
}

// Acceptor serves the table console to Telnet clients, one session per connection.
//
// Invariant: len(conns) <= cfg.MaxSessions when MaxSessions > 0.
type Acceptor struct {
	cfg     config.TelnetConfig
	handler SessionHandler
	logger  *zap.Logger

	// ctx is cancelled by Stop and parents every session context.
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	listener net.Listener
	running  bool
	conns    map[*Conn]struct{}
}

// NewAcceptor creates a Telnet acceptor with the given configuration.
//
// Precondition: handler and logger must be non-nil.
// Postcondition: Returns an Acceptor ready to be started with ListenAndServe.
func NewAcceptor(cfg config.TelnetConfig, handler SessionHandler, logger *zap.Logger) *Acceptor {
	ctx, cancel := context.WithCancel(context.Background())
	return &Acceptor{
		cfg:     cfg,
		handler: handler,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		conns:   make(map[*Conn]struct{}),
	}
}

// ListenAndServe listens on the configured address and serves consoles until Stop.
//
// Precondition: The acceptor must not already be running.
// Postcondition: Returns nil after Stop, or the listen error.
func (a *Acceptor) ListenAndServe() error {
	listener, err := net.Listen("tcp", a.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", a.cfg.Addr(), err)
	}

	a.mu.Lock()
	a.listener = listener
	a.running = true
	a.mu.Unlock()

	a.logger.Info("telnet console listening",
		zap.String("addr", listener.Addr().String()),
		zap.Int("max_sessions", a.cfg.MaxSessions),
	)

	for {
		raw, err := listener.Accept()
		if err != nil {
			if a.ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			a.logger.Error("accepting connection", zap.Error(err))
			continue
		}
		a.wg.Add(1)
		go a.serve(NewConn(raw, a.cfg.ReadTimeout, a.cfg.WriteTimeout))
	}
}

// admit registers conn as a session.
//
// Postcondition: Returns the session count including conn, or an error when the
// acceptor is stopping or full.
func (a *Acceptor) admit(conn *Conn) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.running {
		return 0, errors.New("acceptor stopped")
	}
	if a.cfg.MaxSessions > 0 && len(a.conns) >= a.cfg.MaxSessions {
		return 0, errTableFull
	}
	a.conns[conn] = struct{}{}
	return len(a.conns), nil
}

var errTableFull = errors.New("table full")

func (a *Acceptor) release(conn *Conn) {
	a.mu.Lock()
	delete(a.conns, conn)
	a.mu.Unlock()
	conn.Close()
}

// serve runs one console session on conn and closes it afterwards.
func (a *Acceptor) serve(conn *Conn) {
	defer a.wg.Done()
	start := time.Now()
	addr := conn.RemoteAddr().String()

	sessions, err := a.admit(conn)
	if err != nil {
		if errors.Is(err, errTableFull) {
			a.logger.Warn("console refused", zap.String("remote_addr", addr), zap.Error(err))
			_ = conn.WriteLine(TableFullMessage)
		}
		conn.Close()
		return
	}
	defer a.release(conn)

	a.logger.Info("console connected",
		zap.String("remote_addr", addr),
		zap.Int("sessions", sessions),
	)

	if err := conn.Negotiate(); err != nil {
		a.logger.Error("telnet negotiation failed", zap.String("remote_addr", addr), zap.Error(err))
		return
	}

	err = a.handler.HandleSession(a.ctx, conn)
	fields := []zap.Field{zap.String("remote_addr", addr), zap.Duration("duration", time.Since(start))}
	if err != nil && !errors.Is(err, context.Canceled) {
		a.logger.Debug("console disconnected", append(fields, zap.Error(err))...)
		return
	}
	a.logger.Info("console left", fields...)
}

// Stop closes the listener and every console connection, then waits for all
// sessions to finish. Safe to call more than once.
//
// Postcondition: All connections are closed and session goroutines have exited.
func (a *Acceptor) Stop() {
	a.mu.Lock()
	if !a.running {
		a.mu.Unlock()
		return
	}
	a.running = false
	a.cancel()
	if a.listener != nil {
		a.listener.Close()
	}
	// Sessions blocked in ReadLine only return once their connection closes.
	for conn := range a.conns {
		conn.Close()
	}
	a.mu.Unlock()

	a.wg.Wait()
	a.logger.Info("telnet console stopped")
}

// ActiveSessions returns the number of connected consoles.
func (a *Acceptor) ActiveSessions() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.conns)
}

// Addr returns the listening address, or "" before ListenAndServe has bound it.
func (a *Acceptor) Addr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listener == nil {
		return ""
	}
	return a.listener.Addr().String()
}

// IsRunning reports whether the acceptor is accepting consoles.
func (a *Acceptor) IsRunning() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}
