// Package supervisor owns the single database handle of the server. It
// connects with an unbounded fixed-interval retry, watches the link, and
// reconnects after the link is lost. The handle is handed out only while the
// supervisor is CONNECTED.
package supervisor

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/dmitrijs2005/photoalbum/internal/common"
	"github.com/dmitrijs2005/photoalbum/internal/dbx"
	"github.com/dmitrijs2005/photoalbum/internal/logging"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sethvargo/go-retry"
)

// Opener creates a pool for dsn. It must not assume the store is reachable.
type Opener func(ctx context.Context, dsn string) (*sql.DB, error)

// OpenPostgres opens a pgx-backed pool.
func OpenPostgres(_ context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	return db, nil
}

type Config struct {
	DSN string
	// RetryInterval is the fixed pause between connection attempts.
	RetryInterval time.Duration
	// HealthCheckInterval is how often a live link is pinged.
	HealthCheckInterval time.Duration
	// PingTimeout bounds a single ping; zero means RetryInterval.
	PingTimeout time.Duration
}

type Option func(*Supervisor)

func WithOpener(open Opener) Option {
	return func(s *Supervisor) { s.open = open }
}

// WithPinger replaces db.PingContext as the liveness probe.
func WithPinger(ping func(ctx context.Context, db *sql.DB) error) Option {
	return func(s *Supervisor) { s.ping = ping }
}

// WithOnConnect runs fn on every fresh handle before it is published, e.g.
// to apply schema migrations. An error fails the attempt.
func WithOnConnect(fn func(ctx context.Context, db *sql.DB) error) Option {
	return func(s *Supervisor) { s.onConnect = fn }
}

// WithObserver registers fn to be called on every state change.
func WithObserver(fn func(State)) Option {
	return func(s *Supervisor) { s.observers = append(s.observers, fn) }
}

func WithLogger(l logging.Logger) Option {
	return func(s *Supervisor) { s.log = l }
}

type Supervisor struct {
	cfg       Config
	open      Opener
	ping      func(ctx context.Context, db *sql.DB) error
	onConnect func(ctx context.Context, db *sql.DB) error
	observers []func(State)
	log       logging.Logger

	mu    sync.RWMutex
	state State
	db    *sql.DB

	ready     chan struct{}
	readyOnce sync.Once
	kick      chan struct{}

	startOnce sync.Once
	closeOnce sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

var _ dbx.Provider = (*Supervisor)(nil)

func New(cfg Config, opts ...Option) *Supervisor {
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = common.DefaultReconnectInterval
	}
	if cfg.HealthCheckInterval <= 0 {
		cfg.HealthCheckInterval = cfg.RetryInterval
	}
	if cfg.PingTimeout <= 0 {
		cfg.PingTimeout = cfg.RetryInterval
	}

	s := &Supervisor{
		cfg:   cfg,
		open:  OpenPostgres,
		ping:  func(ctx context.Context, db *sql.DB) error { return db.PingContext(ctx) },
		log:   logging.Nop{},
		state: Disconnected,
		ready: make(chan struct{}),
		kick:  make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	s.log = s.log.With("module", "supervisor")
	return s
}

// Start launches the connect/monitor loop. It returns immediately; use Ready
// or WaitReady to learn when the handle becomes usable. Calls after the
// first are no-ops.
func (s *Supervisor) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		ctx, s.cancel = context.WithCancel(ctx)
		go s.run(ctx)
	})
}

// Ready is closed the first time the supervisor reaches CONNECTED.
func (s *Supervisor) Ready() <-chan struct{} {
	return s.ready
}

func (s *Supervisor) WaitReady(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Supervisor) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Conn returns the live handle, or common.ErrDependencyUnavailable when the
// supervisor is not CONNECTED.
func (s *Supervisor) Conn() (dbx.DBTX, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != Connected || s.db == nil {
		return nil, common.ErrDependencyUnavailable
	}
	return s.db, nil
}

// ReportFailure asks for an immediate liveness check. It is ignored unless
// the supervisor is CONNECTED, so it never starts a second attempt.
func (s *Supervisor) ReportFailure(err error) {
	if s.State() != Connected {
		return
	}
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// Close stops the loop and closes the handle. A close error is logged. Close
// is idempotent and safe to call without Start.
func (s *Supervisor) Close() {
	s.closeOnce.Do(func() {
		ctx := context.Background()
		if s.cancel != nil {
			s.cancel()
			<-s.done
		}

		s.mu.Lock()
		db := s.db
		s.db = nil
		s.mu.Unlock()
		s.setState(Disconnected)

		if db == nil {
			return
		}
		if err := db.Close(); err != nil {
			s.log.Error(ctx, "closing store connection", "error", err)
			return
		}
		s.log.Info(ctx, "store connection closed")
	})
}

func (s *Supervisor) setState(next State) {
	s.mu.Lock()
	prev := s.state
	s.state = next
	s.mu.Unlock()

	if prev == next {
		return
	}
	for _, fn := range s.observers {
		fn(next)
	}
}

func (s *Supervisor) run(ctx context.Context) {
	defer close(s.done)

	for {
		db, err := s.connect(ctx)
		if err != nil {
			return
		}

		s.monitor(ctx, db)
		if ctx.Err() != nil {
			return
		}

		s.log.Info(ctx, "reconnect scheduled", "in", s.cfg.RetryInterval.String())
		t := time.NewTimer(s.cfg.RetryInterval)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}
	}
}

// connect retries attempt at a fixed interval until it succeeds or ctx ends.
func (s *Supervisor) connect(ctx context.Context) (*sql.DB, error) {
	var (
		db      *sql.DB
		attempt int
	)

	err := retry.Do(ctx, retry.NewConstant(s.cfg.RetryInterval), func(ctx context.Context) error {
		attempt++
		s.setState(Connecting)

		conn, err := s.attempt(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.setState(Errored)
			s.log.Warn(ctx, "store connection failed", "attempt", attempt, "error", err,
				"retry_in", s.cfg.RetryInterval.String())
			return retry.RetryableError(err)
		}
		db = conn
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.db = db
	s.mu.Unlock()

	// drop any failure reported against the previous handle
	select {
	case <-s.kick:
	default:
	}

	s.setState(Connected)
	s.readyOnce.Do(func() { close(s.ready) })
	s.log.Info(ctx, "store connected", "attempt", attempt)

	return db, nil
}

func (s *Supervisor) attempt(ctx context.Context) (*sql.DB, error) {
	db, err := s.open(ctx, s.cfg.DSN)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, s.cfg.PingTimeout)
	defer cancel()

	if err := s.ping(pingCtx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if s.onConnect != nil {
		if err := s.onConnect(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return db, nil
}

// monitor pings db until the link is lost or ctx ends. On loss it unpublishes
// and closes the handle.
func (s *Supervisor) monitor(ctx context.Context, db *sql.DB) {
	t := time.NewTicker(s.cfg.HealthCheckInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		case <-s.kick:
		}

		pingCtx, cancel := context.WithTimeout(ctx, s.cfg.PingTimeout)
		err := s.ping(pingCtx, db)
		cancel()
		if err == nil {
			continue
		}
		if ctx.Err() != nil {
			return
		}

		next := Errored
		if peerClosed(err) {
			next = Disconnected
		}

		s.mu.Lock()
		s.db = nil
		s.mu.Unlock()
		s.setState(next)
		s.log.Warn(ctx, "store link lost", "state", next.String(), "error", err)

		if cerr := db.Close(); cerr != nil {
			s.log.Error(ctx, "closing lost store connection", "error", cerr)
		}
		return
	}
}

// peerClosed reports whether err means the server side went away rather than
// a transport or protocol failure.
func peerClosed(err error) bool {
	return errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, net.ErrClosed)
}
