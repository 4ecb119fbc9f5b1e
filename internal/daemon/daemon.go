// Package daemon runs the tiling engine on a single goroutine and exposes it
// to the IPC server.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/gridtile/internal/action"
	"github.com/1broseidon/gridtile/internal/config"
)

var (
	// ErrEventsClosed is returned by Run when the event source goes away.
	ErrEventsClosed = errors.New("event source closed")
	// ErrStopped is returned for requests submitted after Run returned.
	ErrStopped = errors.New("daemon stopped")
)

const (
	defaultRefreshInterval = 10 * time.Second
	requestTimeout         = 5 * time.Second
)

// Options configures a Daemon.
type Options struct {
	Logger *slog.Logger
	// Load reads the config for Reload. Nil disables reloading.
	Load func() (*config.Config, error)
	// ConfigPath is reported in status.
	ConfigPath string
	// RefreshInterval is how often monitors are re-probed while idle.
	RefreshInterval time.Duration
}

// Daemon serializes all engine work onto the goroutine running Run.
type Daemon struct {
	engine     *Engine
	events     <-chan action.Event
	jobs       chan func()
	done       chan struct{}
	load       func() (*config.Config, error)
	configPath string
	refresh    time.Duration
	timeout    time.Duration
	logger     *slog.Logger
}

// New creates a daemon that handles events from events with engine.
func New(engine *Engine, events <-chan action.Event, opts Options) *Daemon {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	refresh := opts.RefreshInterval
	if refresh <= 0 {
		refresh = defaultRefreshInterval
	}
	return &Daemon{
		engine:     engine,
		events:     events,
		jobs:       make(chan func()),
		done:       make(chan struct{}),
		load:       opts.Load,
		configPath: opts.ConfigPath,
		refresh:    refresh,
		timeout:    requestTimeout,
		logger:     logger,
	}
}

// Run handles events and submitted requests until ctx is cancelled or the
// event channel closes.
func (d *Daemon) Run(ctx context.Context) error {
	defer close(d.done)

	ticker := time.NewTicker(d.refresh)
	defer ticker.Stop()

	d.logger.Info("event loop started")
	for {
		select {
		case <-ctx.Done():
			d.logger.Info("event loop stopped")
			return nil
		case ev, ok := <-d.events:
			if !ok {
				return ErrEventsClosed
			}
			if err := d.engine.Handle(ev); err != nil {
				d.logger.Warn("event handling failed", "event", ev, "error", err)
			}
			if !pause(ctx, d.engine.PollDelay()) {
				d.logger.Info("event loop stopped")
				return nil
			}
		case job := <-d.jobs:
			job()
		case <-ticker.C:
			d.refreshMonitors()
		}
	}
}

func (d *Daemon) refreshMonitors() {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			d.logger.Error("monitor refresh panic recovered", "error", err)
		}
	}()
	if d.engine.Active() {
		return
	}
	if err := d.engine.RefreshMonitors(); err != nil {
		d.logger.Warn("monitor refresh failed", "error", err)
	}
}

func pause(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// Do runs fn on the loop goroutine and waits for its result.
func (d *Daemon) Do(fn func() error) error {
	_, err := call(d, func() (struct{}, error) { return struct{}{}, fn() })
	return err
}

type result[T any] struct {
	val T
	err error
}

// call runs fn on the loop goroutine and returns its value. The value travels
// over a buffered channel, so a job that finishes after the caller timed out
// writes into the channel and nothing else.
func call[T any](d *Daemon, fn func() (T, error)) (T, error) {
	var zero T
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	resc := make(chan result[T], 1)
	job := func() {
		defer func() {
			if r := recover(); r != nil {
				d.logger.Error("request panic recovered", "error", r)
				resc <- result[T]{err: fmt.Errorf("internal error: %v", r)}
			}
		}()
		v, err := fn()
		resc <- result[T]{val: v, err: err}
	}

	select {
	case d.jobs <- job:
	case <-d.done:
		return zero, ErrStopped
	case <-ctx.Done():
		return zero, fmt.Errorf("daemon busy: %w", ctx.Err())
	}

	select {
	case r := <-resc:
		return r.val, r.err
	case <-ctx.Done():
		return zero, fmt.Errorf("request timed out: %w", ctx.Err())
	}
}

// Reload reads the config and applies it on the loop goroutine. A config
// that fails to load or apply leaves the running one in place.
func (d *Daemon) Reload() error {
	if d.load == nil {
		return errors.New("reload is not configured")
	}
	cfg, err := d.load()
	if err != nil {
		d.logger.Error("config reload failed, keeping current config", "error", err)
		return err
	}
	if err := d.Do(func() error { return d.engine.Configure(cfg) }); err != nil {
		d.logger.Error("config reload failed, keeping current config", "error", err)
		return err
	}
	d.logger.Info("config reloaded")
	return nil
}
