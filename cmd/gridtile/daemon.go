package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/1broseidon/gridtile/internal/action"
	"github.com/1broseidon/gridtile/internal/config"
	"github.com/1broseidon/gridtile/internal/daemon"
	"github.com/1broseidon/gridtile/internal/instance"
	"github.com/1broseidon/gridtile/internal/ipc"
	"github.com/1broseidon/gridtile/internal/logging"
	"github.com/1broseidon/gridtile/internal/platform"
	"github.com/1broseidon/gridtile/internal/runtimepath"
	"github.com/1broseidon/gridtile/internal/watch"
)

func newDaemonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the tiling daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon()
		},
	}
}

func runDaemon() error {
	res, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg := res.Config

	var console io.Writer
	if term.IsTerminal(int(os.Stderr.Fd())) {
		console = os.Stderr
	}
	logger, err := logging.New(logging.Config{
		Level:     cfg.LogLevel,
		FilePath:  cfg.LogFile,
		Overwrite: cfg.LogOverwrite,
		Console:   console,
	})
	if err != nil {
		return err
	}
	defer logger.Close()
	log := logger.Logger

	pidPath, err := runtimepath.PIDPath()
	if err != nil {
		return err
	}
	lock, err := instance.Acquire(pidPath)
	if err != nil {
		return err
	}
	defer lock.Release()

	backend, err := platform.NewLinuxBackendFromDisplay(cfg.Display)
	if err != nil {
		return fmt.Errorf("failed to connect to display: %w", err)
	}
	defer backend.Disconnect()

	engine := daemon.NewEngine(backend, cfg, log)
	if err := engine.Start(); err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	defer engine.Stop()
	log.Info("gridtile daemon started", "config", res.Path, "log", logger.Path())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events := make(chan action.Event, 64)
	go func() {
		if err := daemon.Pump(ctx, backend, events, log); err != nil {
			log.Error("event pump stopped", "error", err)
		}
	}()

	d := daemon.New(engine, events, daemon.Options{
		Logger: log,
		Load: func() (*config.Config, error) {
			r, err := loadConfig()
			if err != nil {
				return nil, err
			}
			return r.Config, nil
		},
		ConfigPath: res.Path,
	})

	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return err
	}
	server := ipc.NewServer(socketPath, d, log)
	if err := server.Start(); err != nil {
		return fmt.Errorf("failed to start IPC server: %w", err)
	}
	defer server.Stop()

	go reloadOnSIGHUP(ctx, d, log)
	watchConfig(ctx, d, res, log)

	err = d.Run(ctx)
	log.Info("shutting down gridtile daemon")
	if errors.Is(err, daemon.ErrEventsClosed) {
		return fmt.Errorf("display connection lost")
	}
	return err
}

func reloadOnSIGHUP(ctx context.Context, d *daemon.Daemon, log *slog.Logger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			log.Info("received SIGHUP, reloading config")
			if err := d.Reload(); err != nil {
				log.Error("config reload failed", "error", err)
			}
		}
	}
}

// watchConfig reloads whenever a loaded config file changes. With no config
// file on disk the default path is watched so creating it takes effect.
func watchConfig(ctx context.Context, d *daemon.Daemon, res *config.LoadResult, log *slog.Logger) {
	files := res.Files
	if len(files) == 0 {
		files = []string{res.Path}
	}
	w, err := watch.New(files, 0)
	if err != nil {
		log.Warn("config watching disabled", "error", err)
		return
	}
	go w.Run(ctx)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case path := <-w.Updates:
				log.Info("config file changed, reloading", "file", path)
				if err := d.Reload(); err != nil {
					log.Error("config reload failed", "error", err)
				}
			case err := <-w.Errors:
				log.Warn("config watcher error", "error", err)
			}
		}
	}()
}
