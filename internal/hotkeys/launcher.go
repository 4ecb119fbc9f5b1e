// Package hotkeys runs the programs bound to launcher keys.
package hotkeys

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/1broseidon/gridtile/internal/config"
	"github.com/1broseidon/gridtile/internal/keys"
)

// Launcher starts configured commands by keycode.
type Launcher struct {
	commands map[keys.Keycode]config.Launcher
	logger   *slog.Logger

	// start is swapped in tests.
	start func(cmd *exec.Cmd) error
}

// NewLauncher indexes launchers by key. Later entries win on duplicate keys.
func NewLauncher(launchers []config.Launcher, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	l := &Launcher{
		commands: make(map[keys.Keycode]config.Launcher, len(launchers)),
		logger:   logger,
		start:    startAndReap(logger),
	}
	for _, entry := range launchers {
		l.commands[keys.Keycode(entry.Key)] = entry
	}
	return l
}

// Len returns the number of bound keys.
func (l *Launcher) Len() int {
	if l == nil {
		return 0
	}
	return len(l.commands)
}

// Launch starts the command bound to code. It does not wait for the program
// to exit.
func (l *Launcher) Launch(code keys.Keycode) error {
	if l == nil {
		return fmt.Errorf("no launcher for key %d", code)
	}
	entry, ok := l.commands[code]
	if !ok {
		return fmt.Errorf("no launcher for key %d", code)
	}

	path, err := config.ExpandHome(entry.Command)
	if err != nil {
		return fmt.Errorf("launcher %d: expand %q: %w", code, entry.Command, err)
	}
	cmd := exec.Command(path, entry.Args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := l.start(cmd); err != nil {
		return fmt.Errorf("launcher %d: start %s: %w", code, path, err)
	}
	l.logger.Info("launched", "key", code, "command", path, "args", entry.Args)
	return nil
}

func startAndReap(logger *slog.Logger) func(cmd *exec.Cmd) error {
	return func(cmd *exec.Cmd) error {
		if err := cmd.Start(); err != nil {
			return err
		}
		go func() {
			if err := cmd.Wait(); err != nil {
				logger.Warn("launched command exited with error", "command", cmd.Path, "error", err)
			}
		}()
		return nil
	}
}
