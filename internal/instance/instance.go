// Package instance keeps a single daemon per user session using a pid file.
package instance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// ErrAlreadyRunning is returned when the pid file names a live daemon.
var ErrAlreadyRunning = errors.New("gridtile daemon already running")

// Lock is a held pid file.
type Lock struct {
	path string
	pid  int
}

// alive reports whether pid is a running process started from the same
// executable as us. Overridden in tests.
var alive = func(pid int) bool {
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return false
	}
	running, err := proc.IsRunning()
	if err != nil || !running {
		return false
	}
	self, err := os.Executable()
	if err != nil {
		return true
	}
	exe, err := proc.Exe()
	if err != nil {
		// Another user's process; treat the pid as taken.
		return true
	}
	return filepath.Base(exe) == filepath.Base(self)
}

// Acquire writes our pid to path. A pid file naming a live daemon fails with
// ErrAlreadyRunning; a stale one is replaced.
func Acquire(path string) (*Lock, error) {
	if pid, err := readPID(path); err == nil {
		if pid != os.Getpid() && alive(pid) {
			return nil, fmt.Errorf("%w (pid %d, %s)", ErrAlreadyRunning, pid, path)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create pid directory: %w", err)
	}
	pid := os.Getpid()
	if err := os.WriteFile(path, []byte(strconv.Itoa(pid)+"\n"), 0600); err != nil {
		return nil, fmt.Errorf("failed to write pid file: %w", err)
	}
	return &Lock{path: path, pid: pid}, nil
}

// Release removes the pid file if it still names this process.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	pid, err := readPID(l.path)
	if err != nil || pid != l.pid {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Running returns the pid of a live daemon recorded at path, if any.
func Running(path string) (int, bool) {
	pid, err := readPID(path)
	if err != nil || !alive(pid) {
		return 0, false
	}
	return pid, true
}

func readPID(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid file %s: %q", path, strings.TrimSpace(string(data)))
	}
	return pid, nil
}
