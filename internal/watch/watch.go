// Package watch notifies the daemon when its config files change on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 200 * time.Millisecond

// Watcher sends the path of a changed file on Updates once writes to it
// settle. Directories are watched rather than files so that editors which
// replace the file on save keep being tracked.
type Watcher struct {
	Errors  chan error
	Updates chan string

	debounce time.Duration
	files    map[string]struct{}
	watcher  *fsnotify.Watcher
}

// New creates a Watcher for files. A debounce of zero uses DefaultDebounce.
func New(files []string, debounce time.Duration) (*Watcher, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		Errors:   make(chan error, 8),
		Updates:  make(chan string, 8),
		debounce: debounce,
		files:    make(map[string]struct{}, len(files)),
		watcher:  watcher,
	}

	dirs := make(map[string]struct{})
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			watcher.Close()
			return nil, err
		}
		w.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	return w, nil
}

// Run forwards debounced change notifications until ctx is done or the
// underlying watcher closes. It closes the fsnotify watcher on return.
func (w *Watcher) Run(ctx context.Context) {
	defer w.watcher.Close()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	pending := ""

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				w.sendError(fmt.Errorf("watcher closed"))
				return
			}
			if !w.relevant(event) {
				continue
			}
			pending = event.Name
			timer.Reset(w.debounce)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				w.sendError(fmt.Errorf("watcher closed"))
				return
			}
			w.sendError(err)
		case <-timer.C:
			if pending == "" {
				continue
			}
			select {
			case w.Updates <- pending:
			default:
				// A reload is already queued.
			}
			pending = ""
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	_, ok := w.files[abs]
	return ok
}

func (w *Watcher) sendError(err error) {
	select {
	case w.Errors <- err:
	default:
	}
}
