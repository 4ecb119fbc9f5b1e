package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func startWatcher(t *testing.T, files ...string) *Watcher {
	t.Helper()
	w, err := New(files, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return w
}

func TestWatcher_ReportsWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("desktops: 4\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	w := startWatcher(t, path)

	if err := os.WriteFile(path, []byte("desktops: 6\n"), 0644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	select {
	case got := <-w.Updates:
		if got != path {
			t.Fatalf("expected update for %q, got %q", path, got)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("expected update after write")
	}
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("desktops: 4\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	w := startWatcher(t, path)

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("write sibling: %v", err)
	}

	select {
	case got := <-w.Updates:
		t.Fatalf("expected no update, got %q", got)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestNew_RequiresFiles(t *testing.T) {
	if _, err := New(nil, 0); err == nil {
		t.Fatalf("expected error for empty file list")
	}
}
