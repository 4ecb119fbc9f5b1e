package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("parse %q: expected %v, got %v", tt.in, tt.want, got)
		}
	}
	if _, err := ParseLevel("trace"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestNew_WritesFileAndConsoleAtLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "gridtile.log")
	var console bytes.Buffer

	l, err := New(Config{Level: "info", FilePath: path, Console: &console})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	l.Debug("hidden")
	l.Info("placed window", "window", 42)
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if strings.Contains(string(data), "hidden") {
		t.Fatalf("expected debug record to be filtered, got %q", data)
	}
	if !strings.Contains(string(data), "placed window") || !strings.Contains(string(data), "window=42") {
		t.Fatalf("expected info record in file, got %q", data)
	}
	if console.String() != string(data) {
		t.Fatalf("expected console copy to match file, got %q", console.String())
	}
}

func TestNew_OverwriteTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gridtile.log")
	if err := os.WriteFile(path, []byte("old line\n"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	l, err := New(Config{Level: "debug", FilePath: path, Overwrite: true})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	l.Info("fresh")
	l.Close()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "old line") {
		t.Fatalf("expected previous contents to be truncated, got %q", data)
	}

	l, err = New(Config{Level: "debug", FilePath: path})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	l.Info("appended")
	l.Close()

	data, _ = os.ReadFile(path)
	if !strings.Contains(string(data), "fresh") || !strings.Contains(string(data), "appended") {
		t.Fatalf("expected append mode to keep earlier records, got %q", data)
	}
}
