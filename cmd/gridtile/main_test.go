package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/gridtile/internal/ipc"
)

type fakeClient struct {
	tiles    []ipc.TilePayload
	nudges   []ipc.NudgePayload
	desktops []ipc.DesktopPayload
	err      error
}

func (f *fakeClient) Reload() error { return f.err }

func (f *fakeClient) GetStatus() (*ipc.StatusData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ipc.StatusData{
		Active:         true,
		PendingCorner:  &ipc.Cell{X: 2, Y: 1},
		CurrentMonitor: 1,
		Counters:       ipc.Counters{Placements: 3, Corrections: 1},
		UptimeSeconds:  90,
		DaemonRunning:  true,
	}, nil
}

func (f *fakeClient) GetMonitors() (*ipc.MonitorsData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ipc.MonitorsData{
		Monitors: []ipc.MonitorInfo{{
			ID: 0, Name: "DP-1", Primary: true,
			Bounds:   ipc.Rect{Width: 1920, Height: 1080},
			Workarea: ipc.Rect{Y: 26, Width: 1920, Height: 1054},
			Columns:  6, Rows: 4, SlotWidth: 320, SlotHeight: 263, Usable: true,
		}},
		Usable: ipc.Rect{Y: 26, Width: 1920, Height: 1054},
	}, nil
}

func (f *fakeClient) Tile(p ipc.TilePayload) (*ipc.PlacementData, error) {
	f.tiles = append(f.tiles, p)
	return &ipc.PlacementData{Window: 0x2a, Target: ipc.Rect{Y: 26, Width: 960, Height: 1052}, Corrected: true}, f.err
}

func (f *fakeClient) Nudge(p ipc.NudgePayload) (*ipc.PlacementData, error) {
	f.nudges = append(f.nudges, p)
	return &ipc.PlacementData{Window: 0x2a, Skipped: true}, f.err
}

func (f *fakeClient) Desktop(p ipc.DesktopPayload) error {
	f.desktops = append(f.desktops, p)
	return f.err
}

func withClient(t *testing.T, fc *fakeClient) {
	t.Helper()
	prev := newClient
	newClient = func() daemonClient { return fc }
	t.Cleanup(func() { newClient = prev })
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTileCommand(t *testing.T) {
	fc := &fakeClient{}
	withClient(t, fc)

	out, err := run(t, "tile", "--monitor", "1", "2", "3", "0", "0")
	if err != nil {
		t.Fatalf("tile: %v", err)
	}
	if len(fc.tiles) != 1 {
		t.Fatalf("expected one tile request, got %d", len(fc.tiles))
	}
	got := fc.tiles[0]
	if got.Monitor != 1 || got.From != (ipc.Cell{X: 2, Y: 3}) || got.To != (ipc.Cell{X: 0, Y: 0}) {
		t.Fatalf("unexpected payload %+v", got)
	}
	if !strings.Contains(out, "placed at 960x1052+0+26 (corrected)") {
		t.Fatalf("unexpected output %q", out)
	}

	if _, err := run(t, "tile", "a", "0", "1", "1"); err == nil {
		t.Fatalf("expected error for non-numeric coordinate")
	}
	if _, err := run(t, "tile", "0", "0"); err == nil {
		t.Fatalf("expected error for missing coordinates")
	}
}

func TestNudgeCommand(t *testing.T) {
	fc := &fakeClient{}
	withClient(t, fc)

	out, err := run(t, "nudge", "grow-br", "down")
	if err != nil {
		t.Fatalf("nudge: %v", err)
	}
	if len(fc.nudges) != 1 || fc.nudges[0] != (ipc.NudgePayload{Mode: "grow-br", Direction: "down"}) {
		t.Fatalf("unexpected nudges %+v", fc.nudges)
	}
	if !strings.Contains(out, "unchanged") {
		t.Fatalf("expected skipped placement reported, got %q", out)
	}
}

func TestDesktopCommand_Modes(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"desktop", "3"}, "switch"},
		{[]string{"desktop", "3", "--move"}, "follow"},
		{[]string{"desktop", "3", "--send"}, "send"},
	}
	for _, tt := range tests {
		fc := &fakeClient{}
		withClient(t, fc)
		if _, err := run(t, tt.args...); err != nil {
			t.Fatalf("%v: %v", tt.args, err)
		}
		if len(fc.desktops) != 1 || fc.desktops[0] != (ipc.DesktopPayload{Desktop: 3, Mode: tt.want}) {
			t.Fatalf("%v: expected mode %q, got %+v", tt.args, tt.want, fc.desktops)
		}
	}
}

func TestDesktopCommand_Invalid(t *testing.T) {
	fc := &fakeClient{}
	withClient(t, fc)

	if _, err := run(t, "desktop", "-1"); err == nil {
		t.Fatalf("expected error for negative desktop")
	}
	if _, err := run(t, "desktop", "2", "--move", "--send"); err == nil {
		t.Fatalf("expected error for --move with --send")
	}
	if len(fc.desktops) != 0 {
		t.Fatalf("expected no requests, got %+v", fc.desktops)
	}
}

func TestStatusCommand(t *testing.T) {
	withClient(t, &fakeClient{})

	out, err := run(t, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, want := range []string{"up 1m30s", "active, first corner 2,1", "monitor:   1", "placements 3  corrections 1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	out, err = run(t, "status", "--json")
	if err != nil {
		t.Fatalf("status --json: %v", err)
	}
	if !strings.Contains(out, `"pending_corner"`) {
		t.Fatalf("expected JSON output, got:\n%s", out)
	}
}

func TestStatusCommand_DaemonDown(t *testing.T) {
	withClient(t, &fakeClient{err: errors.New("failed to connect to daemon")})

	if _, err := run(t, "status"); err == nil {
		t.Fatalf("expected error when daemon is down")
	}
}

func TestMonitorsCommand(t *testing.T) {
	withClient(t, &fakeClient{})

	out, err := run(t, "monitors")
	if err != nil {
		t.Fatalf("monitors: %v", err)
	}
	if !strings.Contains(out, "0 DP-1 primary workarea 1920x1054+0+26 grid 6x4 slot 320x263") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestGridCommand_FromDaemon(t *testing.T) {
	withClient(t, &fakeClient{})

	out, err := run(t, "grid", "--width", "80")
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	for _, want := range []string{"DP-1", "0,0", "5,3"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestConfigCommands(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("desktops: 4\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	out, err := run(t, "--config", path, "config", "validate")
	if err != nil || !strings.Contains(out, "config: ok") {
		t.Fatalf("validate: %v %q", err, out)
	}

	out, err = run(t, "--config", path, "config", "path")
	if err != nil || strings.TrimSpace(out) != path {
		t.Fatalf("path: %v %q", err, out)
	}

	out, err = run(t, "--config", path, "config", "print")
	if err != nil || !strings.Contains(out, "desktops: 4") {
		t.Fatalf("print: %v %q", err, out)
	}

	out, err = run(t, "--config", path, "config", "explain", "desktops")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if !strings.Contains(out, "source: file:") || !strings.Contains(out, "value:\n4") {
		t.Fatalf("unexpected explain output:\n%s", out)
	}
}

func TestConfigValidate_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("poll_delay_ms: -5\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := run(t, "--config", path, "config", "validate"); err == nil {
		t.Fatalf("expected validation error")
	}
}
