package ipc

import (
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

type fakeController struct {
	mu       sync.Mutex
	reloads  int
	tiles    []TilePayload
	nudges   []NudgePayload
	desktops []DesktopPayload
	fail     error
}

func (f *fakeController) Reload() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reloads++
	return f.fail
}

func (f *fakeController) Status() (StatusData, error) {
	return StatusData{
		Active:         true,
		PendingCorner:  &Cell{X: 1, Y: 2},
		CurrentMonitor: 1,
		Counters:       Counters{Placements: 3},
		DaemonRunning:  true,
	}, nil
}

func (f *fakeController) Monitors() (MonitorsData, error) {
	return MonitorsData{Monitors: []MonitorInfo{{ID: 0, Name: "DP-1", Columns: 6, Rows: 4, Usable: true}}}, nil
}

func (f *fakeController) Tile(p TilePayload) (PlacementData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tiles = append(f.tiles, p)
	return PlacementData{Window: 42, Target: Rect{X: 0, Y: 26, Width: 960, Height: 527}}, nil
}

func (f *fakeController) Nudge(p NudgePayload) (PlacementData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nudges = append(f.nudges, p)
	return PlacementData{}, f.fail
}

func (f *fakeController) Desktop(p DesktopPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.desktops = append(f.desktops, p)
	return f.fail
}

func startServer(t *testing.T, ctrl Controller) *Client {
	t.Helper()
	socket := filepath.Join(t.TempDir(), "gridtile.sock")
	srv := NewServer(socket, ctrl, nil)
	if err := srv.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(srv.Stop)
	return NewClientAt(socket)
}

func TestClientServer_RoundTrip(t *testing.T) {
	ctrl := &fakeController{}
	client := startServer(t, ctrl)

	status, err := client.GetStatus()
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !status.Active || status.PendingCorner == nil || *status.PendingCorner != (Cell{X: 1, Y: 2}) {
		t.Fatalf("unexpected status %+v", status)
	}
	if status.Counters.Placements != 3 {
		t.Fatalf("expected 3 placements, got %d", status.Counters.Placements)
	}

	mons, err := client.GetMonitors()
	if err != nil {
		t.Fatalf("monitors: %v", err)
	}
	if len(mons.Monitors) != 1 || mons.Monitors[0].Name != "DP-1" {
		t.Fatalf("unexpected monitors %+v", mons)
	}

	placed, err := client.Tile(TilePayload{Monitor: 0, From: Cell{0, 0}, To: Cell{2, 1}})
	if err != nil {
		t.Fatalf("tile: %v", err)
	}
	if placed.Window != 42 || placed.Target.Width != 960 {
		t.Fatalf("unexpected placement %+v", placed)
	}
	if err := client.Desktop(DesktopPayload{Desktop: 3, Mode: "follow"}); err != nil {
		t.Fatalf("desktop: %v", err)
	}
	if err := client.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}

	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	if len(ctrl.tiles) != 1 || ctrl.tiles[0].To != (Cell{2, 1}) {
		t.Fatalf("expected tile payload forwarded, got %+v", ctrl.tiles)
	}
	if len(ctrl.desktops) != 1 || ctrl.desktops[0].Desktop != 3 || ctrl.desktops[0].Mode != "follow" {
		t.Fatalf("expected desktop payload forwarded, got %+v", ctrl.desktops)
	}
	if ctrl.reloads != 1 {
		t.Fatalf("expected 1 reload, got %d", ctrl.reloads)
	}
}

func TestClientServer_ErrorsSurface(t *testing.T) {
	ctrl := &fakeController{fail: errors.New("no tileable window")}
	client := startServer(t, ctrl)

	_, err := client.Nudge(NudgePayload{Mode: "move", Direction: "left"})
	if err == nil || !strings.Contains(err.Error(), "no tileable window") {
		t.Fatalf("expected controller error, got %v", err)
	}
	if err := client.Reload(); err == nil || !strings.Contains(err.Error(), "Failed to reload config") {
		t.Fatalf("expected reload error, got %v", err)
	}
}

func TestServer_UnknownCommand(t *testing.T) {
	srv := NewServer(filepath.Join(t.TempDir(), "x.sock"), &fakeController{}, nil)
	resp := srv.handleCommand(&Request{Command: "FROB"})
	if resp.Status != "ERROR" || !strings.Contains(resp.Error, "Unknown command") {
		t.Fatalf("expected unknown command error, got %+v", resp)
	}
	resp = srv.handleCommand(&Request{Command: CommandTile, Payload: []byte("{")})
	if resp.Status != "ERROR" {
		t.Fatalf("expected invalid payload error, got %+v", resp)
	}
}

func TestClient_NoDaemon(t *testing.T) {
	client := NewClientAt(filepath.Join(t.TempDir(), "missing.sock"))
	if err := client.Ping(); err == nil || !strings.Contains(err.Error(), "is the daemon running") {
		t.Fatalf("expected connection error, got %v", err)
	}
}
