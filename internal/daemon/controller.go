package daemon

import (
	"github.com/1broseidon/gridtile/internal/ipc"
	"github.com/1broseidon/gridtile/internal/keys"
	"github.com/1broseidon/gridtile/internal/platform"
	"github.com/1broseidon/gridtile/internal/reconcile"
	"github.com/1broseidon/gridtile/internal/tiling"
)

var _ ipc.Controller = (*Daemon)(nil)

// Status implements ipc.Controller.
func (d *Daemon) Status() (ipc.StatusData, error) {
	snap, err := call(d, func() (Snapshot, error) { return d.engine.Status(), nil })
	if err != nil {
		return ipc.StatusData{}, err
	}

	data := ipc.StatusData{
		Active:         snap.Active,
		CurrentMonitor: snap.Monitor,
		Counters:       ipc.Counters(snap.Counters),
		UptimeSeconds:  int64(snap.Uptime.Seconds()),
		DaemonRunning:  true,
		ConfigPath:     d.configPath,
	}
	if snap.Corner != nil {
		data.PendingCorner = &ipc.Cell{X: snap.Corner.X, Y: snap.Corner.Y}
	}
	return data, nil
}

// Monitors implements ipc.Controller.
func (d *Daemon) Monitors() (ipc.MonitorsData, error) {
	return call(d, func() (ipc.MonitorsData, error) { return monitorsData(d.engine.Grid()), nil })
}

func monitorsData(g *tiling.Grid) ipc.MonitorsData {
	data := ipc.MonitorsData{Monitors: make([]ipc.MonitorInfo, 0, len(g.Monitors)), Usable: rectData(g.Usable)}
	for _, m := range g.Monitors {
		data.Monitors = append(data.Monitors, ipc.MonitorInfo{
			ID:         m.ID,
			Name:       m.Name,
			Primary:    m.Primary,
			Bounds:     rectData(m.Bounds),
			Workarea:   rectData(m.Workarea),
			Columns:    m.Lattice.Columns,
			Rows:       m.Lattice.Rows,
			SlotWidth:  m.Lattice.SlotWidth,
			SlotHeight: m.Lattice.SlotHeight,
			Usable:     m.Usable(),
		})
	}
	return data
}

// Tile implements ipc.Controller.
func (d *Daemon) Tile(p ipc.TilePayload) (ipc.PlacementData, error) {
	return call(d, func() (ipc.PlacementData, error) {
		window, res, err := d.engine.TileCells(p.Monitor,
			tiling.Cell{X: p.From.X, Y: p.From.Y},
			tiling.Cell{X: p.To.X, Y: p.To.Y})
		return placementData(window, res), err
	})
}

// Nudge implements ipc.Controller.
func (d *Daemon) Nudge(p ipc.NudgePayload) (ipc.PlacementData, error) {
	mode, err := ParseNudgeMode(p.Mode)
	if err != nil {
		return ipc.PlacementData{}, err
	}
	dir, err := keys.ParseDirection(p.Direction)
	if err != nil {
		return ipc.PlacementData{}, err
	}

	return call(d, func() (ipc.PlacementData, error) {
		window, res, placed, err := d.engine.Nudge(mode, dir)
		out := placementData(window, res)
		out.Skipped = !placed && err == nil
		return out, err
	})
}

// Desktop implements ipc.Controller.
func (d *Daemon) Desktop(p ipc.DesktopPayload) error {
	mode, err := ParseDesktopMode(p.Mode)
	if err != nil {
		return err
	}
	return d.Do(func() error { return d.engine.Desktop(p.Desktop, mode) })
}

func placementData(window platform.WindowID, res reconcile.Result) ipc.PlacementData {
	return ipc.PlacementData{
		Window:    uint32(window),
		Target:    rectData(res.Target),
		Corrected: res.Corrected,
		Drift:     rectData(res.Drift),
	}
}

func rectData(r platform.Rect) ipc.Rect {
	return ipc.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}
