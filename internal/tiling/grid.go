package tiling

import (
	"errors"
	"fmt"

	"github.com/1broseidon/gridtile/internal/platform"
)

// MaxMonitors is the number of monitors the grid tracks.
const MaxMonitors = 4

var (
	// ErrUnusableWorkarea is returned for grid queries against a monitor
	// whose workarea collapsed to zero or negative size.
	ErrUnusableWorkarea = errors.New("monitor workarea is empty")
	// ErrNoMonitor is returned for an id that is not tracked.
	ErrNoMonitor = errors.New("no such monitor")
)

// Rect is an alias so callers need only one rectangle type.
type Rect = platform.Rect

// Cell is a grid coordinate.
type Cell struct {
	X int
	Y int
}

// Spec is the configured lattice size of one monitor.
type Spec struct {
	Columns int
	Rows    int
}

// Lattice is a monitor's grid: cell counts plus the integer slot size.
type Lattice struct {
	Columns    int
	Rows       int
	SlotWidth  int
	SlotHeight int
}

// Monitor is one tracked monitor with its usable area and lattice.
type Monitor struct {
	ID       int
	Name     string
	Primary  bool
	Bounds   Rect
	Workarea Rect
	Lattice  Lattice
}

// Usable reports whether grid queries against m are meaningful.
func (m *Monitor) Usable() bool {
	return m.Workarea.Width > 0 && m.Workarea.Height > 0 &&
		m.Lattice.SlotWidth > 0 && m.Lattice.SlotHeight > 0
}

// ColumnX converts grid column gx to a screen x coordinate.
func (m *Monitor) ColumnX(gx int) int {
	return m.Workarea.X + m.Lattice.SlotWidth*gx
}

// RowY converts grid row gy to a screen y coordinate.
func (m *Monitor) RowY(gy int) int {
	return m.Workarea.Y + m.Lattice.SlotHeight*gy
}

// InGrid reports whether c lies within the lattice.
func (m *Monitor) InGrid(c Cell) bool {
	return c.X >= 0 && c.X < m.Lattice.Columns && c.Y >= 0 && c.Y < m.Lattice.Rows
}

// OnScreen reports whether the pixel (x, y) lies inside the workarea. Both
// edges are inclusive.
func (m *Monitor) OnScreen(x, y int) bool {
	wa := m.Workarea
	return x >= wa.X && x <= wa.Right() && y >= wa.Y && y <= wa.Bottom()
}

// Span converts an inclusive cell range into a pixel rectangle. The far edge
// is the start of the next cell minus one pixel, so the rectangle covers
// every selected cell completely.
func (m *Monitor) Span(from, to Cell) Rect {
	x0 := m.ColumnX(from.X)
	y0 := m.RowY(from.Y)
	x1 := m.ColumnX(to.X+1) - 1
	y1 := m.RowY(to.Y+1) - 1
	return Rect{X: x0, Y: y0, Width: x1 - x0 + 1, Height: y1 - y0 + 1}
}

// Panels is the reserved margin on each screen edge outside the usable area.
type Panels struct {
	Top    int
	Left   int
	Right  int
	Bottom int
}

// Grid is the set of tracked monitors.
type Grid struct {
	Monitors []Monitor
	Usable   Rect
	Panels   Panels
}

// Build derives workareas and lattices for up to MaxMonitors outputs. The
// primary output becomes monitor 0; the rest keep their reported order.
// specs is indexed by monitor id; missing entries fall back to a 1x1 grid.
func Build(outputs []platform.Output, usable Rect, screen Rect, specs []Spec) *Grid {
	primary := -1
	for i, o := range outputs {
		if o.Primary {
			primary = i
			break
		}
	}
	ordered := make([]platform.Output, 0, len(outputs))
	if primary >= 0 {
		ordered = append(ordered, outputs[primary])
	}
	for i, o := range outputs {
		if i != primary {
			ordered = append(ordered, o)
		}
	}
	if len(ordered) > MaxMonitors {
		ordered = ordered[:MaxMonitors]
	}

	g := &Grid{
		Usable: usable,
		Panels: Panels{
			Top:    usable.Y - screen.Y,
			Left:   usable.X - screen.X,
			Right:  screen.Right() - usable.Right(),
			Bottom: screen.Bottom() - usable.Bottom(),
		},
	}

	for id, o := range ordered {
		spec := Spec{Columns: 1, Rows: 1}
		if id < len(specs) {
			spec = specs[id]
		}
		wa := Workarea(o.Bounds, usable)
		mon := Monitor{
			ID:       id,
			Name:     o.Name,
			Primary:  o.Primary,
			Bounds:   o.Bounds,
			Workarea: wa,
			Lattice:  Lattice{Columns: spec.Columns, Rows: spec.Rows},
		}
		if spec.Columns > 0 && wa.Width > 0 {
			mon.Lattice.SlotWidth = wa.Width / spec.Columns
		}
		if spec.Rows > 0 && wa.Height > 0 {
			mon.Lattice.SlotHeight = wa.Height / spec.Rows
		}
		g.Monitors = append(g.Monitors, mon)
	}
	return g
}

// Workarea clips the global usable rectangle to one monitor.
func Workarea(mon Rect, usable Rect) Rect {
	x := max(usable.X, mon.X)
	y := max(usable.Y, mon.Y)
	offX := x - mon.X
	offY := y - mon.Y
	overflowX := max(0, mon.Right()-usable.Right())
	overflowY := max(0, mon.Bottom()-usable.Bottom())
	return Rect{
		X:      x,
		Y:      y,
		Width:  (mon.Width - offX) - overflowX,
		Height: (mon.Height - offY) - overflowY,
	}
}

// Monitor returns the monitor with the given id. Unusable monitors are
// reported with ErrUnusableWorkarea alongside the monitor itself.
func (g *Grid) Monitor(id int) (*Monitor, error) {
	if g == nil || id < 0 || id >= len(g.Monitors) {
		return nil, fmt.Errorf("monitor %d: %w", id, ErrNoMonitor)
	}
	m := &g.Monitors[id]
	if !m.Usable() {
		return m, fmt.Errorf("monitor %d (%s): %w", id, m.Name, ErrUnusableWorkarea)
	}
	return m, nil
}

// MonitorAt returns the id of the monitor whose bounds contain (x, y). The
// right and bottom edges are exclusive, so a pixel on a shared edge belongs
// to the monitor starting there.
func (g *Grid) MonitorAt(x, y int) (int, bool) {
	if g == nil {
		return 0, false
	}
	for _, m := range g.Monitors {
		b := m.Bounds
		if x >= b.X && x < b.Right() && y >= b.Y && y < b.Bottom() {
			return m.ID, true
		}
	}
	return 0, false
}
