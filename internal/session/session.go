package session

import (
	"github.com/1broseidon/gridtile/internal/tiling"
)

// Outcome describes what a tile key did to the session.
type Outcome int

const (
	// Ignored means the cell was outside the grid; nothing changed.
	Ignored Outcome = iota
	// FirstCorner means the cell was stored as the pending first corner.
	FirstCorner
	// Placed means both corners formed a placeable rectangle.
	Placed
	// Rejected means both corners were given but the rectangle was not
	// placeable.
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Ignored:
		return "ignored"
	case FirstCorner:
		return "first-corner"
	case Placed:
		return "placed"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Session is the trigger-held tiling state. It is owned by the event loop.
type Session struct {
	active  bool
	first   tiling.Cell
	pending bool
	monitor int
}

// New returns an inactive session on monitor 0.
func New() *Session {
	return &Session{}
}

// Activate marks the trigger held and focuses monitor.
func (s *Session) Activate(monitor int) {
	s.active = true
	s.monitor = monitor
	s.clear()
}

// Deactivate marks the trigger released.
func (s *Session) Deactivate() {
	s.active = false
	s.clear()
}

// Active reports whether the trigger is held.
func (s *Session) Active() bool { return s.active }

// Monitor returns the monitor grid keys currently refer to.
func (s *Session) Monitor() int { return s.monitor }

// SetMonitor switches the monitor grid keys refer to.
func (s *Session) SetMonitor(id int) { s.monitor = id }

// FirstCorner returns the pending first corner, if any.
func (s *Session) FirstCorner() (tiling.Cell, bool) {
	return s.first, s.pending
}

func (s *Session) clear() {
	s.first = tiling.Cell{}
	s.pending = false
}

// Select feeds one tile key into the two-corner selection. wide doubles the
// column so shift-held keys address a grid of half as many, double-width
// columns. On Placed the returned rectangle is the pixel area to occupy.
func (s *Session) Select(cell tiling.Cell, wide bool, mon *tiling.Monitor) (tiling.Rect, Outcome) {
	if wide {
		cell.X *= 2
	}
	if !mon.InGrid(cell) {
		return tiling.Rect{}, Ignored
	}
	if !s.pending {
		s.first = cell
		s.pending = true
		return tiling.Rect{}, FirstCorner
	}

	first := s.first
	s.clear()

	from := tiling.Cell{X: min(first.X, cell.X), Y: min(first.Y, cell.Y)}
	to := tiling.Cell{X: max(first.X, cell.X), Y: max(first.Y, cell.Y)}
	r := mon.Span(from, to)

	x1 := r.X + r.Width - 1
	y1 := r.Y + r.Height - 1
	if r.Width <= 0 || r.Height <= 0 || !mon.OnScreen(r.X, r.Y) || !mon.OnScreen(x1, y1) {
		return tiling.Rect{}, Rejected
	}
	return r, Placed
}
