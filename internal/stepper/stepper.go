// Package stepper computes grid-aligned nudges of a window: moving it one
// lattice slot in a direction, or growing and shrinking one of its edges.
package stepper

import (
	"github.com/1broseidon/gridtile/internal/keys"
	"github.com/1broseidon/gridtile/internal/reconcile"
	"github.com/1broseidon/gridtile/internal/tiling"
)

// DefaultNudge is the pixel bias added before snapping to the lattice.
const DefaultNudge = 30

// guardMargin is how far a top or left edge must sit from the workarea edge
// (or how much slack a window needs beyond one slot) before ResizeTL runs.
const guardMargin = 10

// Stepper turns a direction and the current container geometry into a
// placement request. Every result snaps to the monitor lattice.
type Stepper struct {
	Nudge int
}

// New returns a stepper with the given nudge. Negative values are treated
// as zero.
func New(nudge int) Stepper {
	if nudge < 0 {
		nudge = 0
	}
	return Stepper{Nudge: nudge}
}

// axis is one dimension of the window and the monitor workarea.
type axis struct {
	pos    int
	size   int
	origin int
	extent int
	slot   int
}

func (a axis) far() int { return a.origin + a.extent }

func pick(dir keys.Direction, cont tiling.Rect, mon *tiling.Monitor) axis {
	wa := mon.Workarea
	if dir.Vertical() {
		return axis{pos: cont.Y, size: cont.Height, origin: wa.Y, extent: wa.Height, slot: mon.Lattice.SlotHeight}
	}
	return axis{pos: cont.X, size: cont.Width, origin: wa.X, extent: wa.Width, slot: mon.Lattice.SlotWidth}
}

// towardOrigin reports whether dir points at the top or left edge.
func towardOrigin(dir keys.Direction) bool {
	return dir == keys.Up || dir == keys.Left
}

// bias returns the pixel offset and slot increment for one step. A forward
// step adds the nudge and one slot; a backward step only subtracts the nudge.
func (s Stepper) bias(grow bool) (px, grid int) {
	if grow {
		return s.Nudge, 1
	}
	return -s.Nudge, 0
}

// Move shifts the window one slot along dir, clamped so it stays inside the
// workarea. Only the axis of dir changes.
func (s Stepper) Move(dir keys.Direction, cont tiling.Rect, mon *tiling.Monitor) reconcile.Request {
	if mon == nil || !mon.Usable() {
		return reconcile.Request{}
	}
	a := pick(dir, cont, mon)
	px, grid := s.bias(!towardOrigin(dir))

	pos := a.origin + (floorDiv(a.pos-a.origin+px, a.slot)+grid)*a.slot
	pos = clamp(pos, a.origin, a.origin+a.extent-a.slot)

	if dir.Vertical() {
		return reconcile.Request{Y: reconcile.To(pos)}
	}
	return reconcile.Request{X: reconcile.To(pos)}
}

// ResizeBR moves the bottom or right edge. Down and right grow the window.
func (s Stepper) ResizeBR(dir keys.Direction, cont tiling.Rect, mon *tiling.Monitor) reconcile.Request {
	if mon == nil || !mon.Usable() {
		return reconcile.Request{}
	}
	a := pick(dir, cont, mon)
	px, grid := s.bias(!towardOrigin(dir))

	size := (floorDiv(a.size+px, a.slot) + grid) * a.slot
	size = clamp(size, a.slot, a.extent)
	if a.pos+size > a.far() {
		size = a.far() - a.pos
	}

	if dir.Vertical() {
		return reconcile.Request{Height: reconcile.To(size)}
	}
	return reconcile.Request{Width: reconcile.To(size)}
}

// ResizeTL moves the top or left edge while the opposite edge stays put. Up
// and left grow the window.
func (s Stepper) ResizeTL(dir keys.Direction, cont tiling.Rect, mon *tiling.Monitor) reconcile.Request {
	if mon == nil || !mon.Usable() {
		return reconcile.Request{}
	}
	a := pick(dir, cont, mon)
	px, grid := s.bias(towardOrigin(dir))

	size := (floorDiv(a.size+px, a.slot) + grid) * a.slot
	size = clamp(size, a.slot, a.extent)
	edge := a.pos + a.size
	if edge-size < a.origin {
		size = edge - a.origin
	}
	pos := edge - size

	if dir.Vertical() {
		return reconcile.Request{Y: reconcile.To(pos), Height: reconcile.To(size)}
	}
	return reconcile.Request{X: reconcile.To(pos), Width: reconcile.To(size)}
}

// CanResizeTL reports whether a ResizeTL step in dir has room to act. Up and
// left need the edge to be clear of the workarea edge; down and right need
// the window to span more than one slot.
func CanResizeTL(dir keys.Direction, cont tiling.Rect, mon *tiling.Monitor) bool {
	if mon == nil || !mon.Usable() {
		return false
	}
	wa := mon.Workarea
	lat := mon.Lattice
	switch dir {
	case keys.Up:
		return cont.Y-guardMargin > wa.Y
	case keys.Down:
		return (cont.Height+guardMargin)/lat.SlotHeight > 1
	case keys.Left:
		return cont.X-guardMargin > wa.X
	case keys.Right:
		return (cont.Width+guardMargin)/lat.SlotWidth > 1
	}
	return false
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
