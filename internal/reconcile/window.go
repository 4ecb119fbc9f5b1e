package reconcile

import "github.com/1broseidon/gridtile/internal/platform"

// Padding is the cumulative offset between a client window and the
// outermost frame the window manager wrapped it in.
type Padding struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// Window is a client window resolved against its frame.
type Window struct {
	ID        platform.WindowID
	Name      string
	Padding   Padding
	Container platform.Rect
}

// Describe walks the ancestor chain of t and derives its padding and the
// geometry of the outermost non-root ancestor. A window with no ancestors
// is its own container, measured without its border so that placing it at
// its current size changes nothing.
func Describe(t platform.Tree) Window {
	self := t.Self
	w := Window{ID: t.ID, Name: t.Name}
	if len(t.Ancestors) == 0 {
		w.Container = platform.Rect{X: self.X, Y: self.Y, Width: self.Width, Height: self.Height}
		return w
	}

	fullW := self.Width + 2*self.Border
	fullH := self.Height + 2*self.Border

	pad := Padding{Left: self.X, Top: self.Y}
	last := len(t.Ancestors) - 1
	for i, g := range t.Ancestors {
		pad.Right += g.Width - (fullW + pad.Left)
		pad.Bottom += g.Height - (fullH + pad.Top)
		// The outermost ancestor's position is relative to the root and is
		// the container origin, not part of the padding.
		if i < last {
			pad.Left += g.X
			pad.Top += g.Y
		}
	}
	outer := t.Ancestors[last]
	w.Padding = pad
	w.Container = platform.Rect{X: outer.X, Y: outer.Y, Width: outer.Width, Height: outer.Height}
	return w
}
