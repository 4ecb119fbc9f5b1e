package platform

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Right returns the x coordinate one past the right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the y coordinate one past the bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Output describes a connected monitor as reported by the display server.
type Output struct {
	Name    string
	Bounds  Rect
	Primary bool
}

// Geometry is a window's geometry relative to its parent.
type Geometry struct {
	X      int
	Y      int
	Width  int
	Height int
	Border int
}

// Tree is a window together with its reparenting ancestors. Ancestors are
// ordered from the direct parent outwards and exclude the root window.
type Tree struct {
	ID        WindowID
	Name      string
	Self      Geometry
	Ancestors []Geometry
}

// Backend abstracts the window-system operations the tiling daemon needs.
type Backend interface {
	Root() WindowID
	ActiveWindow() (WindowID, error)
	WindowName(id WindowID) (string, error)
	Inspect(id WindowID) (Tree, error)
	Place(id WindowID, bounds Rect) error

	Outputs() ([]Output, error)
	UsableArea() (Rect, error)
	ScreenSize() (Rect, error)

	SwitchDesktop(desktop int) error
	SendToDesktop(id WindowID, desktop int) error
	SetDesktopCount(n int) error

	GrabKey(code uint8) error
	UngrabKeys() error
	GrabKeyboard() error
	UngrabKeyboard() error
	RefreshKeymap() error
}
