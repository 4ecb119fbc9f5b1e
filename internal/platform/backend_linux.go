//go:build linux

package platform

import (
	"fmt"

	"github.com/1broseidon/gridtile/internal/x11"
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh
// X11 connection to display. An empty display uses $DISPLAY.
func NewLinuxBackendFromDisplay(display string) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// NextEvent blocks for the next raw X event.
func (b *LinuxBackend) NextEvent() (xgb.Event, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}
	return conn.NextEvent()
}

// Root returns the X11 root window ID.
func (b *LinuxBackend) Root() WindowID {
	if b == nil || b.conn == nil {
		return 0
	}
	return WindowID(b.conn.Root)
}

// ActiveWindow returns the currently active/focused window ID.
func (b *LinuxBackend) ActiveWindow() (WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}

	wid, err := conn.GetActiveWindow()
	if err != nil {
		return 0, err
	}
	return WindowID(wid), nil
}

// WindowName returns the window title.
func (b *LinuxBackend) WindowName(id WindowID) (string, error) {
	conn, err := b.connection()
	if err != nil {
		return "", err
	}
	return conn.WindowName(xproto.Window(id)), nil
}

// Inspect returns the window geometry together with its frame ancestors.
func (b *LinuxBackend) Inspect(id WindowID) (Tree, error) {
	conn, err := b.connection()
	if err != nil {
		return Tree{}, err
	}

	self, err := conn.GetGeometry(xproto.Window(id))
	if err != nil {
		return Tree{}, err
	}
	chain, err := conn.Ancestors(xproto.Window(id))
	if err != nil {
		return Tree{}, err
	}

	tree := Tree{
		ID:   id,
		Name: conn.WindowName(xproto.Window(id)),
		Self: geometryFrom(self),
	}
	for _, g := range chain {
		tree.Ancestors = append(tree.Ancestors, geometryFrom(g))
	}
	return tree, nil
}

// Place moves and resizes a window to the specified bounds.
func (b *LinuxBackend) Place(id WindowID, bounds Rect) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}

	return conn.MoveResizeWindow(
		xproto.Window(id),
		bounds.X,
		bounds.Y,
		bounds.Width,
		bounds.Height,
	)
}

// Outputs returns all active monitors.
func (b *LinuxBackend) Outputs() ([]Output, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	outputs := make([]Output, 0, len(monitors))
	for _, m := range monitors {
		outputs = append(outputs, Output{
			Name:    m.Name,
			Bounds:  Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height},
			Primary: m.Primary,
		})
	}
	return outputs, nil
}

// UsableArea returns the root area not reserved by panels.
func (b *LinuxBackend) UsableArea() (Rect, error) {
	conn, err := b.connection()
	if err != nil {
		return Rect{}, err
	}
	a, err := conn.UsableArea()
	if err != nil {
		return Rect{}, err
	}
	return rectFrom(a), nil
}

// ScreenSize returns the root window geometry.
func (b *LinuxBackend) ScreenSize() (Rect, error) {
	conn, err := b.connection()
	if err != nil {
		return Rect{}, err
	}
	a, err := conn.ScreenSize()
	if err != nil {
		return Rect{}, err
	}
	return rectFrom(a), nil
}

// SwitchDesktop changes the current virtual desktop.
func (b *LinuxBackend) SwitchDesktop(desktop int) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.SetCurrentDesktop(desktop)
}

// SendToDesktop moves a window to another virtual desktop.
func (b *LinuxBackend) SendToDesktop(id WindowID, desktop int) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.SetWindowDesktop(uint32(id), desktop)
}

// SetDesktopCount requests a number of virtual desktops.
func (b *LinuxBackend) SetDesktopCount(n int) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.SetDesktopCount(n)
}

// GrabKey passively grabs a keycode on the root window.
func (b *LinuxBackend) GrabKey(code uint8) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.GrabKey(code)
}

// UngrabKeys releases all passive key grabs.
func (b *LinuxBackend) UngrabKeys() error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.UngrabKeys()
}

// GrabKeyboard actively grabs the keyboard.
func (b *LinuxBackend) GrabKeyboard() error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.GrabKeyboard()
}

// UngrabKeyboard releases the active keyboard grab.
func (b *LinuxBackend) UngrabKeyboard() error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.UngrabKeyboard()
}

// RefreshKeymap reloads the cached keyboard mapping.
func (b *LinuxBackend) RefreshKeymap() error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	conn.RefreshKeymap()
	return nil
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

func geometryFrom(g x11.Geometry) Geometry {
	return Geometry{X: g.X, Y: g.Y, Width: g.Width, Height: g.Height, Border: g.Border}
}

func rectFrom(a x11.Area) Rect {
	return Rect{X: a.X, Y: a.Y, Width: a.Width, Height: a.Height}
}
