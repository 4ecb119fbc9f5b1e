package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// Geometry is a window's position relative to its parent plus its border.
type Geometry struct {
	X, Y          int
	Width, Height int
	Border        int
}

// MoveResizeWindow moves and resizes a window to the specified geometry
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) error {
	// Maximized windows ignore geometry requests; failure here is not fatal.
	_ = c.unmaximizeWindow(windowID)

	// Use EWMH MoveResize for better WM compatibility
	err := ewmh.MoveresizeWindow(c.XUtil, windowID, x, y, width, height)
	if err != nil {
		// Fallback to direct window manipulation
		xwindow.New(c.XUtil, windowID).MoveResize(x, y, width, height)
	}
	return nil
}

// unmaximizeWindow removes maximized state from a window
func (c *Connection) unmaximizeWindow(windowID xproto.Window) error {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return err
	}

	for _, state := range states {
		switch state {
		case "_NET_WM_STATE_MAXIMIZED_HORZ", "_NET_WM_STATE_MAXIMIZED_VERT":
			if err := ewmh.WmStateReq(c.XUtil, windowID, ewmh.StateRemove, state); err != nil {
				return err
			}
		}
	}
	return nil
}

// GetActiveWindow returns the window named by _NET_ACTIVE_WINDOW.
func (c *Connection) GetActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}

// WindowName returns the EWMH title of a window, falling back to WM_NAME.
func (c *Connection) WindowName(windowID xproto.Window) string {
	if name, err := ewmh.WmNameGet(c.XUtil, windowID); err == nil {
		if name = strings.TrimSpace(name); name != "" {
			return name
		}
	}
	if name, err := icccm.WmNameGet(c.XUtil, windowID); err == nil {
		return strings.TrimSpace(name)
	}
	return ""
}

// GetGeometry returns the geometry of a window relative to its parent.
func (c *Connection) GetGeometry(windowID xproto.Window) (Geometry, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return Geometry{}, fmt.Errorf("get geometry of 0x%x: %w", windowID, err)
	}
	return Geometry{
		X:      int(geom.X),
		Y:      int(geom.Y),
		Width:  int(geom.Width),
		Height: int(geom.Height),
		Border: int(geom.BorderWidth),
	}, nil
}

// Ancestors returns the geometries of every parent of windowID up to, but
// not including, the root window. The nearest parent comes first.
func (c *Connection) Ancestors(windowID xproto.Window) ([]Geometry, error) {
	var chain []Geometry
	current := windowID
	for {
		tree, err := xproto.QueryTree(c.XUtil.Conn(), current).Reply()
		if err != nil {
			return nil, fmt.Errorf("query tree of 0x%x: %w", current, err)
		}
		if tree.Parent == 0 || tree.Parent == tree.Root {
			return chain, nil
		}
		geom, err := c.GetGeometry(tree.Parent)
		if err != nil {
			return nil, err
		}
		chain = append(chain, geom)
		current = tree.Parent
	}
}
