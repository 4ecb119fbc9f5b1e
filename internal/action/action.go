package action

import (
	"fmt"

	"github.com/1broseidon/gridtile/internal/keys"
)

// Action is the single outcome of classifying one event.
type Action interface {
	action()
	String() string
}

type (
	// None means the event is ignored.
	None struct{}
	// TriggerPress activates the tiling session.
	TriggerPress struct{}
	// TriggerRelease deactivates the tiling session.
	TriggerRelease struct{}
	// SetMonitor selects the monitor subsequent grid keys refer to.
	SetMonitor struct{ ID int }
	// TileKey selects a grid corner.
	TileKey struct{ Keycode keys.Keycode }
	// DesktopKey switches or moves between virtual desktops.
	DesktopKey struct{ Keycode keys.Keycode }
	// MoveWin steps the window one grid line.
	MoveWin struct{ Dir keys.Direction }
	// ResizeTL moves the top-left corner one grid line.
	ResizeTL struct{ Dir keys.Direction }
	// ResizeBR moves the bottom-right corner one grid line.
	ResizeBR struct{ Dir keys.Direction }
	// Launch starts the command bound to a launcher key.
	Launch struct{ Keycode keys.Keycode }
)

func (None) action()           {}
func (TriggerPress) action()   {}
func (TriggerRelease) action() {}
func (SetMonitor) action()     {}
func (TileKey) action()        {}
func (DesktopKey) action()     {}
func (MoveWin) action()        {}
func (ResizeTL) action()       {}
func (ResizeBR) action()       {}
func (Launch) action()         {}

func (None) String() string           { return "none" }
func (TriggerPress) String() string   { return "trigger-press" }
func (TriggerRelease) String() string { return "trigger-release" }
func (a SetMonitor) String() string   { return fmt.Sprintf("set-monitor(%d)", a.ID) }
func (a TileKey) String() string      { return fmt.Sprintf("tile-key(%d)", a.Keycode) }
func (a DesktopKey) String() string   { return fmt.Sprintf("desktop-key(%d)", a.Keycode) }
func (a MoveWin) String() string      { return "move-win(" + a.Dir.String() + ")" }
func (a ResizeTL) String() string     { return "resize-tl(" + a.Dir.String() + ")" }
func (a ResizeBR) String() string     { return "resize-br(" + a.Dir.String() + ")" }
func (a Launch) String() string       { return fmt.Sprintf("launch(%d)", a.Keycode) }
