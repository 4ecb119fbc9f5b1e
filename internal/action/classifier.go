package action

import (
	"strings"

	"github.com/1broseidon/gridtile/internal/keys"
)

// Context is the session and window state an event is classified against.
type Context struct {
	Active   bool
	Tileable bool
}

// Tileable reports whether a window may be moved: it must not be the root
// window and must not be the desktop.
func Tileable(id, root uint32, name string) bool {
	if id == 0 || id == root {
		return false
	}
	return !strings.EqualFold(strings.TrimSpace(name), "desktop")
}

// Classifier maps events onto actions using a keymap.
type Classifier struct {
	keymap *keys.Keymap
}

// NewClassifier creates a classifier for the given keymap.
func NewClassifier(km *keys.Keymap) *Classifier {
	return &Classifier{keymap: km}
}

// Keymap returns the keymap in use.
func (c *Classifier) Keymap() *keys.Keymap {
	return c.keymap
}

// Classify returns exactly one action for ev. Rules are checked in priority
// order and the first match wins.
func (c *Classifier) Classify(ev Event, ctx Context) Action {
	var (
		code    keys.Keycode
		state   uint16
		isPress bool
	)
	switch e := ev.(type) {
	case KeyPress:
		code, state, isPress = e.Keycode, e.State, true
	case KeyRelease:
		code, state = e.Keycode, e.State
	case MappingChanged, Other:
		return None{}
	default:
		return None{}
	}

	km := c.keymap
	if isPress && !ctx.Active && km.IsTrigger(code) {
		return TriggerPress{}
	}
	if !isPress && ctx.Active && km.IsTrigger(code) {
		return TriggerRelease{}
	}
	if !isPress || !ctx.Active {
		return None{}
	}

	mods := keys.Decode(state)

	if id, ok := km.Monitors[code]; ok {
		return SetMonitor{ID: id}
	}
	if _, ok := km.Tiles[code]; ok && (mods.None() || mods.Exclusive(keys.Shift)) && ctx.Tileable {
		return TileKey{Keycode: code}
	}
	if _, ok := km.Desktops[code]; ok {
		return DesktopKey{Keycode: code}
	}
	if dir, ok := km.Cursors[code]; ok && ctx.Tileable {
		switch {
		case mods.None():
			return MoveWin{Dir: dir}
		case mods.Exclusive(keys.Shift):
			return ResizeTL{Dir: dir}
		case mods.Exclusive(keys.Control):
			return ResizeBR{Dir: dir}
		}
	}
	if rule, ok := km.Launchers[code]; ok && rule.Match(mods) {
		return Launch{Keycode: code}
	}
	return None{}
}
