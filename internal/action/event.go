package action

import (
	"fmt"

	"github.com/1broseidon/gridtile/internal/keys"
)

// Event is one item from the window-system event stream. The concrete types
// are MappingChanged, KeyPress, KeyRelease and Other.
type Event interface {
	event()
}

// MappingChanged signals that the keyboard mapping was replaced.
type MappingChanged struct{}

// KeyPress is a key going down.
type KeyPress struct {
	Keycode keys.Keycode
	State   uint16
	RootX   int
	RootY   int
}

// KeyRelease is a key going up.
type KeyRelease struct {
	Keycode keys.Keycode
	State   uint16
	RootX   int
	RootY   int
}

// Other is any event the tiler does not act on.
type Other struct {
	Name string
}

func (MappingChanged) event() {}
func (KeyPress) event()       {}
func (KeyRelease) event()     {}
func (Other) event()          {}

func (MappingChanged) String() string { return "mapping-changed" }

func (e KeyPress) String() string {
	return fmt.Sprintf("key-press(%d, %s)", e.Keycode, keys.Decode(e.State))
}

func (e KeyRelease) String() string {
	return fmt.Sprintf("key-release(%d, %s)", e.Keycode, keys.Decode(e.State))
}

func (e Other) String() string { return "other(" + e.Name + ")" }
