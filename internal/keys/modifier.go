package keys

import "strings"

// Raw X11 modifier bits as delivered in key event state.
const (
	MaskShift   uint16 = 1
	MaskLock    uint16 = 2
	MaskControl uint16 = 4
	MaskMod1    uint16 = 8
	MaskMod2    uint16 = 16
	MaskMod3    uint16 = 32
	MaskMod4    uint16 = 64
	MaskMod5    uint16 = 128
)

// Modifier names one of the four modifiers the tiler cares about.
type Modifier int

const (
	Shift Modifier = iota
	Control
	Alt
	Super
)

func (m Modifier) String() string {
	switch m {
	case Shift:
		return "shift"
	case Control:
		return "control"
	case Alt:
		return "alt"
	case Super:
		return "super"
	default:
		return "unknown"
	}
}

// ParseModifier converts a config name into a Modifier.
func ParseModifier(name string) (Modifier, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "shift":
		return Shift, true
	case "control", "ctrl":
		return Control, true
	case "alt", "mod1":
		return Alt, true
	case "super", "mod4":
		return Super, true
	default:
		return 0, false
	}
}

// Flags is the decoded modifier state of a single key event.
type Flags struct {
	Shift   bool
	Control bool
	Alt     bool
	Super   bool
}

// Decode extracts the tracked modifiers from a raw state mask. Lock, NumLock
// and the remaining mod bits are ignored.
func Decode(state uint16) Flags {
	return Flags{
		Shift:   state&MaskShift != 0,
		Control: state&MaskControl != 0,
		Alt:     state&MaskMod1 != 0,
		Super:   state&MaskMod4 != 0,
	}
}

// None reports whether no tracked modifier is held.
func (f Flags) None() bool {
	return !f.Shift && !f.Control && !f.Alt && !f.Super
}

// Exclusive reports whether m is held and nothing else is.
func (f Flags) Exclusive(m Modifier) bool {
	want := Flags{}
	switch m {
	case Shift:
		want.Shift = true
	case Control:
		want.Control = true
	case Alt:
		want.Alt = true
	case Super:
		want.Super = true
	default:
		return false
	}
	return f == want
}

func (f Flags) String() string {
	var parts []string
	if f.Shift {
		parts = append(parts, "shift")
	}
	if f.Control {
		parts = append(parts, "control")
	}
	if f.Alt {
		parts = append(parts, "alt")
	}
	if f.Super {
		parts = append(parts, "super")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}
