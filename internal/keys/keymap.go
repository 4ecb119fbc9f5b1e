package keys

import (
	"fmt"

	"github.com/1broseidon/gridtile/internal/tiling"
)

// Keycode is a raw X11 keycode (8..255).
type Keycode uint8

// Direction is a cursor key direction.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// ParseDirection converts a direction name.
func ParseDirection(name string) (Direction, error) {
	switch name {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	default:
		return 0, fmt.Errorf("unknown direction %q (want up, down, left or right)", name)
	}
}

// Vertical reports whether d moves along the y axis.
func (d Direction) Vertical() bool {
	return d == Up || d == Down
}

// ModRule is a modifier requirement for launcher keys.
type ModRule string

const (
	RuleAny     ModRule = "any"
	RuleNone    ModRule = "none"
	RuleShift   ModRule = "shift"
	RuleControl ModRule = "control"
	RuleAlt     ModRule = "alt"
	RuleSuper   ModRule = "super"
)

// Valid reports whether r is a known rule.
func (r ModRule) Valid() bool {
	switch r {
	case RuleAny, RuleNone, RuleShift, RuleControl, RuleAlt, RuleSuper:
		return true
	}
	return false
}

// Match reports whether f satisfies r.
func (r ModRule) Match(f Flags) bool {
	switch r {
	case RuleAny:
		return true
	case RuleNone, "":
		return f.None()
	}
	m, ok := ParseModifier(string(r))
	if !ok {
		return false
	}
	return f.Exclusive(m)
}

// Keymap holds every keycode the classifier recognises.
type Keymap struct {
	Trigger    Keycode
	AltTrigger Keycode // 0 disables
	Monitors   map[Keycode]int
	Tiles      map[Keycode]tiling.Cell
	Desktops   map[Keycode]int
	Cursors    map[Keycode]Direction
	Launchers  map[Keycode]ModRule
}

// IsTrigger reports whether code is the trigger or the alternate trigger.
func (k *Keymap) IsTrigger(code Keycode) bool {
	if code == 0 {
		return false
	}
	return code == k.Trigger || (k.AltTrigger != 0 && code == k.AltTrigger)
}

// Grabs returns the keycodes that must be grabbed on the root window so the
// tiler sees them without the keyboard being grabbed.
func (k *Keymap) Grabs() []Keycode {
	out := []Keycode{k.Trigger}
	if k.AltTrigger != 0 && k.AltTrigger != k.Trigger {
		out = append(out, k.AltTrigger)
	}
	return out
}

// DefaultTileRows is the stock keyboard-to-grid layout: the number row and
// the three letter rows of a US keyboard.
func DefaultTileRows() [][]Keycode {
	rows := make([][]Keycode, 0, 4)
	for _, start := range []Keycode{10, 24, 38, 52} {
		row := make([]Keycode, 10)
		for x := range row {
			row[x] = start + Keycode(x)
		}
		rows = append(rows, row)
	}
	return rows
}

// TilesFromRows converts a row table into a keycode-to-cell map.
func TilesFromRows(rows [][]Keycode) map[Keycode]tiling.Cell {
	out := make(map[Keycode]tiling.Cell)
	for y, row := range rows {
		for x, code := range row {
			out[code] = tiling.Cell{X: x, Y: y}
		}
	}
	return out
}

// DefaultDesktopKeys maps the number pad onto a 3x3 desktop layout.
func DefaultDesktopKeys() map[Keycode]int {
	return map[Keycode]int{
		79: 0, 80: 1, 81: 2,
		83: 3, 84: 4, 85: 5,
		87: 6, 88: 7, 89: 8,
	}
}

// DefaultCursorKeys returns the arrow key codes.
func DefaultCursorKeys() map[Keycode]Direction {
	return map[Keycode]Direction{
		111: Up,
		116: Down,
		113: Left,
		114: Right,
	}
}
