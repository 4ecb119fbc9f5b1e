package reconcile

import (
	"fmt"
	"strings"

	"github.com/1broseidon/gridtile/internal/platform"
)

// Value is an optional coordinate. The zero Value means "leave unchanged".
type Value struct {
	n   int
	set bool
}

// To returns a Value that sets the coordinate to n.
func To(n int) Value { return Value{n: n, set: true} }

// Keep is the Value that leaves a coordinate unchanged.
var Keep = Value{}

// Get returns the value and whether it is set.
func (v Value) Get() (int, bool) { return v.n, v.set }

// Or returns the value if set, otherwise current.
func (v Value) Or(current int) int {
	if v.set {
		return v.n
	}
	return current
}

func (v Value) String() string {
	if !v.set {
		return "-"
	}
	return fmt.Sprint(v.n)
}

// Request is a placement where each field may be left unchanged.
type Request struct {
	X      Value
	Y      Value
	Width  Value
	Height Value
}

// Full returns a request that sets all four fields.
func Full(r platform.Rect) Request {
	return Request{X: To(r.X), Y: To(r.Y), Width: To(r.Width), Height: To(r.Height)}
}

// Empty reports whether the request changes nothing.
func (r Request) Empty() bool {
	return !r.X.set && !r.Y.set && !r.Width.set && !r.Height.set
}

// Resolve fills unset fields from current.
func (r Request) Resolve(current platform.Rect) platform.Rect {
	return platform.Rect{
		X:      r.X.Or(current.X),
		Y:      r.Y.Or(current.Y),
		Width:  r.Width.Or(current.Width),
		Height: r.Height.Or(current.Height),
	}
}

func (r Request) String() string {
	parts := []string{r.X.String(), r.Y.String(), r.Width.String(), r.Height.String()}
	return "(" + strings.Join(parts, ",") + ")"
}
