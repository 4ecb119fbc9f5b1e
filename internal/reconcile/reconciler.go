package reconcile

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/1broseidon/gridtile/internal/platform"
)

// ErrUnreachable is returned when the corrected placement has a negative
// field, which happens when the target is smaller than the window's
// enforced minimum size.
var ErrUnreachable = errors.New("placement unreachable")

// Windows is the window-system surface the reconciler drives.
type Windows interface {
	Inspect(id platform.WindowID) (platform.Tree, error)
	Place(id platform.WindowID, bounds platform.Rect) error
}

// Result describes one reconciled placement.
type Result struct {
	Target    platform.Rect
	Issued    platform.Rect
	Corrected bool
	// Drift is container minus target after the last query.
	Drift platform.Rect
}

// Reconciler places windows and corrects once for frame drift.
type Reconciler struct {
	windows Windows
	logger  *slog.Logger
}

// New creates a reconciler. A nil logger discards output.
func New(windows Windows, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Reconciler{windows: windows, logger: logger}
}

// Apply moves id according to req. The target is expressed in container
// (frame) coordinates; unset fields keep the container's current value.
func (r *Reconciler) Apply(id platform.WindowID, req Request) (Result, error) {
	tree, err := r.windows.Inspect(id)
	if err != nil {
		return Result{}, fmt.Errorf("inspect window %d: %w", id, err)
	}
	win := Describe(tree)

	res := Result{Target: req.Resolve(win.Container)}
	target := res.Target
	pad := win.Padding
	res.Issued = platform.Rect{
		X:      target.X + pad.Left,
		Y:      target.Y + pad.Top,
		Width:  target.Width - (pad.Left + pad.Right),
		Height: target.Height - (pad.Top + pad.Bottom),
	}

	if err := r.windows.Place(id, res.Issued); err != nil {
		return res, fmt.Errorf("place window %d: %w", id, err)
	}

	tree, err = r.windows.Inspect(id)
	if err != nil {
		return res, fmt.Errorf("re-inspect window %d: %w", id, err)
	}
	got := Describe(tree).Container

	corrected := res.Issued
	change := false
	fix := func(issued *int, want, have int) {
		if have != want {
			*issued += want - have
			change = true
		}
	}
	fix(&corrected.X, target.X, got.X)
	fix(&corrected.Y, target.Y, got.Y)
	fix(&corrected.Width, target.Width, got.Width)
	fix(&corrected.Height, target.Height, got.Height)

	res.Drift = diff(got, target)
	if corrected.X < 0 || corrected.Y < 0 || corrected.Width < 0 || corrected.Height < 0 {
		return res, fmt.Errorf("window %d target %+v needs %+v: %w", id, target, corrected, ErrUnreachable)
	}
	if !change {
		return res, nil
	}

	r.logger.Debug("correcting placement drift", "window", id, "target", target, "container", got, "reissue", corrected)
	if err := r.windows.Place(id, corrected); err != nil {
		return res, fmt.Errorf("re-place window %d: %w", id, err)
	}
	res.Issued = corrected
	res.Corrected = true

	// Single correction only; the final query is recorded, not acted on.
	if tree, err := r.windows.Inspect(id); err == nil {
		res.Drift = diff(Describe(tree).Container, target)
	}
	if res.Drift != (platform.Rect{}) {
		r.logger.Debug("placement drift remains after correction", "window", id, "drift", res.Drift)
	}
	return res, nil
}

func diff(got, want platform.Rect) platform.Rect {
	return platform.Rect{
		X:      got.X - want.X,
		Y:      got.Y - want.Y,
		Width:  got.Width - want.Width,
		Height: got.Height - want.Height,
	}
}
