package daemon

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/1broseidon/gridtile/internal/action"
	"github.com/1broseidon/gridtile/internal/config"
	"github.com/1broseidon/gridtile/internal/hotkeys"
	"github.com/1broseidon/gridtile/internal/keys"
	"github.com/1broseidon/gridtile/internal/platform"
	"github.com/1broseidon/gridtile/internal/reconcile"
	"github.com/1broseidon/gridtile/internal/session"
	"github.com/1broseidon/gridtile/internal/stepper"
	"github.com/1broseidon/gridtile/internal/tiling"
)

// ErrNoWindow is returned when a command needs a tileable active window and
// there is none.
var ErrNoWindow = errors.New("no tileable active window")

// NudgeMode selects which GridStepper operation a nudge runs.
type NudgeMode string

const (
	NudgeMove   NudgeMode = "move"
	NudgeGrowTL NudgeMode = "grow-tl"
	NudgeGrowBR NudgeMode = "grow-br"
)

// ParseNudgeMode validates a nudge mode name.
func ParseNudgeMode(s string) (NudgeMode, error) {
	switch m := NudgeMode(s); m {
	case NudgeMove, NudgeGrowTL, NudgeGrowBR:
		return m, nil
	}
	return "", fmt.Errorf("unknown nudge mode %q (want move, grow-tl or grow-br)", s)
}

// DesktopMode selects what a desktop request does with the active window.
type DesktopMode string

const (
	// DesktopSwitch changes the view and leaves the window where it is.
	DesktopSwitch DesktopMode = "switch"
	// DesktopFollow sends the window and switches the view with it.
	DesktopFollow DesktopMode = "follow"
	// DesktopSend sends the window and keeps the view.
	DesktopSend DesktopMode = "send"
)

// ParseDesktopMode validates a desktop mode name. Empty means switch.
func ParseDesktopMode(s string) (DesktopMode, error) {
	switch m := DesktopMode(s); m {
	case "":
		return DesktopSwitch, nil
	case DesktopSwitch, DesktopFollow, DesktopSend:
		return m, nil
	}
	return "", fmt.Errorf("unknown desktop mode %q (want switch, follow or send)", s)
}

// Counters are running totals reported by status.
type Counters struct {
	Placements      int
	Corrections     int
	Rejected        int
	Unreachable     int
	DesktopRequests int
	MonitorChanges  int
	Launches        int
	Errors          int
}

// Engine owns the tiling session and dispatches classified actions to the
// grid, the stepper and the reconciler. It is not safe for concurrent use;
// the Daemon loop is its only caller.
type Engine struct {
	backend    platform.Backend
	logger     *slog.Logger
	cfg        *config.Config
	keymap     keys.Keymap
	classifier *action.Classifier
	session    *session.Session
	grid       *tiling.Grid
	stepper    stepper.Stepper
	reconciler *reconcile.Reconciler
	launcher   *hotkeys.Launcher

	// window is the active window sampled for the current key press.
	window   platform.WindowID
	desktops int
	counters Counters
	started  time.Time
}

// NewEngine builds an engine for cfg. Call Start before handling events.
func NewEngine(backend platform.Backend, cfg *config.Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	e := &Engine{
		backend:    backend,
		logger:     logger,
		session:    session.New(),
		reconciler: reconcile.New(backend, logger),
		grid:       &tiling.Grid{},
		started:    time.Now(),
	}
	e.apply(cfg)
	return e
}

func (e *Engine) apply(cfg *config.Config) {
	e.cfg = cfg
	e.keymap = cfg.Keymap()
	e.classifier = action.NewClassifier(&e.keymap)
	e.stepper = stepper.New(cfg.NudgePx)
	e.launcher = hotkeys.NewLauncher(cfg.Launchers, e.logger)
}

// Start probes monitors, grabs the trigger keys and sets the desktop count.
func (e *Engine) Start() error {
	if err := e.RefreshMonitors(); err != nil {
		return err
	}
	if err := e.grabKeys(); err != nil {
		return err
	}
	e.syncDesktopCount()
	e.logger.Info("engine started",
		"trigger", e.keymap.Trigger,
		"alternate_trigger", e.keymap.AltTrigger,
		"monitors", len(e.grid.Monitors),
		"launchers", e.launcher.Len())
	return nil
}

// Stop releases any keyboard grabs.
func (e *Engine) Stop() {
	if e.session.Active() {
		e.session.Deactivate()
		if err := e.backend.UngrabKeyboard(); err != nil {
			e.logger.Warn("failed to release keyboard", "error", err)
		}
	}
	if err := e.backend.UngrabKeys(); err != nil {
		e.logger.Warn("failed to release key grabs", "error", err)
	}
}

// Configure swaps in a reloaded config. On failure the previous config is
// restored.
func (e *Engine) Configure(cfg *config.Config) error {
	if e.session.Active() {
		e.session.Deactivate()
		if err := e.backend.UngrabKeyboard(); err != nil {
			e.logger.Warn("failed to release keyboard", "error", err)
		}
	}

	prev := e.cfg
	e.apply(cfg)
	err := e.RefreshMonitors()
	if err == nil {
		err = e.grabKeys()
	}
	if err != nil {
		e.apply(prev)
		if rerr := e.grabKeys(); rerr != nil {
			e.logger.Error("failed to restore key grabs", "error", rerr)
		}
		return fmt.Errorf("apply config: %w", err)
	}
	e.syncDesktopCount()
	e.logger.Info("config applied", "monitors", len(e.grid.Monitors), "launchers", e.launcher.Len())
	return nil
}

// RefreshMonitors rebuilds the grid from the current outputs and usable area.
func (e *Engine) RefreshMonitors() error {
	outputs, err := e.backend.Outputs()
	if err != nil {
		return fmt.Errorf("query monitors: %w", err)
	}
	usable, err := e.backend.UsableArea()
	if err != nil {
		return fmt.Errorf("query usable area: %w", err)
	}
	screen, err := e.backend.ScreenSize()
	if err != nil {
		return fmt.Errorf("query screen size: %w", err)
	}

	grid := tiling.Build(outputs, usable, screen, e.cfg.GridSpecs())
	changed := !slices.Equal(grid.Monitors, e.grid.Monitors) || grid.Usable != e.grid.Usable
	e.grid = grid
	if e.session.Monitor() >= len(grid.Monitors) {
		e.session.SetMonitor(0)
	}
	if !changed {
		return nil
	}

	for _, m := range grid.Monitors {
		if !m.Usable() {
			e.logger.Error("monitor workarea is unusable",
				"monitor", m.ID, "name", m.Name, "bounds", m.Bounds, "workarea", m.Workarea)
			continue
		}
		e.logger.Info("monitor",
			"monitor", m.ID,
			"name", m.Name,
			"primary", m.Primary,
			"workarea", m.Workarea,
			"grid", fmt.Sprintf("%dx%d", m.Lattice.Columns, m.Lattice.Rows),
			"slot", fmt.Sprintf("%dx%d", m.Lattice.SlotWidth, m.Lattice.SlotHeight))
	}
	return nil
}

func (e *Engine) grabKeys() error {
	if err := e.backend.UngrabKeys(); err != nil {
		return fmt.Errorf("release key grabs: %w", err)
	}
	for _, code := range e.keymap.Grabs() {
		if err := e.backend.GrabKey(uint8(code)); err != nil {
			return fmt.Errorf("grab trigger key %d: %w", code, err)
		}
	}
	return nil
}

func (e *Engine) syncDesktopCount() {
	n := e.cfg.Desktops
	if n <= 0 || n == e.desktops {
		return
	}
	if err := e.backend.SetDesktopCount(n); err != nil {
		e.logger.Warn("failed to set desktop count", "desktops", n, "error", err)
		return
	}
	e.desktops = n
}

// Active reports whether the trigger is held.
func (e *Engine) Active() bool { return e.session.Active() }

// PollDelay is the pause the loop takes after each event.
func (e *Engine) PollDelay() time.Duration { return e.cfg.PollDelay() }

// Handle classifies one event and runs the resulting action. Errors are
// returned for logging; the engine stays usable after any of them.
func (e *Engine) Handle(ev action.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic handling %v: %v", ev, r)
		}
		if err != nil {
			e.counters.Errors++
		}
	}()

	if _, ok := ev.(action.MappingChanged); ok {
		return e.remap()
	}

	ctx := action.Context{Active: e.session.Active()}
	if _, ok := ev.(action.KeyPress); ok && ctx.Active {
		ctx.Tileable = e.lookupWindow()
	}

	act := e.classifier.Classify(ev, ctx)
	if _, ok := act.(action.None); ok {
		return nil
	}
	e.logger.Debug("action", "event", ev, "action", act)

	err = e.dispatch(act, ev, ctx)
	if errors.Is(err, reconcile.ErrUnreachable) {
		return nil
	}
	return err
}

func (e *Engine) dispatch(act action.Action, ev action.Event, ctx action.Context) error {
	var state uint16
	if press, ok := ev.(action.KeyPress); ok {
		state = press.State
	}

	switch a := act.(type) {
	case action.TriggerPress:
		press := ev.(action.KeyPress)
		return e.activate(press.RootX, press.RootY)
	case action.TriggerRelease:
		return e.deactivate()
	case action.SetMonitor:
		if _, err := e.grid.Monitor(a.ID); errors.Is(err, tiling.ErrNoMonitor) {
			e.logger.Debug("ignoring hotkey for absent monitor", "monitor", a.ID)
			return nil
		}
		e.session.SetMonitor(a.ID)
		e.counters.MonitorChanges++
		return nil
	case action.TileKey:
		return e.tileKey(a.Keycode, state)
	case action.DesktopKey:
		return e.desktopKey(a.Keycode, state, ctx.Tileable)
	case action.MoveWin:
		_, _, err := e.nudge(e.window, NudgeMove, a.Dir, e.session.Monitor())
		return err
	case action.ResizeTL:
		_, _, err := e.nudge(e.window, NudgeGrowTL, a.Dir, e.session.Monitor())
		return err
	case action.ResizeBR:
		_, _, err := e.nudge(e.window, NudgeGrowBR, a.Dir, e.session.Monitor())
		return err
	case action.Launch:
		if err := e.launcher.Launch(a.Keycode); err != nil {
			return err
		}
		e.counters.Launches++
		return nil
	}
	return nil
}

func (e *Engine) activate(rootX, rootY int) error {
	monitor := 0
	if id, ok := e.grid.MonitorAt(rootX, rootY); ok {
		monitor = id
	}
	e.session.Activate(monitor)
	if err := e.backend.GrabKeyboard(); err != nil {
		return fmt.Errorf("grab keyboard: %w", err)
	}
	return nil
}

func (e *Engine) deactivate() error {
	e.session.Deactivate()
	if err := e.backend.UngrabKeyboard(); err != nil {
		return fmt.Errorf("release keyboard: %w", err)
	}
	return nil
}

func (e *Engine) remap() error {
	if err := e.backend.RefreshKeymap(); err != nil {
		return fmt.Errorf("refresh keymap: %w", err)
	}
	return e.RefreshMonitors()
}

// lookupWindow samples the active window and reports whether it is tileable.
func (e *Engine) lookupWindow() bool {
	id, err := e.backend.ActiveWindow()
	if err != nil {
		e.window = 0
		e.logger.Debug("no active window", "error", err)
		return false
	}
	e.window = id
	name, err := e.backend.WindowName(id)
	if err != nil {
		e.logger.Debug("window name unavailable", "window", id, "error", err)
	}
	return action.Tileable(uint32(id), uint32(e.backend.Root()), name)
}

func (e *Engine) activeTileable() (platform.WindowID, error) {
	if !e.lookupWindow() {
		return 0, ErrNoWindow
	}
	return e.window, nil
}

func (e *Engine) tileKey(code keys.Keycode, state uint16) error {
	cell, ok := e.keymap.Tiles[code]
	if !ok {
		return nil
	}
	mon, err := e.grid.Monitor(e.session.Monitor())
	if err != nil {
		return fmt.Errorf("tile key %d: %w", code, err)
	}
	wide := keys.Decode(state).Exclusive(keys.Shift)

	rect, outcome := e.session.Select(cell, wide, mon)
	switch outcome {
	case session.Placed:
		_, err := e.place(e.window, reconcile.Full(rect))
		return err
	case session.Rejected:
		e.counters.Rejected++
		e.logger.Debug("selection rejected", "monitor", mon.ID)
	default:
		e.logger.Debug("tile key", "key", code, "cell", cell, "wide", wide, "outcome", outcome)
	}
	return nil
}

func (e *Engine) desktopKey(code keys.Keycode, state uint16, tileable bool) error {
	n, ok := e.keymap.Desktops[code]
	if !ok {
		return nil
	}
	mods := keys.Decode(state)
	switch {
	case mods.Exclusive(keys.Alt) && tileable:
		return e.desktop(n, DesktopFollow, e.window)
	case mods.Exclusive(keys.Control) && tileable:
		return e.desktop(n, DesktopSend, e.window)
	case mods.None():
		return e.desktop(n, DesktopSwitch, 0)
	}
	e.logger.Debug("ignoring desktop key", "key", code, "modifiers", mods)
	return nil
}

func (e *Engine) desktop(n int, mode DesktopMode, window platform.WindowID) error {
	switch mode {
	case DesktopSwitch:
		if err := e.backend.SwitchDesktop(n); err != nil {
			return fmt.Errorf("switch to desktop %d: %w", n, err)
		}
	case DesktopSend, DesktopFollow:
		if err := e.backend.SendToDesktop(window, n); err != nil {
			return fmt.Errorf("send window %d to desktop %d: %w", window, n, err)
		}
		if mode == DesktopFollow {
			if err := e.backend.SwitchDesktop(n); err != nil {
				return fmt.Errorf("switch to desktop %d: %w", n, err)
			}
		}
	}
	e.counters.DesktopRequests++
	e.logger.Debug("desktop request", "desktop", n, "mode", mode, "window", window)
	return nil
}

// nudge runs one stepper operation. The bool result is false when the
// operation was skipped because a guard failed or nothing would change.
func (e *Engine) nudge(window platform.WindowID, mode NudgeMode, dir keys.Direction, monitor int) (reconcile.Result, bool, error) {
	mon, err := e.grid.Monitor(monitor)
	if err != nil {
		return reconcile.Result{}, false, fmt.Errorf("%s %s: %w", mode, dir, err)
	}
	tree, err := e.backend.Inspect(window)
	if err != nil {
		return reconcile.Result{}, false, fmt.Errorf("inspect window %d: %w", window, err)
	}
	cont := reconcile.Describe(tree).Container

	var req reconcile.Request
	switch mode {
	case NudgeMove:
		req = e.stepper.Move(dir, cont, mon)
	case NudgeGrowTL:
		if !stepper.CanResizeTL(dir, cont, mon) {
			e.logger.Debug("resize guard failed", "direction", dir, "container", cont)
			return reconcile.Result{}, false, nil
		}
		req = e.stepper.ResizeTL(dir, cont, mon)
	case NudgeGrowBR:
		req = e.stepper.ResizeBR(dir, cont, mon)
	default:
		return reconcile.Result{}, false, fmt.Errorf("unknown nudge mode %q", mode)
	}
	if req.Empty() {
		return reconcile.Result{}, false, nil
	}
	res, err := e.place(window, req)
	return res, err == nil, err
}

func (e *Engine) place(id platform.WindowID, req reconcile.Request) (reconcile.Result, error) {
	res, err := e.reconciler.Apply(id, req)
	if errors.Is(err, reconcile.ErrUnreachable) {
		e.counters.Unreachable++
		e.logger.Info("placement unreachable", "window", id, "request", req, "error", err)
		return res, err
	}
	if err != nil {
		return res, err
	}
	e.counters.Placements++
	if res.Corrected {
		e.counters.Corrections++
	}
	e.logger.Debug("placed window",
		"window", id,
		"target", res.Target,
		"issued", res.Issued,
		"corrected", res.Corrected,
		"drift", res.Drift)
	return res, nil
}

// TileCells places the active window over the inclusive cell range on a
// monitor, using the same selection rules as the tile keys.
func (e *Engine) TileCells(monitor int, from, to tiling.Cell) (platform.WindowID, reconcile.Result, error) {
	mon, err := e.grid.Monitor(monitor)
	if err != nil {
		return 0, reconcile.Result{}, err
	}
	for _, c := range []tiling.Cell{from, to} {
		if !mon.InGrid(c) {
			return 0, reconcile.Result{}, fmt.Errorf("cell (%d,%d) is outside the %dx%d grid of monitor %d",
				c.X, c.Y, mon.Lattice.Columns, mon.Lattice.Rows, monitor)
		}
	}
	window, err := e.activeTileable()
	if err != nil {
		return 0, reconcile.Result{}, err
	}

	sel := session.New()
	sel.Select(from, false, mon)
	rect, outcome := sel.Select(to, false, mon)
	if outcome != session.Placed {
		e.counters.Rejected++
		return window, reconcile.Result{}, fmt.Errorf("selection (%d,%d)-(%d,%d) does not fit the workarea", from.X, from.Y, to.X, to.Y)
	}
	res, err := e.place(window, reconcile.Full(rect))
	return window, res, err
}

// Nudge runs a stepper operation on the active window, using the monitor
// under the window's center.
func (e *Engine) Nudge(mode NudgeMode, dir keys.Direction) (platform.WindowID, reconcile.Result, bool, error) {
	window, err := e.activeTileable()
	if err != nil {
		return 0, reconcile.Result{}, false, err
	}
	tree, err := e.backend.Inspect(window)
	if err != nil {
		return window, reconcile.Result{}, false, fmt.Errorf("inspect window %d: %w", window, err)
	}
	cont := reconcile.Describe(tree).Container
	monitor := e.session.Monitor()
	if id, ok := e.grid.MonitorAt(cont.X+cont.Width/2, cont.Y+cont.Height/2); ok {
		monitor = id
	}
	res, placed, err := e.nudge(window, mode, dir, monitor)
	return window, res, placed, err
}

// Desktop switches to desktop n or moves the active window there.
func (e *Engine) Desktop(n int, mode DesktopMode) error {
	if n < 0 || (e.cfg.Desktops > 0 && n >= e.cfg.Desktops) {
		return fmt.Errorf("desktop %d out of range (have %d)", n, e.cfg.Desktops)
	}
	var window platform.WindowID
	if mode != DesktopSwitch {
		w, err := e.activeTileable()
		if err != nil {
			return err
		}
		window = w
	}
	return e.desktop(n, mode, window)
}

// Snapshot is the engine state reported by status.
type Snapshot struct {
	Active   bool
	Corner   *tiling.Cell
	Monitor  int
	Counters Counters
	Uptime   time.Duration
}

// Status returns the current session state and counters.
func (e *Engine) Status() Snapshot {
	s := Snapshot{
		Active:   e.session.Active(),
		Monitor:  e.session.Monitor(),
		Counters: e.counters,
		Uptime:   time.Since(e.started),
	}
	if cell, ok := e.session.FirstCorner(); ok {
		s.Corner = &cell
	}
	return s
}

// Grid returns the current monitor grid.
func (e *Engine) Grid() *tiling.Grid { return e.grid }
