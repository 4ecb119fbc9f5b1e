package daemon

import (
	"errors"
	"os/exec"
	"testing"

	"github.com/1broseidon/gridtile/internal/action"
	"github.com/1broseidon/gridtile/internal/config"
	"github.com/1broseidon/gridtile/internal/keys"
	"github.com/1broseidon/gridtile/internal/platform"
	"github.com/1broseidon/gridtile/internal/tiling"
)

type placeCall struct {
	id   platform.WindowID
	rect platform.Rect
}

type sendCall struct {
	id      platform.WindowID
	desktop int
}

// fakeBackend is an undecorated window system: every window is its own
// container, so placements land exactly.
type fakeBackend struct {
	root    platform.WindowID
	active  platform.WindowID
	names   map[platform.WindowID]string
	windows map[platform.WindowID]platform.Rect

	outputs []platform.Output
	usable  platform.Rect
	screen  platform.Rect

	placements   []placeCall
	switched     []int
	sent         []sendCall
	desktopCount int
	grabbed      []uint8
	ungrabs      int
	kbdGrabs     int
	kbdUngrabs   int
	keymaps      int
	probes       int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		root:    1,
		active:  42,
		names:   map[platform.WindowID]string{42: "xterm", 7: "Desktop"},
		windows: map[platform.WindowID]platform.Rect{42: {X: 100, Y: 100, Width: 500, Height: 400}},
		outputs: []platform.Output{{Name: "DP-1", Bounds: platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}, Primary: true}},
		usable:  platform.Rect{X: 0, Y: 26, Width: 1920, Height: 1054},
		screen:  platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080},
	}
}

func (f *fakeBackend) Root() platform.WindowID { return f.root }

func (f *fakeBackend) ActiveWindow() (platform.WindowID, error) {
	if f.active == 0 {
		return 0, errors.New("no active window")
	}
	return f.active, nil
}

func (f *fakeBackend) WindowName(id platform.WindowID) (string, error) {
	return f.names[id], nil
}

func (f *fakeBackend) Inspect(id platform.WindowID) (platform.Tree, error) {
	r, ok := f.windows[id]
	if !ok {
		return platform.Tree{}, errors.New("BadWindow")
	}
	return platform.Tree{
		ID:   id,
		Name: f.names[id],
		Self: platform.Geometry{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height},
	}, nil
}

func (f *fakeBackend) Place(id platform.WindowID, bounds platform.Rect) error {
	f.placements = append(f.placements, placeCall{id: id, rect: bounds})
	f.windows[id] = bounds
	return nil
}

func (f *fakeBackend) Outputs() ([]platform.Output, error) {
	f.probes++
	return f.outputs, nil
}

func (f *fakeBackend) UsableArea() (platform.Rect, error) { return f.usable, nil }
func (f *fakeBackend) ScreenSize() (platform.Rect, error) { return f.screen, nil }

func (f *fakeBackend) SwitchDesktop(desktop int) error {
	f.switched = append(f.switched, desktop)
	return nil
}

func (f *fakeBackend) SendToDesktop(id platform.WindowID, desktop int) error {
	f.sent = append(f.sent, sendCall{id: id, desktop: desktop})
	return nil
}

func (f *fakeBackend) SetDesktopCount(n int) error {
	f.desktopCount = n
	return nil
}

func (f *fakeBackend) GrabKey(code uint8) error {
	f.grabbed = append(f.grabbed, code)
	return nil
}

func (f *fakeBackend) UngrabKeys() error {
	f.ungrabs++
	f.grabbed = nil
	return nil
}

func (f *fakeBackend) GrabKeyboard() error {
	f.kbdGrabs++
	return nil
}

func (f *fakeBackend) UngrabKeyboard() error {
	f.kbdUngrabs++
	return nil
}

func (f *fakeBackend) RefreshKeymap() error {
	f.keymaps++
	return nil
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.PollDelayMs = 0
	return cfg
}

func startEngine(t *testing.T, fb *fakeBackend, cfg *config.Config) *Engine {
	t.Helper()
	e := NewEngine(fb, cfg, nil)
	if err := e.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	return e
}

func press(code keys.Keycode, state uint16) action.Event {
	return action.KeyPress{Keycode: code, State: state, RootX: 100, RootY: 100}
}

func release(code keys.Keycode) action.Event {
	return action.KeyRelease{Keycode: code}
}

func handleAll(t *testing.T, e *Engine, events ...action.Event) {
	t.Helper()
	for _, ev := range events {
		if err := e.Handle(ev); err != nil {
			t.Fatalf("handle %v: %v", ev, err)
		}
	}
}

func TestStart_GrabsTriggerAndSetsDesktops(t *testing.T) {
	fb := newFakeBackend()
	cfg := testConfig()
	cfg.AlternateTriggerKey = 135
	startEngine(t, fb, cfg)

	if len(fb.grabbed) != 2 || fb.grabbed[0] != 66 || fb.grabbed[1] != 135 {
		t.Fatalf("expected grabs [66 135], got %v", fb.grabbed)
	}
	if fb.desktopCount != 9 {
		t.Fatalf("expected desktop count 9, got %d", fb.desktopCount)
	}
}

func TestHandle_TwoCornerTile(t *testing.T) {
	fb := newFakeBackend()
	e := startEngine(t, fb, testConfig())

	handleAll(t, e, press(66, 0), press(10, 0))
	if !e.Active() {
		t.Fatalf("expected session active after trigger press")
	}
	if fb.kbdGrabs != 1 {
		t.Fatalf("expected keyboard grab, got %d", fb.kbdGrabs)
	}
	if len(fb.placements) != 0 {
		t.Fatalf("expected no placement after first corner, got %v", fb.placements)
	}
	if snap := e.Status(); snap.Corner == nil || *snap.Corner != (tiling.Cell{X: 0, Y: 0}) {
		t.Fatalf("expected pending corner (0,0), got %+v", snap.Corner)
	}

	// 25 is column 1 of the second row.
	handleAll(t, e, press(25, 0))
	want := platform.Rect{X: 0, Y: 26, Width: 640, Height: 526}
	if len(fb.placements) != 1 || fb.placements[0].id != 42 || fb.placements[0].rect != want {
		t.Fatalf("expected placement %+v of window 42, got %+v", want, fb.placements)
	}
	if snap := e.Status(); snap.Corner != nil || snap.Counters.Placements != 1 {
		t.Fatalf("expected cleared corner and 1 placement, got %+v", snap)
	}

	handleAll(t, e, release(66))
	if e.Active() || fb.kbdUngrabs != 1 {
		t.Fatalf("expected inactive session and keyboard released, got active=%v ungrabs=%d", e.Active(), fb.kbdUngrabs)
	}
}

func TestHandle_CornerOrderDoesNotMatter(t *testing.T) {
	fb := newFakeBackend()
	e := startEngine(t, fb, testConfig())

	handleAll(t, e, press(66, 0), press(25, 0), press(10, 0))
	want := platform.Rect{X: 0, Y: 26, Width: 640, Height: 526}
	if len(fb.placements) != 1 || fb.placements[0].rect != want {
		t.Fatalf("expected placement %+v, got %+v", want, fb.placements)
	}
}

func TestHandle_ShiftDoublesColumn(t *testing.T) {
	fb := newFakeBackend()
	e := startEngine(t, fb, testConfig())

	// Shift+column 1 selects column 2; shift+column 2 selects column 4.
	handleAll(t, e, press(66, 0), press(11, keys.MaskShift), press(12, keys.MaskShift))
	want := platform.Rect{X: 640, Y: 26, Width: 960, Height: 263}
	if len(fb.placements) != 1 || fb.placements[0].rect != want {
		t.Fatalf("expected placement %+v, got %+v", want, fb.placements)
	}

	// Shift+column 3 would be column 6, outside a 6-column grid.
	handleAll(t, e, press(13, keys.MaskShift))
	if snap := e.Status(); snap.Corner != nil {
		t.Fatalf("expected out-of-grid key to be ignored, got corner %+v", snap.Corner)
	}
}

func TestHandle_KeysIgnoredWhileInactive(t *testing.T) {
	fb := newFakeBackend()
	e := startEngine(t, fb, testConfig())

	handleAll(t, e, press(10, 0), press(25, 0), press(114, 0), press(84, 0))
	if len(fb.placements) != 0 || len(fb.switched) != 0 {
		t.Fatalf("expected no effects while inactive, got placements=%v switched=%v", fb.placements, fb.switched)
	}
}

func TestHandle_NudgeMoveAndResize(t *testing.T) {
	fb := newFakeBackend()
	fb.windows[42] = platform.Rect{X: 0, Y: 26, Width: 640, Height: 526}
	e := startEngine(t, fb, testConfig())

	handleAll(t, e, press(66, 0), press(114, 0))
	if got := fb.windows[42]; got != (platform.Rect{X: 320, Y: 26, Width: 640, Height: 526}) {
		t.Fatalf("expected move right to x=320, got %+v", got)
	}

	handleAll(t, e, press(116, keys.MaskControl))
	if got := fb.windows[42]; got != (platform.Rect{X: 320, Y: 26, Width: 640, Height: 789}) {
		t.Fatalf("expected bottom edge to grow to 789, got %+v", got)
	}

	handleAll(t, e, press(113, keys.MaskShift))
	if got := fb.windows[42]; got != (platform.Rect{X: 0, Y: 26, Width: 960, Height: 789}) {
		t.Fatalf("expected left edge to grow to x=0, got %+v", got)
	}

	// The left edge now sits on the workarea edge, so the guard skips it.
	before := len(fb.placements)
	handleAll(t, e, press(113, keys.MaskShift))
	if len(fb.placements) != before {
		t.Fatalf("expected guarded resize to be skipped, got %+v", fb.placements[before:])
	}
}

func TestHandle_DesktopModifiers(t *testing.T) {
	tests := []struct {
		name     string
		state    uint16
		active   platform.WindowID
		switched []int
		sent     []sendCall
	}{
		{"no modifiers switches", 0, 42, []int{4}, nil},
		{"alt sends and follows", keys.MaskMod1, 42, []int{4}, []sendCall{{42, 4}}},
		{"control sends only", keys.MaskControl, 42, nil, []sendCall{{42, 4}}},
		{"shift does nothing", keys.MaskShift, 42, nil, nil},
		{"alt on desktop window does nothing", keys.MaskMod1, 7, nil, nil},
		{"no modifiers on desktop window switches", 0, 7, []int{4}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := newFakeBackend()
			fb.active = tt.active
			e := startEngine(t, fb, testConfig())

			handleAll(t, e, press(66, 0), press(84, tt.state))
			if len(fb.switched) != len(tt.switched) || (len(tt.switched) > 0 && fb.switched[0] != tt.switched[0]) {
				t.Fatalf("expected switched %v, got %v", tt.switched, fb.switched)
			}
			if len(fb.sent) != len(tt.sent) || (len(tt.sent) > 0 && fb.sent[0] != tt.sent[0]) {
				t.Fatalf("expected sent %v, got %v", tt.sent, fb.sent)
			}
		})
	}
}

func TestHandle_MonitorSelection(t *testing.T) {
	fb := newFakeBackend()
	fb.outputs = append(fb.outputs, platform.Output{Name: "HDMI-1", Bounds: platform.Rect{X: 1920, Y: 0, Width: 1280, Height: 1024}})
	fb.usable = platform.Rect{X: 0, Y: 26, Width: 3200, Height: 1054}
	fb.screen = platform.Rect{X: 0, Y: 0, Width: 3200, Height: 1080}
	e := startEngine(t, fb, testConfig())

	if err := e.Handle(action.KeyPress{Keycode: 66, RootX: 2000, RootY: 500}); err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if got := e.Status().Monitor; got != 1 {
		t.Fatalf("expected monitor under pointer (1), got %d", got)
	}

	handleAll(t, e, press(121, 0))
	if snap := e.Status(); snap.Monitor != 0 || snap.Counters.MonitorChanges != 1 {
		t.Fatalf("expected monitor 0 after hotkey, got %+v", snap)
	}

	// Monitor 2 is not connected.
	handleAll(t, e, press(123, 0))
	if got := e.Status().Monitor; got != 0 {
		t.Fatalf("expected absent monitor hotkey to be ignored, got %d", got)
	}
}

func TestHandle_UnusableMonitorFailsTile(t *testing.T) {
	fb := newFakeBackend()
	fb.outputs = append(fb.outputs, platform.Output{Name: "HDMI-1", Bounds: platform.Rect{X: 1920, Y: 0, Width: 1280, Height: 1024}})
	e := startEngine(t, fb, testConfig())

	handleAll(t, e, press(66, 0), press(122, 0))
	err := e.Handle(press(10, 0))
	if !errors.Is(err, tiling.ErrUnusableWorkarea) {
		t.Fatalf("expected ErrUnusableWorkarea, got %v", err)
	}
	if got := e.Status().Counters.Errors; got != 1 {
		t.Fatalf("expected 1 error counted, got %d", got)
	}
}

func TestHandle_MappingChangedRefreshes(t *testing.T) {
	fb := newFakeBackend()
	e := startEngine(t, fb, testConfig())
	probes := fb.probes

	handleAll(t, e, action.MappingChanged{})
	if fb.keymaps != 1 || fb.probes != probes+1 {
		t.Fatalf("expected keymap and monitor refresh, got keymaps=%d probes=%d", fb.keymaps, fb.probes-probes)
	}
}

func TestHandle_Launcher(t *testing.T) {
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true not available")
	}
	fb := newFakeBackend()
	cfg := testConfig()
	cfg.Launchers = []config.Launcher{{Key: 67, Command: "true", Modifiers: "none"}}
	e := startEngine(t, fb, cfg)

	handleAll(t, e, press(66, 0), press(67, keys.MaskShift))
	if got := e.Status().Counters.Launches; got != 0 {
		t.Fatalf("expected launcher with wrong modifiers to be ignored, got %d", got)
	}
	handleAll(t, e, press(67, 0))
	if got := e.Status().Counters.Launches; got != 1 {
		t.Fatalf("expected 1 launch, got %d", got)
	}
}

func TestTileCells(t *testing.T) {
	fb := newFakeBackend()
	e := startEngine(t, fb, testConfig())

	window, res, err := e.TileCells(0, tiling.Cell{X: 5, Y: 3}, tiling.Cell{X: 3, Y: 2})
	if err != nil {
		t.Fatalf("tile: %v", err)
	}
	want := platform.Rect{X: 960, Y: 552, Width: 960, Height: 526}
	if window != 42 || res.Target != want {
		t.Fatalf("expected window 42 at %+v, got %d at %+v", want, window, res.Target)
	}

	if _, _, err := e.TileCells(0, tiling.Cell{X: 0, Y: 0}, tiling.Cell{X: 6, Y: 0}); err == nil {
		t.Fatalf("expected out-of-grid cell to fail")
	}

	fb.active = 7
	if _, _, err := e.TileCells(0, tiling.Cell{}, tiling.Cell{}); !errors.Is(err, ErrNoWindow) {
		t.Fatalf("expected ErrNoWindow for desktop window, got %v", err)
	}
}

func TestNudge_UsesMonitorUnderWindow(t *testing.T) {
	fb := newFakeBackend()
	fb.outputs = append(fb.outputs, platform.Output{Name: "HDMI-1", Bounds: platform.Rect{X: 1920, Y: 0, Width: 1280, Height: 1024}})
	fb.usable = platform.Rect{X: 0, Y: 26, Width: 3200, Height: 1054}
	fb.screen = platform.Rect{X: 0, Y: 0, Width: 3200, Height: 1080}
	fb.windows[42] = platform.Rect{X: 1920, Y: 26, Width: 400, Height: 300}
	e := startEngine(t, fb, testConfig())

	// HDMI-1 workarea is 1280x998 at (1920,26); slots are 213x249.
	_, res, placed, err := e.Nudge(NudgeMove, keys.Right)
	if err != nil || !placed {
		t.Fatalf("nudge: placed=%v err=%v", placed, err)
	}
	if res.Target.X != 2133 {
		t.Fatalf("expected x=2133, got %+v", res.Target)
	}

	fb.windows[42] = platform.Rect{X: 1920, Y: 26, Width: 400, Height: 300}
	_, _, placed, err = e.Nudge(NudgeGrowTL, keys.Up)
	if err != nil || placed {
		t.Fatalf("expected guarded nudge to be skipped, got placed=%v err=%v", placed, err)
	}
}

func TestDesktop_Range(t *testing.T) {
	fb := newFakeBackend()
	e := startEngine(t, fb, testConfig())

	if err := e.Desktop(9, DesktopSwitch); err == nil {
		t.Fatalf("expected out-of-range desktop to fail")
	}
	if err := e.Desktop(2, DesktopFollow); err != nil {
		t.Fatalf("desktop: %v", err)
	}
	if len(fb.sent) != 1 || fb.sent[0] != (sendCall{42, 2}) || len(fb.switched) != 1 || fb.switched[0] != 2 {
		t.Fatalf("expected send+switch to 2, got sent=%v switched=%v", fb.sent, fb.switched)
	}
}

func TestConfigure_RegrabsKeys(t *testing.T) {
	fb := newFakeBackend()
	e := startEngine(t, fb, testConfig())

	handleAll(t, e, press(66, 0))
	cfg := testConfig()
	cfg.TriggerKey = 133
	cfg.Desktops = 4
	if err := e.Configure(cfg); err != nil {
		t.Fatalf("configure: %v", err)
	}
	if e.Active() || fb.kbdUngrabs != 1 {
		t.Fatalf("expected reload to end the session, got active=%v ungrabs=%d", e.Active(), fb.kbdUngrabs)
	}
	if len(fb.grabbed) != 1 || fb.grabbed[0] != 133 {
		t.Fatalf("expected grab of new trigger 133, got %v", fb.grabbed)
	}
	if fb.desktopCount != 4 {
		t.Fatalf("expected desktop count 4, got %d", fb.desktopCount)
	}
}

func TestParseModes(t *testing.T) {
	if m, err := ParseNudgeMode("grow-br"); err != nil || m != NudgeGrowBR {
		t.Fatalf("expected grow-br, got %q %v", m, err)
	}
	if _, err := ParseNudgeMode("shrink"); err == nil {
		t.Fatalf("expected error for unknown nudge mode")
	}
	if m, err := ParseDesktopMode(""); err != nil || m != DesktopSwitch {
		t.Fatalf("expected default switch, got %q %v", m, err)
	}
	if _, err := ParseDesktopMode("teleport"); err == nil {
		t.Fatalf("expected error for unknown desktop mode")
	}
}
