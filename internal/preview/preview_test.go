package preview

import (
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/gridtile/internal/platform"
	"github.com/1broseidon/gridtile/internal/tiling"
)

func testGrid() *tiling.Grid {
	outputs := []platform.Output{
		{Name: "DP-1", Bounds: platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}, Primary: true},
		{Name: "HDMI-1", Bounds: platform.Rect{X: 1920, Y: 0, Width: 1280, Height: 1024}},
	}
	usable := platform.Rect{X: 0, Y: 26, Width: 1920, Height: 1054}
	screen := platform.Rect{X: 0, Y: 0, Width: 3200, Height: 1080}
	return tiling.Build(outputs, usable, screen, []tiling.Spec{{Columns: 6, Rows: 4}, {Columns: 2, Rows: 2}})
}

func TestRender_LabelsCellsWithinWidth(t *testing.T) {
	out := Render(testGrid(), 80)

	for _, want := range []string{"0 DP-1 (primary)", "slot 320x263", "0,0", "5,3", "1 HDMI-1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}

	mon := testGrid().Monitors[0]
	for _, line := range strings.Split(RenderMonitor(&mon, 80), "\n")[1:] {
		if w := lipgloss.Width(line); w > 80 {
			t.Fatalf("expected lattice lines within 80 columns, got %d: %q", w, line)
		}
	}
}

func TestRenderMonitor_TooNarrow(t *testing.T) {
	mon := testGrid().Monitors[0]
	out := RenderMonitor(&mon, 20)
	if !strings.Contains(out, "too narrow") {
		t.Fatalf("expected narrow notice, got:\n%s", out)
	}
}

func TestRenderMonitor_Unusable(t *testing.T) {
	mon := &tiling.Monitor{ID: 2, Name: "VGA-1", Lattice: tiling.Lattice{Columns: 3, Rows: 2}}
	out := RenderMonitor(mon, 80)
	if !strings.Contains(out, "unusable workarea") {
		t.Fatalf("expected unusable notice, got:\n%s", out)
	}
	if strings.Contains(out, "0,0") {
		t.Fatalf("expected no lattice for unusable monitor, got:\n%s", out)
	}
}

func TestRender_Empty(t *testing.T) {
	if out := Render(&tiling.Grid{}, 80); !strings.Contains(out, "no monitors") {
		t.Fatalf("expected empty notice, got %q", out)
	}
}

func TestTerminalWidth_NotATerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if got := TerminalWidth(f); got != DefaultWidth {
		t.Fatalf("expected %d, got %d", DefaultWidth, got)
	}
}
