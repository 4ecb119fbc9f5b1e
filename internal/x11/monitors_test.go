package x11

import (
	"testing"

	"github.com/BurntSushi/xgbutil/ewmh"
)

func TestUpdateStruts_TopPanelAndLeftDock(t *testing.T) {
	area := Area{X: 0, Y: 0, Width: 1920, Height: 1080}
	var acc dockStruts

	updateStruts(area, 1920, 1080, &ewmh.WmStrutPartial{Top: 26, TopStartX: 0, TopEndX: 1919}, &acc)
	updateStruts(area, 1920, 1080, &ewmh.WmStrutPartial{Left: 48, LeftStartY: 0, LeftEndY: 1079}, &acc)

	if acc.top != 26 || acc.left != 48 || acc.right != 0 || acc.bottom != 0 {
		t.Fatalf("expected top 26 left 48, got %+v", acc)
	}
}

func TestUpdateStruts_KeepsLargestPerEdge(t *testing.T) {
	area := Area{X: 0, Y: 0, Width: 1920, Height: 1080}
	var acc dockStruts

	updateStruts(area, 1920, 1080, &ewmh.WmStrutPartial{Bottom: 30, BottomStartX: 0, BottomEndX: 1919}, &acc)
	updateStruts(area, 1920, 1080, &ewmh.WmStrutPartial{Bottom: 20, BottomStartX: 0, BottomEndX: 1919}, &acc)

	if acc.bottom != 30 {
		t.Fatalf("expected bottom 30, got %d", acc.bottom)
	}
}

func TestUpdateStruts_OutsideAreaIgnored(t *testing.T) {
	// A top panel spanning only the second monitor does not touch the first.
	area := Area{X: 0, Y: 0, Width: 1920, Height: 1080}
	var acc dockStruts

	updateStruts(area, 3200, 1080, &ewmh.WmStrutPartial{Top: 26, TopStartX: 1920, TopEndX: 3199}, &acc)

	if acc.top != 0 {
		t.Fatalf("expected no top strut, got %d", acc.top)
	}
}

func TestIntersectionSize(t *testing.T) {
	tests := []struct {
		name string
		b    [4]int
		want intersection
	}{
		{"overlap", [4]int{50, 50, 150, 150}, intersection{w: 50, h: 50}},
		{"contained", [4]int{10, 10, 20, 30}, intersection{w: 10, h: 20}},
		{"touching edge", [4]int{100, 0, 200, 100}, intersection{}},
		{"disjoint", [4]int{300, 300, 400, 400}, intersection{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := intersectionSize(0, 0, 100, 100, tt.b[0], tt.b[1], tt.b[2], tt.b[3])
			if got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}
