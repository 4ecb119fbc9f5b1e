package keys

import "testing"

func TestDefaultTileRows(t *testing.T) {
	tiles := TilesFromRows(DefaultTileRows())
	if len(tiles) != 40 {
		t.Fatalf("expected 40 tile keys, got %d", len(tiles))
	}

	cases := map[Keycode][2]int{
		10: {0, 0},
		19: {9, 0},
		24: {0, 1},
		40: {2, 2},
		61: {9, 3},
	}
	for code, want := range cases {
		got, ok := tiles[code]
		if !ok {
			t.Fatalf("expected keycode %d to be a tile key", code)
		}
		if got.X != want[0] || got.Y != want[1] {
			t.Fatalf("keycode %d: expected (%d,%d), got (%d,%d)", code, want[0], want[1], got.X, got.Y)
		}
	}
}

func TestKeymap_IsTrigger(t *testing.T) {
	km := &Keymap{Trigger: 66}
	if !km.IsTrigger(66) {
		t.Fatalf("expected 66 to be the trigger")
	}
	if km.IsTrigger(0) {
		t.Fatalf("expected 0 to never be a trigger")
	}

	km.AltTrigger = 135
	if !km.IsTrigger(135) {
		t.Fatalf("expected alternate trigger to match")
	}
	if got := len(km.Grabs()); got != 2 {
		t.Fatalf("expected 2 grabs, got %d", got)
	}
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("left")
	if err != nil || d != Left {
		t.Fatalf("expected left, got %v (%v)", d, err)
	}
	if _, err := ParseDirection("sideways"); err == nil {
		t.Fatalf("expected error for unknown direction")
	}
	if !Down.Vertical() || Right.Vertical() {
		t.Fatalf("unexpected Vertical() results")
	}
}
