package keys

import "testing"

func TestDecode_ControlOnly(t *testing.T) {
	f := Decode(MaskControl)
	if !f.Exclusive(Control) {
		t.Fatalf("expected exclusive control")
	}
	if f.None() {
		t.Fatalf("expected none to be false")
	}
	if f.Exclusive(Shift) {
		t.Fatalf("expected exclusive shift to be false")
	}
}

func TestDecode_IgnoresLockBits(t *testing.T) {
	f := Decode(MaskLock | MaskMod2 | MaskMod5)
	if !f.None() {
		t.Fatalf("expected lock and numlock bits to be ignored, got %s", f)
	}

	f = Decode(MaskShift | MaskLock | MaskMod2)
	if !f.Exclusive(Shift) {
		t.Fatalf("expected exclusive shift with lock bits set, got %s", f)
	}
}

func TestExclusive_RejectsCombinations(t *testing.T) {
	f := Decode(MaskShift | MaskControl)
	if f.Exclusive(Shift) || f.Exclusive(Control) {
		t.Fatalf("expected no exclusive modifier for %s", f)
	}
	if got := f.String(); got != "shift+control" {
		t.Fatalf("expected shift+control, got %q", got)
	}
}

func TestDecode_AltAndSuper(t *testing.T) {
	if !Decode(MaskMod1).Exclusive(Alt) {
		t.Fatalf("expected Mod1 to decode as alt")
	}
	if !Decode(MaskMod4).Exclusive(Super) {
		t.Fatalf("expected Mod4 to decode as super")
	}
}

func TestModRule_Match(t *testing.T) {
	tests := []struct {
		rule  ModRule
		state uint16
		want  bool
	}{
		{RuleAny, MaskShift | MaskControl, true},
		{RuleNone, 0, true},
		{RuleNone, MaskShift, false},
		{"", 0, true},
		{RuleShift, MaskShift, true},
		{RuleShift, MaskShift | MaskMod4, false},
		{RuleSuper, MaskMod4, true},
		{ModRule("hyper"), 0, false},
	}
	for _, tt := range tests {
		if got := tt.rule.Match(Decode(tt.state)); got != tt.want {
			t.Fatalf("rule %q state %d: expected %v, got %v", tt.rule, tt.state, tt.want, got)
		}
	}
}
