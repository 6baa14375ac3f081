package ripple

import (
	"math"
	"testing"
)

func TestSameValueScalars(t *testing.T) {
	cases := []struct {
		a, b any
		want bool
	}{
		{1, 1, true},
		{1, 2, false},
		{1, int64(1), false}, // differing types never match
		{"x", "x", true},
		{nil, nil, true},
		{nil, 0, false},
		{true, true, true},
		{math.NaN(), math.NaN(), true},
		{float64(1), float64(1), true},
		{float32(math.NaN()), float32(math.NaN()), true},
		{math.Inf(1), math.Inf(1), true},
		{math.Inf(1), math.Inf(-1), false},
	}
	for _, c := range cases {
		if got := sameValue(c.a, c.b); got != c.want {
			t.Errorf("sameValue(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestSameValueContainersByIdentity(t *testing.T) {
	rt := New()
	o1 := ObjectOf(rt, map[string]any{"a": 1})
	o2 := ObjectOf(rt, map[string]any{"a": 1})
	a1 := ArrayOf(rt, []any{1})

	if !sameValue(o1, o1) {
		t.Error("an object is the same as itself")
	}
	if sameValue(o1, o2) {
		t.Error("structurally equal objects are still distinct")
	}
	if sameValue(o1, a1) {
		t.Error("object and array never match")
	}
	if !sameValue(a1, a1) {
		t.Error("an array is the same as itself")
	}
}

func TestSameValueUncomparable(t *testing.T) {
	f := func() {}
	if sameValue(f, f) {
		t.Error("uncomparable values never count as the same")
	}
	m := map[string]int{}
	if sameValue(m, m) {
		t.Error("maps never count as the same")
	}
}
