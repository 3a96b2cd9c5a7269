package value

import "testing"

func TestTruthy(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want bool
	}{
		{"undef", Undefined(), false},
		{"false", Bool(false), false},
		{"true", Bool(true), true},
		{"zero", Int(0), true},
		{"empty string", Str(""), true},
		{"empty array", Arr(NewArray(nil)), true},
		{"default", DefaultValue(), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.v.Truthy(); got != c.want {
				t.Errorf("Truthy() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestEqualNumericWidening(t *testing.T) {
	if !Equal(Int(2), Float64(2.0)) {
		t.Error("expected 2 == 2.0")
	}
	if Equal(Int(2), Float64(2.5)) {
		t.Error("expected 2 != 2.5")
	}
}

func TestEqualStringByteExact(t *testing.T) {
	if Equal(Str("Foo"), Str("foo")) {
		t.Error("string equality must not fold case")
	}
	if !Equal(Str("foo"), Str("foo")) {
		t.Error("expected equal strings to be equal")
	}
}

func TestToArrayWrapsSingle(t *testing.T) {
	arr := Int(5).ToArray(false)
	if arr.Len() != 1 {
		t.Fatalf("expected 1 element, got %d", arr.Len())
	}
	v, _ := arr.At(0)
	if v.AsInt() != 5 {
		t.Errorf("expected wrapped value 5, got %v", v.AsInt())
	}

	passthrough := Arr(NewArray([]Value{Int(1), Int(2)}))
	same := passthrough.ToArray(false)
	if same.Len() != 2 {
		t.Fatalf("expected passthrough array of length 2, got %d", same.Len())
	}
}

func TestArrayNegativeIndex(t *testing.T) {
	arr := NewArray([]Value{Int(1), Int(2), Int(3)})
	v, ok := arr.At(-1)
	if !ok || v.AsInt() != 3 {
		t.Errorf("expected last element 3, got %v ok=%v", v, ok)
	}
}

func TestHashInsertionOrder(t *testing.T) {
	h := NewHash()
	h.Set(Str("b"), Int(2))
	h.Set(Str("a"), Int(1))
	h.Set(Str("b"), Int(20))

	keys := h.Keys()
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(keys))
	}
	if keys[0].AsString() != "b" || keys[1].AsString() != "a" {
		t.Errorf("expected insertion order [b a], got %v", keys)
	}
	v, _ := h.Get(Str("b"))
	if v.AsInt() != 20 {
		t.Errorf("expected overwritten value 20, got %d", v.AsInt())
	}
}

func TestGraphemesCombiningMark(t *testing.T) {
	// "e" + combining acute accent (U+0301) is one grapheme.
	s := "é"
	gs := Graphemes(s)
	if len(gs) != 1 {
		t.Fatalf("expected 1 grapheme, got %d (%v)", len(gs), gs)
	}
}

func TestEnumerateIntegerRange(t *testing.T) {
	var got []int64
	Int(3).Enumerate(func(_ int, _ Value, val Value) bool {
		got = append(got, val.AsInt())
		return true
	})
	if len(got) != 3 || got[0] != 0 || got[2] != 2 {
		t.Errorf("expected [0 1 2], got %v", got)
	}
}
