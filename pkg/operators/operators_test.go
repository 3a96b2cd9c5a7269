package operators

import (
	"testing"

	"github.com/latticelang/lattice/pkg/scope"
	"github.com/latticelang/lattice/pkg/value"
)

func TestAddNumeric(t *testing.T) {
	got, err := Add(value.Int(2), value.Int(3))
	if err != nil {
		t.Fatal(err)
	}
	if got.AsInt() != 5 {
		t.Errorf("got %v, want 5", got)
	}
}

func TestAddIntFloatWidensToFloat(t *testing.T) {
	got, err := Add(value.Int(2), value.Float64(0.5))
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind() != value.Float || got.AsFloat() != 2.5 {
		t.Errorf("got %v, want 2.5", got)
	}
}

func TestAddArraysConcatenates(t *testing.T) {
	a := value.Arr(value.NewArray([]value.Value{value.Int(1)}))
	b := value.Arr(value.NewArray([]value.Value{value.Int(2)}))
	got, err := Add(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if got.AsArray().Len() != 2 {
		t.Errorf("expected 2 elements, got %d", got.AsArray().Len())
	}
}

func TestSubArrayDifference(t *testing.T) {
	a := value.Arr(value.NewArray([]value.Value{value.Int(1), value.Int(2), value.Int(3)}))
	b := value.Arr(value.NewArray([]value.Value{value.Int(2)}))
	got, err := Sub(a, b)
	if err != nil {
		t.Fatal(err)
	}
	elems := got.AsArray().Elements()
	if len(elems) != 2 || elems[0].AsInt() != 1 || elems[1].AsInt() != 3 {
		t.Errorf("unexpected result: %v", elems)
	}
}

func TestDivByZeroInteger(t *testing.T) {
	if _, err := Div(value.Int(1), value.Int(0)); err == nil {
		t.Error("expected division-by-zero error")
	}
}

func TestModRequiresIntegers(t *testing.T) {
	if _, err := Mod(value.Float64(1.5), value.Int(2)); err == nil {
		t.Error("expected type error for % on floats")
	}
}

func TestCompareStrings(t *testing.T) {
	got, err := Compare("<", value.Str("a"), value.Str("b"))
	if err != nil {
		t.Fatal(err)
	}
	if !got.AsBool() {
		t.Error("expected \"a\" < \"b\"")
	}
}

func TestShiftNegativeCountFlipsDirection(t *testing.T) {
	got, err := Shift("<<", value.Int(8), value.Int(-2))
	if err != nil {
		t.Fatal(err)
	}
	if got.AsInt() != 2 {
		t.Errorf("got %d, want 2 (8 >> 2)", got.AsInt())
	}
}

func TestShiftPositive(t *testing.T) {
	got, err := Shift(">>", value.Int(8), value.Int(2))
	if err != nil {
		t.Fatal(err)
	}
	if got.AsInt() != 2 {
		t.Errorf("got %d, want 2", got.AsInt())
	}
}

func TestMatchPushesCaptures(t *testing.T) {
	ms := scope.NewMatchStack()
	re, _ := value.CompileRegex(`(\d+)-(\d+)`)
	got, guard, err := Match("=~", value.Str("12-34"), value.Rx(re), ms)
	if err != nil {
		t.Fatal(err)
	}
	if !got.AsBool() {
		t.Fatal("expected match")
	}
	if guard == nil {
		t.Fatal("expected a guard to be returned on match")
	}
	defer guard.Close()
	if ms.Get(1).AsString() != "12" {
		t.Errorf("capture 1 = %q, want 12", ms.Get(1).AsString())
	}
}

func TestMatchNoMatchReturnsNilGuard(t *testing.T) {
	ms := scope.NewMatchStack()
	re, _ := value.CompileRegex(`^\d+$`)
	got, guard, err := Match("=~", value.Str("abc"), value.Rx(re), ms)
	if err != nil {
		t.Fatal(err)
	}
	if got.AsBool() {
		t.Error("expected no match")
	}
	if guard != nil {
		t.Error("expected nil guard on no-match")
	}
}

func TestInArray(t *testing.T) {
	arr := value.Arr(value.NewArray([]value.Value{value.Int(1), value.Int(2)}))
	got, err := In(value.Int(2), arr)
	if err != nil {
		t.Fatal(err)
	}
	if !got.AsBool() {
		t.Error("expected 2 in [1, 2]")
	}
}

func TestInStringSubstring(t *testing.T) {
	got, err := In(value.Str("ell"), value.Str("hello"))
	if err != nil {
		t.Fatal(err)
	}
	if !got.AsBool() {
		t.Error("expected 'ell' in 'hello'")
	}
}
