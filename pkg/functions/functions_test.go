package functions

import (
	"testing"

	"github.com/latticelang/lattice/pkg/ast"
	"github.com/latticelang/lattice/pkg/scope"
	"github.com/latticelang/lattice/pkg/value"
)

func newCtx() *FunctionCallContext {
	return &FunctionCallContext{
		Scope:      scope.New("", nil, nil),
		MatchStack: scope.NewMatchStack(),
		Pos:        ast.NewPosition("site.pp", 1, 1, 0),
	}
}

func TestVersioncmp(t *testing.T) {
	d := NewDispatcher()
	ctx := newCtx()
	got, err := d.Call(ctx, "versioncmp", []value.Value{value.Str("1.2.0"), value.Str("1.10.0")})
	if err != nil {
		t.Fatal(err)
	}
	if got.AsInt() != -1 {
		t.Errorf("versioncmp(1.2.0, 1.10.0) = %d, want -1", got.AsInt())
	}
}

func TestFail(t *testing.T) {
	d := NewDispatcher()
	ctx := newCtx()
	_, err := d.Call(ctx, "fail", []value.Value{value.Str("boom")})
	if err == nil {
		t.Fatal("expected fail() to return an error")
	}
}

func TestSizeOverDifferentKinds(t *testing.T) {
	d := NewDispatcher()
	ctx := newCtx()

	got, err := d.Call(ctx, "size", []value.Value{value.Str("hello")})
	if err != nil || got.AsInt() != 5 {
		t.Errorf("size(\"hello\") = %v, err=%v", got, err)
	}

	arr := value.Arr(value.NewArray([]value.Value{value.Int(1), value.Int(2), value.Int(3)}))
	got, err = d.Call(ctx, "size", []value.Value{arr})
	if err != nil || got.AsInt() != 3 {
		t.Errorf("size(array) = %v, err=%v", got, err)
	}
}

func TestJoin(t *testing.T) {
	d := NewDispatcher()
	ctx := newCtx()
	arr := value.Arr(value.NewArray([]value.Value{value.Str("a"), value.Str("b"), value.Str("c")}))
	got, err := d.Call(ctx, "join", []value.Value{arr, value.Str(",")})
	if err != nil {
		t.Fatal(err)
	}
	if got.AsString() != "a,b,c" {
		t.Errorf("join = %q, want a,b,c", got.AsString())
	}
}

func TestMapWithOneArgLambda(t *testing.T) {
	d := NewDispatcher()
	ctx := newCtx()
	ctx.HasLambda = true
	ctx.LambdaArity = 1
	ctx.Lambda = func(args []value.Value) (value.Value, error) {
		n, err := Add1(args[0])
		return n, err
	}
	arr := value.Arr(value.NewArray([]value.Value{value.Int(1), value.Int(2), value.Int(3)}))
	got, err := d.Call(ctx, "map", []value.Value{arr})
	if err != nil {
		t.Fatal(err)
	}
	elems := got.AsArray().Elements()
	if len(elems) != 3 || elems[0].AsInt() != 2 || elems[2].AsInt() != 4 {
		t.Errorf("unexpected map result: %v", elems)
	}
}

// Add1 is a test helper standing in for what an evaluator-bound lambda
// closure would do.
func Add1(v value.Value) (value.Value, error) {
	return value.Int(v.AsInt() + 1), nil
}

func TestFilterOverArray(t *testing.T) {
	d := NewDispatcher()
	ctx := newCtx()
	ctx.HasLambda = true
	ctx.LambdaArity = 1
	ctx.Lambda = func(args []value.Value) (value.Value, error) {
		return value.Bool(args[0].AsInt()%2 == 0), nil
	}
	arr := value.Arr(value.NewArray([]value.Value{value.Int(1), value.Int(2), value.Int(3), value.Int(4)}))
	got, err := d.Call(ctx, "filter", []value.Value{arr})
	if err != nil {
		t.Fatal(err)
	}
	elems := got.AsArray().Elements()
	if len(elems) != 2 || elems[0].AsInt() != 2 || elems[1].AsInt() != 4 {
		t.Errorf("unexpected filter result: %v", elems)
	}
}

func TestReduceWithoutInit(t *testing.T) {
	d := NewDispatcher()
	ctx := newCtx()
	ctx.HasLambda = true
	ctx.Lambda = func(args []value.Value) (value.Value, error) {
		return value.Int(args[0].AsInt() + args[1].AsInt()), nil
	}
	arr := value.Arr(value.NewArray([]value.Value{value.Int(1), value.Int(2), value.Int(3)}))
	got, err := d.Call(ctx, "reduce", []value.Value{arr})
	if err != nil {
		t.Fatal(err)
	}
	if got.AsInt() != 6 {
		t.Errorf("reduce sum = %d, want 6", got.AsInt())
	}
}

func TestUnknownFunctionIsUndefinedSymbol(t *testing.T) {
	d := NewDispatcher()
	ctx := newCtx()
	if _, err := d.Call(ctx, "nonexistent_function", nil); err == nil {
		t.Fatal("expected error for unknown function")
	}
}

func TestStarlarkResolverRoundTrip(t *testing.T) {
	r := NewStarlarkResolver(0)
	r.LoadScript("double", "def double(n):\n    return n * 2\n")
	fn, ok := r.Resolve("double")
	if !ok {
		t.Fatal("expected resolver to find double")
	}
	got, err := fn([]value.Value{value.Int(21)})
	if err != nil {
		t.Fatal(err)
	}
	if got.AsInt() != 42 {
		t.Errorf("double(21) = %d, want 42", got.AsInt())
	}
}
