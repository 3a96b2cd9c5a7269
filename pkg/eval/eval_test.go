package eval

import (
	"testing"

	"github.com/latticelang/lattice/pkg/ast"
	"github.com/latticelang/lattice/pkg/catalog"
	"github.com/latticelang/lattice/pkg/functions"
	"github.com/latticelang/lattice/pkg/registry"
	"github.com/latticelang/lattice/pkg/value"
)

type fakeNode struct {
	name  string
	facts *value.Hash
}

func (n *fakeNode) Name() string            { return n.name }
func (n *fakeNode) Facts() *value.Hash       { return n.facts }
func (n *fakeNode) EnvironmentName() string  { return "production" }

func newTestEvaluator() (*Evaluator, *Context) {
	cat := catalog.New()
	ctx := NewContext(&fakeNode{name: "test.example.com", facts: value.NewHash()}, cat, nil)
	reg := registry.New(nil)
	fns := functions.NewDispatcher()
	return NewEvaluator(ctx, reg, fns), ctx
}

func lit(v value.Value) *ast.Literal {
	return &ast.Literal{Value: v}
}

func TestEvalLiteral(t *testing.T) {
	e, _ := newTestEvaluator()
	got, err := e.Eval(lit(value.Int(42)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AsInt() != 42 {
		t.Errorf("expected 42, got %v", got)
	}
}

func TestEvalAssignAndVariable(t *testing.T) {
	e, _ := newTestEvaluator()
	assign := &ast.BinaryExpr{
		Op:    "=",
		Left:  &ast.VariableExpr{Name: "x"},
		Right: lit(value.Str("hello")),
	}
	if _, err := e.Eval(assign); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := e.Eval(&ast.VariableExpr{Name: "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AsString() != "hello" {
		t.Errorf("expected hello, got %v", got)
	}
}

func TestEvalUnresolvedVariableYieldsUndef(t *testing.T) {
	e, _ := newTestEvaluator()
	got, err := e.Eval(&ast.VariableExpr{Name: "nope"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind() != value.Undef {
		t.Errorf("expected undef, got %v", got)
	}
}

func TestEvalDoubleAssignmentFails(t *testing.T) {
	e, _ := newTestEvaluator()
	assign := func() error {
		_, err := e.Eval(&ast.BinaryExpr{Op: "=", Left: &ast.VariableExpr{Name: "x"}, Right: lit(value.Int(1))})
		return err
	}
	if err := assign(); err != nil {
		t.Fatalf("first assignment: unexpected error: %v", err)
	}
	if err := assign(); err == nil {
		t.Error("expected redefinition error on second assignment to the same variable")
	}
}

func TestEvalAndShortCircuits(t *testing.T) {
	e, _ := newTestEvaluator()

	// "and" must not evaluate its right operand once a false left
	// operand has already decided the result; if it did, this second
	// assignment to y would fail with a redefinition error.
	if _, err := e.Eval(&ast.BinaryExpr{Op: "=", Left: &ast.VariableExpr{Name: "y"}, Right: lit(value.Bool(false))}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	andExpr := &ast.BinaryExpr{
		Op:    "and",
		Left:  &ast.VariableExpr{Name: "y"},
		Right: &ast.BinaryExpr{Op: "=", Left: &ast.VariableExpr{Name: "y"}, Right: lit(value.Bool(true))},
	}
	got, err := e.Eval(andExpr)
	if err != nil {
		t.Fatalf("unexpected error from short-circuited and: %v", err)
	}
	if got.Truthy() {
		t.Error("expected and with false left operand to be false")
	}
}

func TestEvalOrShortCircuits(t *testing.T) {
	e, _ := newTestEvaluator()

	if _, err := e.Eval(&ast.BinaryExpr{Op: "=", Left: &ast.VariableExpr{Name: "z"}, Right: lit(value.Bool(true))}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	orExpr := &ast.BinaryExpr{
		Op:    "or",
		Left:  &ast.VariableExpr{Name: "z"},
		Right: &ast.BinaryExpr{Op: "=", Left: &ast.VariableExpr{Name: "z"}, Right: lit(value.Bool(false))},
	}
	got, err := e.Eval(orExpr)
	if err != nil {
		t.Fatalf("unexpected error from short-circuited or: %v", err)
	}
	if !got.Truthy() {
		t.Error("expected or with true left operand to be true")
	}
}

func TestEvalArraySplat(t *testing.T) {
	e, _ := newTestEvaluator()
	inner := value.Arr(value.NewArray([]value.Value{value.Int(1), value.Int(2)}))
	arr := &ast.ArrayExpr{
		Elements: []ast.Expression{
			&ast.UnaryExpr{Op: "*", Operand: lit(inner)},
			lit(value.Int(3)),
		},
	}
	got, err := e.Eval(arr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	elems := got.AsArray().Elements()
	if len(elems) != 3 {
		t.Fatalf("expected 3 elements after splat, got %d", len(elems))
	}
	if elems[0].AsInt() != 1 || elems[1].AsInt() != 2 || elems[2].AsInt() != 3 {
		t.Errorf("unexpected splat result: %v", elems)
	}
}

func TestEvalHash(t *testing.T) {
	e, _ := newTestEvaluator()
	h := &ast.HashExpr{Entries: []ast.HashEntry{
		{Key: lit(value.Str("a")), Value: lit(value.Int(1))},
	}}
	got, err := e.Eval(h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, ok := got.AsHash().Get(value.Str("a"))
	if !ok || v.AsInt() != 1 {
		t.Errorf("expected hash[a]=1, got %v ok=%v", v, ok)
	}
}
