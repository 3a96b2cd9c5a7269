package eval

import (
	"testing"

	"github.com/latticelang/lattice/pkg/ast"
	"github.com/latticelang/lattice/pkg/value"
)

func TestUnaryNot(t *testing.T) {
	e, _ := newTestEvaluator()
	got, err := e.Eval(&ast.UnaryExpr{Op: "!", Operand: lit(value.Bool(false))})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Truthy() {
		t.Error("expected !false to be true")
	}
}

func TestUnaryNegate(t *testing.T) {
	e, _ := newTestEvaluator()
	got, err := e.Eval(&ast.UnaryExpr{Op: "-", Operand: lit(value.Int(5))})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AsInt() != -5 {
		t.Errorf("expected -5, got %v", got)
	}
}

func TestUnarySplatWrapsScalar(t *testing.T) {
	e, _ := newTestEvaluator()
	got, err := e.Eval(&ast.UnaryExpr{Op: "*", Operand: lit(value.Int(5))})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind() != value.ArrayKind {
		t.Errorf("expected splatting a scalar to yield an array, got %v", got.Kind())
	}
}
