package eval

import (
	"testing"

	"github.com/latticelang/lattice/pkg/ast"
	"github.com/latticelang/lattice/pkg/value"
)

func TestAccessArrayPositiveIndex(t *testing.T) {
	e, _ := newTestEvaluator()
	arr := &ast.ArrayExpr{Elements: []ast.Expression{lit(value.Int(10)), lit(value.Int(20)), lit(value.Int(30))}}
	got, err := e.Eval(&ast.AccessExpr{Target: arr, Keys: []ast.Expression{lit(value.Int(1))}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AsInt() != 20 {
		t.Errorf("expected 20, got %v", got)
	}
}

func TestAccessArrayNegativeIndex(t *testing.T) {
	e, _ := newTestEvaluator()
	arr := &ast.ArrayExpr{Elements: []ast.Expression{lit(value.Int(10)), lit(value.Int(20)), lit(value.Int(30))}}
	got, err := e.Eval(&ast.AccessExpr{Target: arr, Keys: []ast.Expression{lit(value.Int(-1))}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AsInt() != 30 {
		t.Errorf("expected 30 from index -1, got %v", got)
	}
}

func TestAccessArrayRange(t *testing.T) {
	e, _ := newTestEvaluator()
	arr := &ast.ArrayExpr{Elements: []ast.Expression{
		lit(value.Int(1)), lit(value.Int(2)), lit(value.Int(3)), lit(value.Int(4)),
	}}
	got, err := e.Eval(&ast.AccessExpr{Target: arr, Keys: []ast.Expression{lit(value.Int(1)), lit(value.Int(2))}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	elems := got.AsArray().Elements()
	if len(elems) != 2 || elems[0].AsInt() != 2 || elems[1].AsInt() != 3 {
		t.Errorf("expected [2,3], got %v", elems)
	}
}

func TestAccessHashByKey(t *testing.T) {
	e, _ := newTestEvaluator()
	h := &ast.HashExpr{Entries: []ast.HashEntry{
		{Key: lit(value.Str("a")), Value: lit(value.Int(1))},
	}}
	got, err := e.Eval(&ast.AccessExpr{Target: h, Keys: []ast.Expression{lit(value.Str("a"))}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AsInt() != 1 {
		t.Errorf("expected 1, got %v", got)
	}
}

func TestAccessHashMissingKeyYieldsUndef(t *testing.T) {
	e, _ := newTestEvaluator()
	h := &ast.HashExpr{}
	got, err := e.Eval(&ast.AccessExpr{Target: h, Keys: []ast.Expression{lit(value.Str("missing"))}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind() != value.Undef {
		t.Errorf("expected undef for a missing key, got %v", got)
	}
}

func TestAccessStringIndex(t *testing.T) {
	e, _ := newTestEvaluator()
	got, err := e.Eval(&ast.AccessExpr{Target: lit(value.Str("hello")), Keys: []ast.Expression{lit(value.Int(1))}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AsString() != "e" {
		t.Errorf("expected 'e', got %v", got)
	}
}

func TestAccessStringRange(t *testing.T) {
	e, _ := newTestEvaluator()
	got, err := e.Eval(&ast.AccessExpr{
		Target: lit(value.Str("hello")),
		Keys:   []ast.Expression{lit(value.Int(1)), lit(value.Int(3))},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AsString() != "ell" {
		t.Errorf("expected 'ell', got %v", got)
	}
}

func TestAccessParametrizesBareType(t *testing.T) {
	e, _ := newTestEvaluator()
	got, err := e.Eval(&ast.AccessExpr{
		Target: &ast.TypeExpr{Name: "Integer"},
		Keys:   []ast.Expression{lit(value.Int(1)), lit(value.Int(10))},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind() != value.TypeValue {
		t.Errorf("expected a Type value, got %v", got.Kind())
	}
}

func TestAccessRejectsIndexingAnInteger(t *testing.T) {
	e, _ := newTestEvaluator()
	if _, err := e.Eval(&ast.AccessExpr{Target: lit(value.Int(5)), Keys: []ast.Expression{lit(value.Int(0))}}); err == nil {
		t.Error("expected an error indexing a non-indexable value")
	}
}
