package eval

import (
	"testing"

	"github.com/latticelang/lattice/pkg/ast"
	"github.com/latticelang/lattice/pkg/value"
)

func TestEvalIfTakesThenBranch(t *testing.T) {
	e, _ := newTestEvaluator()
	got, err := e.Eval(&ast.IfExpr{
		Cond: lit(value.Bool(true)),
		Then: []ast.Expression{lit(value.Str("then"))},
		Else: []ast.Expression{lit(value.Str("else"))},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AsString() != "then" {
		t.Errorf("expected then, got %v", got)
	}
}

func TestEvalIfFallsThroughToElsif(t *testing.T) {
	e, _ := newTestEvaluator()
	got, err := e.Eval(&ast.IfExpr{
		Cond: lit(value.Bool(false)),
		Then: []ast.Expression{lit(value.Str("then"))},
		Elsif: []ast.IfExpr{
			{Cond: lit(value.Bool(true)), Then: []ast.Expression{lit(value.Str("elsif"))}},
		},
		Else: []ast.Expression{lit(value.Str("else"))},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AsString() != "elsif" {
		t.Errorf("expected elsif, got %v", got)
	}
}

func TestEvalIfWithNoMatchAndNoElseYieldsUndef(t *testing.T) {
	e, _ := newTestEvaluator()
	got, err := e.Eval(&ast.IfExpr{Cond: lit(value.Bool(false)), Then: []ast.Expression{lit(value.Str("x"))}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind() != value.Undef {
		t.Errorf("expected undef, got %v", got)
	}
}

func TestEvalCaseMatchesByEquality(t *testing.T) {
	e, _ := newTestEvaluator()
	got, err := e.Eval(&ast.CaseExpr{
		Subject: lit(value.Str("b")),
		Options: []ast.CaseOption{
			{Values: []ast.Expression{lit(value.Str("a"))}, Body: []ast.Expression{lit(value.Int(1))}},
			{Values: []ast.Expression{lit(value.Str("b"))}, Body: []ast.Expression{lit(value.Int(2))}},
			{Body: []ast.Expression{lit(value.Int(-1))}},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AsInt() != 2 {
		t.Errorf("expected 2, got %v", got)
	}
}

func TestEvalCaseFallsBackToDefault(t *testing.T) {
	e, _ := newTestEvaluator()
	got, err := e.Eval(&ast.CaseExpr{
		Subject: lit(value.Str("z")),
		Options: []ast.CaseOption{
			{Values: []ast.Expression{lit(value.Str("a"))}, Body: []ast.Expression{lit(value.Int(1))}},
			{Body: []ast.Expression{lit(value.Int(-1))}},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AsInt() != -1 {
		t.Errorf("expected the default arm's -1, got %v", got)
	}
}

func TestEvalCaseMatchesRegexAndExposesCaptures(t *testing.T) {
	e, _ := newTestEvaluator()
	re, err := value.CompileRegex("(f)(o+)")
	if err != nil {
		t.Fatalf("unexpected error compiling regex: %v", err)
	}
	got, err := e.Eval(&ast.CaseExpr{
		Subject: lit(value.Str("foo")),
		Options: []ast.CaseOption{
			{
				Values: []ast.Expression{lit(value.Rx(re))},
				Body:   []ast.Expression{&ast.VariableExpr{Name: "1"}},
			},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AsString() != "f" {
		t.Errorf("expected capture group 1 to be 'f', got %v", got)
	}
}

func TestEvalSelectorNoMatchNoDefaultFails(t *testing.T) {
	e, _ := newTestEvaluator()
	_, err := e.Eval(&ast.SelectorExpr{
		Subject: lit(value.Str("z")),
		Cases: []ast.CaseOption{
			{Values: []ast.Expression{lit(value.Str("a"))}, Body: []ast.Expression{lit(value.Int(1))}},
		},
	})
	if err == nil {
		t.Error("expected an error when no selector case matches and there's no default")
	}
}

func TestEvalSelectorReturnsMatchingResult(t *testing.T) {
	e, _ := newTestEvaluator()
	got, err := e.Eval(&ast.SelectorExpr{
		Subject: lit(value.Str("b")),
		Cases: []ast.CaseOption{
			{Values: []ast.Expression{lit(value.Str("a"))}, Body: []ast.Expression{lit(value.Int(1))}},
			{Values: []ast.Expression{lit(value.Str("b"))}, Body: []ast.Expression{lit(value.Int(2))}},
			{Body: []ast.Expression{lit(value.Int(-1))}},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AsInt() != 2 {
		t.Errorf("expected 2, got %v", got)
	}
}
