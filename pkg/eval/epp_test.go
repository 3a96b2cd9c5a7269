package eval

import (
	"testing"

	"github.com/latticelang/lattice/pkg/ast"
	"github.com/latticelang/lattice/pkg/value"
)

func TestEvalEppRenderInterleavesTextAndExpressions(t *testing.T) {
	e, ctx := newTestEvaluator()
	guard := ctx.PushEppStream()

	n := &ast.EppRenderExpr{Segments: []ast.EppSegment{
		{Text: "hello "},
		{Expr: lit(value.Str("world"))},
		{Text: "!"},
	}}
	if _, err := e.Eval(n); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := guard.Close(); got != "hello world!" {
		t.Errorf("expected %q, got %q", "hello world!", got)
	}
}

func TestEvalEppRenderTrimsWhitespace(t *testing.T) {
	e, ctx := newTestEvaluator()
	guard := ctx.PushEppStream()

	n := &ast.EppRenderExpr{Segments: []ast.EppSegment{
		{Text: "  padded  ", TrimLeft: true, TrimRight: true},
	}}
	if _, err := e.Eval(n); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := guard.Close(); got != "padded" {
		t.Errorf("expected %q, got %q", "padded", got)
	}
}

func TestEvalEppRenderOutsideEppStreamFails(t *testing.T) {
	e, _ := newTestEvaluator()
	n := &ast.EppRenderExpr{Segments: []ast.EppSegment{{Text: "x"}}}
	if _, err := e.Eval(n); err == nil {
		t.Error("expected an error rendering EPP outside an open EPP stream")
	}
}

func TestRenderEppSubstitutesParamOverScope(t *testing.T) {
	e, ctx := newTestEvaluator()
	if err := ctx.CurrentScope().Set("name", value.Str("scoped")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := e.renderEpp("hi <%= $name %>", map[string]value.Value{"name": value.Str("param")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "hi param" {
		t.Errorf("expected the param binding to win over scope, got %q", out)
	}
}

func TestRenderEppFallsBackToScope(t *testing.T) {
	e, ctx := newTestEvaluator()
	if err := ctx.CurrentScope().Set("name", value.Str("scoped")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := e.renderEpp("hi <%= $name %>", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "hi scoped" {
		t.Errorf("expected the scope binding, got %q", out)
	}
}
