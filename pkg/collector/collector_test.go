package collector

import (
	"context"
	"testing"

	"github.com/latticelang/lattice/pkg/ast"
	"github.com/latticelang/lattice/pkg/catalog"
	"github.com/latticelang/lattice/pkg/value"
)

func nameExpr(n string) *ast.NameExpr {
	return &ast.NameExpr{Name: n}
}

func litExpr(v value.Value) *ast.Literal {
	return ast.NewLiteral(ast.Position{}, v)
}

func resourceWithAttrs(attrs map[string]value.Value) *catalog.Resource {
	return &catalog.Resource{
		Key:        catalog.Key{Type: "File", Title: "x"},
		Attributes: attrs,
	}
}

func TestCompileNilPredicateMatchesEverything(t *testing.T) {
	e := NewEngine()
	c, err := e.Compile(nil)
	if err != nil {
		t.Fatal(err)
	}
	ok, err := c.Matches(context.Background(), resourceWithAttrs(nil))
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("expected nil predicate to match every resource")
	}
}

func TestCompileEqualityPredicateMatches(t *testing.T) {
	e := NewEngine()
	pred := &ast.BinaryExpr{Op: "==", Left: nameExpr("ensure"), Right: litExpr(value.Str("present"))}
	c, err := e.Compile(pred)
	if err != nil {
		t.Fatal(err)
	}

	match := resourceWithAttrs(map[string]value.Value{"ensure": value.Str("present")})
	ok, err := c.Matches(context.Background(), match)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("expected resource with ensure=present to match")
	}

	noMatch := resourceWithAttrs(map[string]value.Value{"ensure": value.Str("absent")})
	ok, err = c.Matches(context.Background(), noMatch)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("expected resource with ensure=absent not to match")
	}
}

func TestCompileAndCombinesClauses(t *testing.T) {
	e := NewEngine()
	pred := &ast.BinaryExpr{
		Op:   "and",
		Left: &ast.BinaryExpr{Op: "==", Left: nameExpr("ensure"), Right: litExpr(value.Str("present"))},
		Right: &ast.BinaryExpr{Op: "==", Left: nameExpr("owner"), Right: litExpr(value.Str("root"))},
	}
	c, err := e.Compile(pred)
	if err != nil {
		t.Fatal(err)
	}

	full := resourceWithAttrs(map[string]value.Value{
		"ensure": value.Str("present"),
		"owner":  value.Str("root"),
	})
	ok, err := c.Matches(context.Background(), full)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("expected both-clauses-true resource to match")
	}

	partial := resourceWithAttrs(map[string]value.Value{
		"ensure": value.Str("present"),
		"owner":  value.Str("nobody"),
	})
	ok, err = c.Matches(context.Background(), partial)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("expected partially-matching resource not to match")
	}
}

func TestCompileRejectsUnsupportedShape(t *testing.T) {
	e := NewEngine()
	_, err := e.Compile(nameExpr("bareword"))
	if err == nil {
		t.Fatal("expected unsupported predicate shape to error")
	}
}

func TestCompileNotEqual(t *testing.T) {
	e := NewEngine()
	pred := &ast.BinaryExpr{Op: "!=", Left: nameExpr("ensure"), Right: litExpr(value.Str("absent"))}
	c, err := e.Compile(pred)
	if err != nil {
		t.Fatal(err)
	}
	ok, err := c.Matches(context.Background(), resourceWithAttrs(map[string]value.Value{"ensure": value.Str("present")}))
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("expected ensure != absent to match present")
	}
}
