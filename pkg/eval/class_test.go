package eval

import (
	"testing"

	"github.com/latticelang/lattice/pkg/ast"
	"github.com/latticelang/lattice/pkg/catalog"
	"github.com/latticelang/lattice/pkg/registry"
	"github.com/latticelang/lattice/pkg/value"
)

func classDef(name string, params []ast.Parameter, body []ast.Expression) *ast.ClassDefinition {
	return &ast.ClassDefinition{Name: name, Params: params, Body: body}
}

func TestDeclareClassIsIdempotent(t *testing.T) {
	e, ctx := newTestEvaluator()
	reg := registry.New(nil)
	if err := reg.Import(&ast.TopLevel{Classes: []*ast.ClassDefinition{classDef("ntp", nil, nil)}}); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	e.Registry = reg

	first, err := e.DeclareClass("ntp", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := e.DeclareClass("ntp", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Error("expected the same *catalog.Resource on repeated declare_class for the same name")
	}
	if _, ok := ctx.Catalog.Find(catalog.CanonicalKey("Class", "ntp")); !ok {
		t.Error("expected Class[ntp] in the catalog")
	}
}

func TestDeclareClassUndefinedFails(t *testing.T) {
	e, _ := newTestEvaluator()
	if _, err := e.DeclareClass("nope", nil); err == nil {
		t.Error("expected an error declaring an unregistered class")
	}
}

func TestDeclareClassBindsParamsWithDefault(t *testing.T) {
	e, _ := newTestEvaluator()
	reg := registry.New(nil)
	body := []ast.Expression{
		&ast.BinaryExpr{Op: "=", Left: &ast.VariableExpr{Name: "seen"}, Right: &ast.VariableExpr{Name: "servers"}},
	}
	def := classDef("ntp", []ast.Parameter{
		{Name: "servers", Default: lit(value.Str("pool.ntp.org"))},
	}, body)
	if err := reg.Import(&ast.TopLevel{Classes: []*ast.ClassDefinition{def}}); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	e.Registry = reg

	if _, err := e.DeclareClass("ntp", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeclareClassDeclaresParentFirst(t *testing.T) {
	e, ctx := newTestEvaluator()
	reg := registry.New(nil)
	parent := classDef("base", nil, nil)
	child := classDef("child", nil, nil)
	child.Parent = "base"
	if err := reg.Import(&ast.TopLevel{Classes: []*ast.ClassDefinition{parent, child}}); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	e.Registry = reg

	if _, err := e.DeclareClass("child", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := ctx.Catalog.Find(catalog.CanonicalKey("Class", "base")); !ok {
		t.Error("expected the parent class to be declared as a side effect")
	}
}
