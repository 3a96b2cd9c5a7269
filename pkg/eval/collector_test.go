package eval

import (
	"context"
	"testing"

	"github.com/latticelang/lattice/pkg/ast"
	"github.com/latticelang/lattice/pkg/catalog"
	"github.com/latticelang/lattice/pkg/registry"
	"github.com/latticelang/lattice/pkg/value"
)

// registryWithSelfRecursingDefinedType builds a "recur" defined type
// whose body always declares one more instance of itself under a fresh
// title ($title + "x"), so its invocation queue never stops growing —
// the forcing function for a finalization-non-convergent test.
func registryWithSelfRecursingDefinedType(t *testing.T) *registry.Registry {
	t.Helper()
	def := &ast.DefinedTypeDefinition{
		Name: "recur",
		Body: []ast.Expression{
			&ast.ResourceExpr{
				TypeName: "recur",
				Instances: []ast.ResourceInstance{
					{Title: &ast.BinaryExpr{
						Op:    ".",
						Left:  &ast.VariableExpr{Name: "title"},
						Right: lit(value.Str("x")),
					}},
				},
			},
		},
	}
	reg := registry.New(nil)
	if err := reg.Import(&ast.TopLevel{DefinedTypes: []*ast.DefinedTypeDefinition{def}}); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	return reg
}

func TestCollectorRealizesVirtualResource(t *testing.T) {
	e, ctx := newTestEvaluator()

	virtual := &ast.ResourceExpr{
		TypeName: "notify",
		Virtual:  true,
		Instances: []ast.ResourceInstance{
			{Title: lit(value.Str("v")), Attributes: nil},
		},
	}
	if _, err := e.Eval(virtual); err != nil {
		t.Fatalf("unexpected error declaring virtual resource: %v", err)
	}
	r, ok := ctx.Catalog.Find(catalog.CanonicalKey("Notify", "v"))
	if !ok || !r.Virtual {
		t.Fatalf("expected Notify[v] to exist and be virtual, got %+v ok=%v", r, ok)
	}

	coll := &ast.CollectorExpr{TypeName: "Notify", Predicate: nil}
	if _, err := e.Eval(coll); err != nil {
		t.Fatalf("unexpected error evaluating collector: %v", err)
	}
	if err := e.Finalize(context.Background()); err != nil {
		t.Fatalf("unexpected finalize error: %v", err)
	}
	if r.Virtual {
		t.Error("expected the collector to realize (un-virtual) Notify[v]")
	}
}

func TestCollectorPredicateFiltersByAttribute(t *testing.T) {
	e, ctx := newTestEvaluator()

	for _, title := range []string{"a", "b"} {
		virtual := &ast.ResourceExpr{
			TypeName: "notify",
			Virtual:  true,
			Instances: []ast.ResourceInstance{
				{Title: lit(value.Str(title)), Attributes: []ast.ResourceAttribute{
					{Name: "message", Op: "=>", Value: lit(value.Str(title))},
				}},
			},
		}
		if _, err := e.Eval(virtual); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	coll := &ast.CollectorExpr{
		TypeName: "Notify",
		Predicate: &ast.BinaryExpr{
			Op:    "==",
			Left:  &ast.NameExpr{Name: "message"},
			Right: lit(value.Str("a")),
		},
	}
	if _, err := e.Eval(coll); err != nil {
		t.Fatalf("unexpected error evaluating collector: %v", err)
	}
	if err := e.Finalize(context.Background()); err != nil {
		t.Fatalf("unexpected finalize error: %v", err)
	}

	ra, _ := ctx.Catalog.Find(catalog.CanonicalKey("Notify", "a"))
	rb, _ := ctx.Catalog.Find(catalog.CanonicalKey("Notify", "b"))
	if ra.Virtual {
		t.Error("expected Notify[a] to be realized by the matching predicate")
	}
	if !rb.Virtual {
		t.Error("expected Notify[b] to remain virtual, not matching the predicate")
	}
}

func TestFinalizeFailsWhenAnOverrideTargetIsNeverDeclared(t *testing.T) {
	e, _ := newTestEvaluator()
	override := &ast.ResourceOverrideExpr{
		TypeName: "File",
		Title:    lit(value.Str("/never")),
		Attributes: []ast.ResourceAttribute{
			{Name: "owner", Op: "=>", Value: lit(value.Str("root"))},
		},
	}
	if _, err := e.Eval(override); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// An override whose target is never declared leaves the queue size
	// unchanged pass over pass, so Finalize reaches its fixed point quickly
	// rather than spinning to the iteration bound — but a fixed point with
	// an unapplied override still queued is a user error, not success.
	if err := e.Finalize(context.Background()); err == nil {
		t.Error("expected finalize to fail for an override whose target is never declared")
	}
}

func TestFinalizeNonConvergentFailsClosed(t *testing.T) {
	e, _ := newTestEvaluator()
	reg := registryWithSelfRecursingDefinedType(t)
	e.Registry = reg
	e.Ctx.IterationBound = 5

	res := &ast.ResourceExpr{
		TypeName: "recur",
		Instances: []ast.ResourceInstance{
			{Title: lit(value.Str("0"))},
		},
	}
	if _, err := e.Eval(res); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.Finalize(context.Background()); err == nil {
		t.Error("expected finalization-non-convergent for a defined type that keeps declaring itself with a fresh title")
	}
}
