package eval

import (
	"testing"

	"github.com/latticelang/lattice/pkg/ast"
	"github.com/latticelang/lattice/pkg/types"
	"github.com/latticelang/lattice/pkg/value"
)

func TestResolveTypeSimple(t *testing.T) {
	e, _ := newTestEvaluator()
	ty, err := e.ResolveType(&ast.TypeExpr{Name: "String"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ty.Kind() != types.KindString {
		t.Errorf("expected KindString, got %v", ty.Kind())
	}
}

func TestResolveTypeIntegerWithBounds(t *testing.T) {
	e, _ := newTestEvaluator()
	ty, err := e.ResolveType(&ast.TypeExpr{
		Name:   "Integer",
		Params: []ast.Expression{lit(value.Int(1)), lit(value.Int(10))},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ty.IsInstance(value.Int(5)) {
		t.Error("expected Integer[1,10] to admit 5")
	}
	if ty.IsInstance(value.Int(20)) {
		t.Error("expected Integer[1,10] to reject 20")
	}
}

func TestResolveTypeArrayOfString(t *testing.T) {
	e, _ := newTestEvaluator()
	ty, err := e.ResolveType(&ast.TypeExpr{
		Name:   "Array",
		Params: []ast.Expression{&ast.TypeExpr{Name: "String"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ty.Kind() != types.KindArray {
		t.Errorf("expected KindArray, got %v", ty.Kind())
	}
	arr := value.Arr(value.NewArray([]value.Value{value.Str("x")}))
	if !ty.IsInstance(arr) {
		t.Error("expected Array[String] to admit [\"x\"]")
	}
}

func TestResolveTypeBareUppercaseNameIsResourceType(t *testing.T) {
	e, _ := newTestEvaluator()
	ty, err := e.ResolveType(&ast.TypeExpr{Name: "File"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ty.Kind() != types.KindResource {
		t.Errorf("expected KindResource for a bare uppercase name, got %v", ty.Kind())
	}
}

func TestResolveTypeUnknownFails(t *testing.T) {
	e, _ := newTestEvaluator()
	if _, err := e.ResolveType(&ast.TypeExpr{Name: "nonsense"}); err == nil {
		t.Error("expected an error for an unknown lowercase type name")
	}
}
