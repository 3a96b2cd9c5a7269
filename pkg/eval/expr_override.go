package eval

import (
	"github.com/latticelang/lattice/pkg/ast"
	"github.com/latticelang/lattice/pkg/catalog"
	"github.com/latticelang/lattice/pkg/diagnostics"
	"github.com/latticelang/lattice/pkg/scope"
	"github.com/latticelang/lattice/pkg/types"
	"github.com/latticelang/lattice/pkg/value"
)

// evalOverride implements "Type['title'] { attr => val }" (spec §4.7):
// the override is always enqueued (so a finalization pass can retry it
// if the target doesn't exist yet), and also applied immediately if the
// target already exists in the catalog, per §4.4's "immediate
// evaluation if the target already exists".
func (e *Evaluator) evalOverride(n *ast.ResourceOverrideExpr) (value.Value, error) {
	canonical := types.CanonicalizeResourceTypeName(n.TypeName)
	if lowerEquals(n.TypeName, "class") {
		return value.Value{}, diagnostics.At(diagnostics.KindEvaluation, n.Pos(),
			"overriding a Class[...] reference is prohibited")
	}

	titleVal, err := e.Eval(n.Title)
	if err != nil {
		return value.Value{}, err
	}
	key := catalog.CanonicalKey(canonical, titleVal.Deref().AsString())

	item := &OverrideItem{
		Key:          key,
		Attributes:   n.Attributes,
		CaptureScope: e.Ctx.CurrentScope(),
		Pos:          n.Pos(),
	}
	e.Ctx.EnqueueOverride(item)

	if _, ok := e.Ctx.Catalog.Find(key); ok {
		if err := e.applyOverride(item); err != nil {
			return value.Value{}, err
		}
	}
	return value.TypeVal(types.NewResourceType(canonical, titleVal.Deref().AsString(), true)), nil
}

// applyOverride evaluates and writes every attribute an override
// carries against its (already-confirmed-to-exist) target, scoped to
// the override's own capture scope (so variables in the override body
// resolve where it was written, not where its target was declared).
func (e *Evaluator) applyOverride(ov *OverrideItem) error {
	if ov.applied {
		return nil
	}
	prevStack := e.Ctx.scopeStack
	e.Ctx.scopeStack = []*scope.Scope{ov.CaptureScope}
	defer func() { e.Ctx.scopeStack = prevStack }()

	for _, attr := range ov.Attributes {
		v, err := e.Eval(attr.Value)
		if err != nil {
			return err
		}
		op := attr.Op
		if op == "" {
			op = "=>"
		}
		if err := e.Ctx.Catalog.SetAttribute(ov.Key, attr.Name, op, v); err != nil {
			return err
		}
	}
	ov.applied = true
	return nil
}
