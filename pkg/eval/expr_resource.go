package eval

import (
	"fmt"

	"github.com/latticelang/lattice/pkg/ast"
	"github.com/latticelang/lattice/pkg/catalog"
	"github.com/latticelang/lattice/pkg/diagnostics"
	"github.com/latticelang/lattice/pkg/scope"
	"github.com/latticelang/lattice/pkg/types"
	"github.com/latticelang/lattice/pkg/value"
)

// evalResource implements a resource expression (spec §4.7): the
// default-titled body's attributes (if any) are evaluated first and
// used as a base every other instance's own attributes override; each
// non-default instance is then declared — immediately for a class,
// enqueued for a defined type, added straight to the catalog for a
// plain/native resource type — and, after a successful catalog add, any
// queued override already targeting it is applied.
func (e *Evaluator) evalResource(n *ast.ResourceExpr) (value.Value, error) {
	canonical := types.CanonicalizeResourceTypeName(n.TypeName)

	if _, isClass := e.Registry.FindClass(canonical); isClass && (n.Virtual || n.Exported) {
		return value.Value{}, diagnostics.At(diagnostics.KindEvaluation, n.Pos(),
			fmt.Sprintf("class %q cannot be declared virtual or exported", n.TypeName))
	}

	defaultAttrs, _, err := e.findDefaultAttrs(n.Instances)
	if err != nil {
		return value.Value{}, err
	}

	var refs []value.Value
	for _, inst := range n.Instances {
		titleVal, err := e.Eval(inst.Title)
		if err != nil {
			return value.Value{}, err
		}
		if titleVal.Deref().Kind() == value.Default {
			continue // the default body itself; already folded into defaultAttrs
		}

		instAttrs, order, err := e.evalAttributeList(inst.Attributes, false)
		if err != nil {
			return value.Value{}, err
		}
		merged, mergedOrder := mergeAttrMaps(defaultAttrs, instAttrs, order)

		titles := titlesOf(titleVal)
		for _, title := range titles {
			ref, err := e.declareOne(n, canonical, title, merged, mergedOrder)
			if err != nil {
				return value.Value{}, err
			}
			refs = append(refs, ref)
		}
	}

	if len(refs) == 1 {
		return refs[0], nil
	}
	return value.Arr(value.NewArray(refs)), nil
}

func titlesOf(v value.Value) []string {
	v = v.Deref()
	if v.Kind() == value.ArrayKind {
		out := make([]string, 0, v.AsArray().Len())
		for _, el := range v.AsArray().Elements() {
			out = append(out, el.Deref().AsString())
		}
		return out
	}
	return []string{v.AsString()}
}

func (e *Evaluator) findDefaultAttrs(instances []ast.ResourceInstance) (map[string]value.Value, []string, error) {
	for _, inst := range instances {
		v, err := e.Eval(inst.Title)
		if err != nil {
			return nil, nil, err
		}
		if v.Deref().Kind() == value.Default {
			return e.evalAttributeList(inst.Attributes, false)
		}
	}
	return nil, nil, nil
}

func mergeAttrMaps(base, overlay map[string]value.Value, overlayOrder []string) (map[string]value.Value, []string) {
	out := make(map[string]value.Value, len(base)+len(overlay))
	var order []string
	for k, v := range base {
		out[k] = v
	}
	for k := range base {
		order = append(order, k)
	}
	for _, k := range overlayOrder {
		if _, existed := out[k]; !existed {
			order = append(order, k)
		}
		out[k] = overlay[k]
	}
	return out, order
}

func (e *Evaluator) evalAttributeList(attrs []ast.ResourceAttribute, allowAppend bool) (map[string]value.Value, []string, error) {
	out := make(map[string]value.Value, len(attrs))
	order := make([]string, 0, len(attrs))
	for _, a := range attrs {
		if a.Op == "+>" && !allowAppend {
			return nil, nil, diagnostics.New(diagnostics.KindType,
				fmt.Sprintf("attribute operator \"+>\" is only legal inside an override expression (attribute %q)", a.Name))
		}
		v, err := e.Eval(a.Value)
		if err != nil {
			return nil, nil, err
		}
		if _, existed := out[a.Name]; !existed {
			order = append(order, a.Name)
		}
		out[a.Name] = v
	}
	return out, order, nil
}

// declareOne declares a single (typeName, title) instance according to
// what canonical resolves to in the registry: a class (declared
// immediately), a defined type (enqueued), or a plain catalog resource
// (added immediately).
func (e *Evaluator) declareOne(n *ast.ResourceExpr, canonical, title string, attrs map[string]value.Value, order []string) (value.Value, error) {
	if lowerEquals(n.TypeName, "class") {
		if _, err := e.DeclareClass(title, attrs); err != nil {
			return value.Value{}, err
		}
		return value.TypeVal(types.NewClassType(title)), nil
	}

	if def, ok := e.Registry.FindDefinedType(canonical); ok {
		key := catalog.CanonicalKey(canonical, title)
		r := &catalog.Resource{
			Key:         key,
			Virtual:     n.Virtual,
			Exported:    n.Exported,
			DeclaredAt:  n.Pos(),
			Containment: containmentOf(e.Ctx.CurrentScope()),
		}
		if err := e.Ctx.Catalog.Add(r); err != nil {
			return value.Value{}, err
		}
		e.Ctx.EnqueueDefinedType(&DefinedTypeInvocation{
			DefName:     def.Name,
			Key:         key,
			Args:        attrs,
			Resource:    r,
			ParentScope: e.Ctx.CurrentScope(),
			Pos:         n.Pos(),
		})
		e.applyImmediateOverrides(key)
		return value.TypeVal(types.NewResourceType(canonical, title, true)), nil
	}

	key := catalog.CanonicalKey(canonical, title)
	r := &catalog.Resource{
		Key:         key,
		Virtual:     n.Virtual,
		Exported:    n.Exported,
		DeclaredAt:  n.Pos(),
		Containment: containmentOf(e.Ctx.CurrentScope()),
	}
	if err := e.Ctx.Catalog.Add(r); err != nil {
		return value.Value{}, err
	}
	for _, name := range order {
		if err := e.Ctx.Catalog.SetAttribute(key, name, "=>", attrs[name]); err != nil {
			return value.Value{}, err
		}
	}
	e.applyImmediateOverrides(key)
	return value.TypeVal(types.NewResourceType(canonical, title, true)), nil
}

func containmentOf(s *scope.Scope) string {
	if s == nil || s.Resource() == nil {
		return ""
	}
	return s.Resource().ResourceKey()
}

func lowerEquals(s, want string) bool {
	if len(s) != len(want) {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != want[i] {
			return false
		}
	}
	return true
}

// applyImmediateOverrides discharges every still-unapplied queued
// override whose target is key (spec §4.4: "evaluate_overrides(...)
// applies every queued override whose target ... matches this resource
// immediately after declaration").
func (e *Evaluator) applyImmediateOverrides(key catalog.Key) {
	for _, ov := range e.Ctx.overrides {
		if ov.applied || ov.Key != key {
			continue
		}
		if _, ok := e.Ctx.Catalog.Find(ov.Key); !ok {
			continue
		}
		_ = e.applyOverride(ov)
	}
}
