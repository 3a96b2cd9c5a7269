package eval

import (
	"fmt"

	"github.com/latticelang/lattice/pkg/ast"
	"github.com/latticelang/lattice/pkg/catalog"
	"github.com/latticelang/lattice/pkg/diagnostics"
	"github.com/latticelang/lattice/pkg/value"
)

// DeclareClass implements the evaluation context's declare_class
// contract (spec §4.6): a class is a catalog-backed singleton. If it is
// already declared, its existing resource is returned unchanged
// (enforcing the class-singleton property even across repeated
// `include`). Otherwise a Class[name] resource is created, a class
// scope is pushed (parented under the evaluated parent class's scope,
// if the class declares one), its body runs once, and the class is
// marked declared before returning.
func (e *Evaluator) DeclareClass(name string, params map[string]value.Value) (*catalog.Resource, error) {
	if r, ok := e.Ctx.ClassDeclared(name); ok {
		return r, nil
	}

	def, ok := e.Registry.FindClass(name)
	if !ok {
		return nil, diagnostics.New(diagnostics.KindUndefinedSymbol,
			fmt.Sprintf("class %q is not declared anywhere in this compile", name)).WithSymbol(name)
	}

	key := catalog.CanonicalKey("Class", name)
	r := &catalog.Resource{
		Key:        key,
		DeclaredAt: def.Pos(),
	}
	if err := e.Ctx.Catalog.Add(r); err != nil {
		return nil, err
	}
	e.Ctx.MarkClassDeclared(name, r)

	if def.Parent != "" {
		if _, err := e.DeclareClass(def.Parent, nil); err != nil {
			return nil, err
		}
	}

	_, guard := e.Ctx.PushScope(name, r)
	defer guard.Close()
	classScope := e.Ctx.CurrentScope()

	for _, p := range def.Params {
		v, err := e.resolveParam(p, params)
		if err != nil {
			return nil, err
		}
		if err := classScope.Set(p.Name, v); err != nil {
			return nil, diagnostics.At(diagnostics.KindRedefinition, def.Pos(), err.Error()).WithSymbol(p.Name)
		}
	}

	if _, err := e.EvalBlock(def.Body); err != nil {
		return nil, err
	}
	return r, nil
}

// resolveParam resolves one formal class/defined-type parameter: the
// caller-supplied argument if given, else its default expression, else
// undef; when the parameter carries a type constraint, the resolved
// value is checked against it.
func (e *Evaluator) resolveParam(p ast.Parameter, params map[string]value.Value) (value.Value, error) {
	v, has := params[p.Name]
	if !has {
		if p.Default != nil {
			dv, err := e.Eval(p.Default)
			if err != nil {
				return value.Value{}, err
			}
			v = dv
		} else {
			v = value.Undefined()
		}
	}
	if p.Type != nil {
		if te, ok := p.Type.(*ast.TypeExpr); ok {
			t, err := e.ResolveType(te)
			if err != nil {
				return value.Value{}, err
			}
			if !t.IsInstance(v) {
				return value.Value{}, diagnostics.At(diagnostics.KindType, te.Pos(),
					fmt.Sprintf("parameter %q expects %s", p.Name, t.String()))
			}
		}
	}
	return v, nil
}
