package eval

import (
	"fmt"
	"strings"

	"github.com/latticelang/lattice/pkg/ast"
	"github.com/latticelang/lattice/pkg/diagnostics"
	"github.com/latticelang/lattice/pkg/types"
	"github.com/latticelang/lattice/pkg/value"
)

// ResolveType evaluates a TypeExpr into a types.Type, evaluating each
// parameter expression against the current scope first (spec §4.2's
// "Types admit parametrisation" and §4.7's AccessExpr reuse for type
// instantiation).
func (e *Evaluator) ResolveType(t *ast.TypeExpr) (types.Type, error) {
	name := strings.TrimPrefix(t.Name, "::")
	params, err := e.evalTypeParams(t.Params)
	if err != nil {
		return nil, err
	}

	switch name {
	case "Any":
		return types.Any(), nil
	case "Undef":
		return types.UndefT(), nil
	case "Default":
		return types.DefaultT(), nil
	case "Boolean":
		return types.BooleanT(), nil
	case "Numeric":
		return types.NumericT(), nil
	case "Scalar":
		return types.ScalarT(), nil
	case "Data":
		return types.DataT(), nil
	case "CatalogEntry":
		return types.CatalogEntryT(), nil
	case "Collection":
		return types.CollectionT(), nil
	case "Integer":
		from, to := optionalIntBounds(params)
		return types.NewIntegerType(from, to), nil
	case "Float":
		from, to := optionalFloatBounds(params)
		return types.NewFloatType(from, to), nil
	case "String":
		min, max := 0, -1
		if len(params) >= 1 {
			min = intParam(params[0])
		}
		if len(params) >= 2 {
			max = intParam(params[1])
		}
		return types.NewStringType(min, max), nil
	case "Regexp":
		if len(params) == 0 {
			return types.NewRegexpType("", false), nil
		}
		return types.NewRegexpType(stringParam(params[0]), true), nil
	case "Enum":
		members := make([]string, len(params))
		for i, p := range params {
			members[i] = stringParam(p)
		}
		return types.NewEnumType(members), nil
	case "Pattern":
		patterns := make([]string, len(params))
		for i, p := range params {
			patterns[i] = stringParam(p)
		}
		return types.NewPatternType(patterns)
	case "Array":
		elem := elementOrAny(params)
		from, to := trailingIntBounds(params, elemParamCount(params))
		return types.NewArrayType(elem, from, to), nil
	case "Hash":
		key, val := types.ScalarT(), types.DataT()
		rest := params
		if len(rest) >= 1 {
			if tv, ok := asTypeParam(rest[0]); ok {
				key = tv
				rest = rest[1:]
			}
		}
		if len(rest) >= 1 {
			if tv, ok := asTypeParam(rest[0]); ok {
				val = tv
				rest = rest[1:]
			}
		}
		from, to := 0, -1
		if len(rest) >= 1 {
			from = intParam(rest[0])
		}
		if len(rest) >= 2 {
			to = intParam(rest[1])
		}
		return types.NewHashType(key, val, from, to), nil
	case "Tuple":
		var elemTypes []types.Type
		rest := params
		for len(rest) > 0 {
			tv, ok := asTypeParam(rest[0])
			if !ok {
				break
			}
			elemTypes = append(elemTypes, tv)
			rest = rest[1:]
		}
		from, to := len(elemTypes), len(elemTypes)
		if len(rest) >= 1 {
			from = intParam(rest[0])
		}
		if len(rest) >= 2 {
			to = intParam(rest[1])
		}
		return types.NewTupleType(elemTypes, from, to), nil
	case "Optional":
		inner := elementOrAny(params)
		return types.Optional(inner), nil
	case "NotUndef":
		return types.NewNotUndefType(elementOrAny(params)), nil
	case "Variant":
		var alts []types.Type
		for _, p := range params {
			if tv, ok := asTypeParam(p); ok {
				alts = append(alts, tv)
			}
		}
		return types.NewVariantType(alts), nil
	case "Callable":
		var paramTypes []types.Type
		var block types.Type
		for _, p := range params {
			if tv, ok := asTypeParam(p); ok {
				paramTypes = append(paramTypes, tv)
			}
		}
		return types.NewCallableType(paramTypes, block), nil
	case "Class":
		if len(params) == 0 {
			return types.NewClassType(""), nil
		}
		return types.NewClassType(stringParam(params[0])), nil
	case "Resource":
		typeName, title := "", ""
		if len(params) >= 1 {
			typeName = stringParam(params[0])
		}
		if len(params) >= 2 {
			title = stringParam(params[1])
		}
		return types.NewResourceType(typeName, title, len(params) >= 2), nil
	case "Runtime":
		if len(params) == 0 {
			return types.NewRuntimeType(""), nil
		}
		return types.NewRuntimeType(stringParam(params[0])), nil
	case "Type":
		if len(params) == 0 {
			return types.NewTypeOfType(nil), nil
		}
		inner, _ := asTypeParam(params[0])
		return types.NewTypeOfType(inner), nil
	default:
		// An uppercase bareword naming a resource type, e.g. "File" used
		// as a type reference rather than a resource declaration.
		if len(name) > 0 && name[0] >= 'A' && name[0] <= 'Z' {
			return types.NewResourceType(name, "", false), nil
		}
		return nil, diagnostics.At(diagnostics.KindUndefinedSymbol, t.Pos(),
			fmt.Sprintf("unknown type %q", name)).WithSymbol(name)
	}
}

func (e *Evaluator) evalTypeParams(exprs []ast.Expression) ([]value.Value, error) {
	out := make([]value.Value, len(exprs))
	for i, p := range exprs {
		v, err := e.Eval(p)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func intParam(v value.Value) int {
	v = v.Deref()
	if v.Kind() == value.Integer {
		return int(v.AsInt())
	}
	return 0
}

func stringParam(v value.Value) string {
	v = v.Deref()
	if v.Kind() == value.String {
		return v.AsString()
	}
	return v.Display()
}

func asTypeParam(v value.Value) (types.Type, bool) {
	v = v.Deref()
	if v.Kind() != value.TypeValue {
		return nil, false
	}
	t, ok := v.AsType().(types.Type)
	return t, ok
}

func elementOrAny(params []value.Value) types.Type {
	if len(params) == 0 {
		return types.DataT()
	}
	if tv, ok := asTypeParam(params[0]); ok {
		return tv
	}
	return types.Any()
}

func elemParamCount(params []value.Value) int {
	if len(params) > 0 {
		if _, ok := asTypeParam(params[0]); ok {
			return 1
		}
	}
	return 0
}

func trailingIntBounds(params []value.Value, skip int) (int, int) {
	rest := params[min(skip, len(params)):]
	from, to := 0, -1
	if len(rest) >= 1 {
		from = intParam(rest[0])
		to = from
	}
	if len(rest) >= 2 {
		to = intParam(rest[1])
	}
	return from, to
}

func optionalIntBounds(params []value.Value) (*int64, *int64) {
	var from, to *int64
	if len(params) >= 1 {
		n := int64(intParam(params[0]))
		from = &n
	}
	if len(params) >= 2 {
		n := int64(intParam(params[1]))
		to = &n
	}
	return from, to
}

func optionalFloatBounds(params []value.Value) (*float64, *float64) {
	var from, to *float64
	if len(params) >= 1 {
		v := params[0].Deref()
		f := v.AsFloat()
		if v.Kind() == value.Integer {
			f = float64(v.AsInt())
		}
		from = &f
	}
	if len(params) >= 2 {
		v := params[1].Deref()
		f := v.AsFloat()
		if v.Kind() == value.Integer {
			f = float64(v.AsInt())
		}
		to = &f
	}
	return from, to
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
