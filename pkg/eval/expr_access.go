package eval

import (
	"fmt"

	"github.com/latticelang/lattice/pkg/ast"
	"github.com/latticelang/lattice/pkg/diagnostics"
	"github.com/latticelang/lattice/pkg/value"
)

// evalAccess implements "expr[index]" (spec §4.7): array/hash indexing
// with negative-from-end indices and a `[from,len]` range form, plus
// type parametrization ("Integer[1,10]") when the access target is
// itself a bare type reference.
func (e *Evaluator) evalAccess(n *ast.AccessExpr) (value.Value, error) {
	if t, ok := n.Target.(*ast.TypeExpr); ok {
		parametrized := &ast.TypeExpr{Name: t.Name, Params: n.Keys}
		ty, err := e.ResolveType(parametrized)
		if err != nil {
			return value.Value{}, err
		}
		return value.TypeVal(ty), nil
	}

	target, err := e.Eval(n.Target)
	if err != nil {
		return value.Value{}, err
	}
	target = target.Deref()

	keys := make([]value.Value, len(n.Keys))
	for i, k := range n.Keys {
		v, err := e.Eval(k)
		if err != nil {
			return value.Value{}, err
		}
		keys[i] = v
	}

	switch target.Kind() {
	case value.ArrayKind:
		return e.accessArray(n, target.AsArray(), keys)
	case value.HashKind:
		if len(keys) != 1 {
			return value.Value{}, diagnostics.At(diagnostics.KindType, n.Pos(), "hash access takes exactly one key")
		}
		v, ok := target.AsHash().Get(keys[0])
		if !ok {
			return value.Undefined(), nil
		}
		return v, nil
	case value.String:
		return e.accessString(n, target.AsString(), keys)
	default:
		return value.Value{}, diagnostics.At(diagnostics.KindType, n.Pos(),
			fmt.Sprintf("cannot index a %s value", target.Kind()))
	}
}

func (e *Evaluator) accessArray(n *ast.AccessExpr, arr *value.Array, keys []value.Value) (value.Value, error) {
	if len(keys) == 2 {
		from := normalizeIndex(int(keys[0].AsInt()), arr.Len())
		length := int(keys[1].AsInt())
		return value.Arr(arr.Slice(from, length)), nil
	}
	if len(keys) != 1 {
		return value.Value{}, diagnostics.At(diagnostics.KindType, n.Pos(), "array access takes one index or a [from,len] pair")
	}
	idx := normalizeIndex(int(keys[0].AsInt()), arr.Len())
	v, ok := arr.At(idx)
	if !ok {
		return value.Undefined(), nil
	}
	return v, nil
}

func (e *Evaluator) accessString(n *ast.AccessExpr, s string, keys []value.Value) (value.Value, error) {
	graphemes := value.Graphemes(s)
	if len(keys) == 2 {
		from := normalizeIndex(int(keys[0].AsInt()), len(graphemes))
		length := int(keys[1].AsInt())
		return value.Str(joinGraphemes(sliceGraphemes(graphemes, from, length))), nil
	}
	if len(keys) != 1 {
		return value.Value{}, diagnostics.At(diagnostics.KindType, n.Pos(), "string access takes one index or a [from,len] pair")
	}
	idx := normalizeIndex(int(keys[0].AsInt()), len(graphemes))
	if idx < 0 || idx >= len(graphemes) {
		return value.Undefined(), nil
	}
	return value.Str(graphemes[idx]), nil
}

// normalizeIndex counts negative indices from the end of a length-n
// sequence (spec §4.7).
func normalizeIndex(idx, n int) int {
	if idx < 0 {
		return n + idx
	}
	return idx
}

func sliceGraphemes(g []string, from, length int) []string {
	if from < 0 {
		from = 0
	}
	if from >= len(g) {
		return nil
	}
	end := from + length
	if end > len(g) {
		end = len(g)
	}
	if end < from {
		end = from
	}
	return g[from:end]
}

func joinGraphemes(g []string) string {
	out := ""
	for _, s := range g {
		out += s
	}
	return out
}
