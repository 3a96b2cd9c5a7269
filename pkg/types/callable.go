package types

import (
	"strings"

	"github.com/latticelang/lattice/pkg/value"
)

// CallableType is Callable(param_types, block_type?). It matches function
// and lambda values; the evaluation core checks arity/type compatibility
// against it when dispatching function calls (§4.7, §4.8).
type CallableType struct {
	ParamTypes []Type
	BlockType  Type // nil when the callable takes no block
}

func NewCallableType(params []Type, block Type) *CallableType {
	return &CallableType{ParamTypes: params, BlockType: block}
}

func (t *CallableType) Kind() Kind { return KindCallable }

func (t *CallableType) String() string {
	parts := make([]string, len(t.ParamTypes))
	for i, p := range t.ParamTypes {
		parts[i] = p.String()
	}
	s := "Callable[" + strings.Join(parts, ", ") + "]"
	return s
}

// IsInstance on a Callable type is decided by the evaluator, which knows
// a call's arity/lambda shape; pkg/types only has the runtime Value, so a
// Callable never matches via the generic instance check.
func (t *CallableType) IsInstance(v value.Value) bool {
	return false
}

func (t *CallableType) IsSpecialization(other Type) bool {
	if o, ok := other.(*simpleType); ok && o.Kind() == KindAny {
		return true
	}
	o, ok := other.(*CallableType)
	if !ok || t.Equal(o) {
		return false
	}
	if len(t.ParamTypes) != len(o.ParamTypes) {
		return false
	}
	for i, p := range t.ParamTypes {
		// Parameter types are contravariant: a callable accepting a
		// broader parameter type can stand in for one accepting a
		// narrower type, so specialization runs in reverse here.
		if !(p.Equal(o.ParamTypes[i]) || o.ParamTypes[i].IsSpecialization(p)) {
			return false
		}
	}
	return true
}

func (t *CallableType) Equal(other value.TypeRef) bool {
	o, ok := other.(*CallableType)
	if !ok || len(t.ParamTypes) != len(o.ParamTypes) {
		return false
	}
	for i, p := range t.ParamTypes {
		if !p.Equal(o.ParamTypes[i]) {
			return false
		}
	}
	if (t.BlockType == nil) != (o.BlockType == nil) {
		return false
	}
	if t.BlockType != nil && !t.BlockType.Equal(o.BlockType) {
		return false
	}
	return true
}
