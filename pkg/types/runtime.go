package types

import (
	"fmt"

	"github.com/latticelang/lattice/pkg/value"
)

// RuntimeType is Runtime(object?): an opaque escape hatch for host-language
// values that don't otherwise fit the structural algebra (e.g. values
// handed back by a WASM or Starlark function resolver). object identifies
// the host representation by name; an empty object matches any Runtime
// value.
type RuntimeType struct {
	Object string
}

func NewRuntimeType(object string) *RuntimeType {
	return &RuntimeType{Object: object}
}

func (t *RuntimeType) Kind() Kind { return KindRuntime }

func (t *RuntimeType) String() string {
	if t.Object == "" {
		return "Runtime"
	}
	return fmt.Sprintf("Runtime['%s']", t.Object)
}

// IsInstance always reports false against the generic Value union: a
// Runtime value, if ever represented, would need its own value.Kind; the
// evaluation core only ever constructs Runtime *type* values (e.g. as
// function parameter annotations), never Runtime *instances*.
func (t *RuntimeType) IsInstance(v value.Value) bool {
	return false
}

func (t *RuntimeType) IsSpecialization(other Type) bool {
	if o, ok := other.(*simpleType); ok && o.Kind() == KindAny {
		return true
	}
	o, ok := other.(*RuntimeType)
	if !ok || t.Equal(o) {
		return false
	}
	return o.Object == "" && t.Object != ""
}

func (t *RuntimeType) Equal(other value.TypeRef) bool {
	o, ok := other.(*RuntimeType)
	return ok && t.Object == o.Object
}

// TypeOfType is Type(parameter?): the type of a type value, e.g. the type
// of the expression `Integer` itself is `Type[Integer]`.
type TypeOfType struct {
	Parameter Type // nil means the bare `Type`
}

func NewTypeOfType(parameter Type) *TypeOfType {
	return &TypeOfType{Parameter: parameter}
}

func (t *TypeOfType) Kind() Kind { return KindType }

func (t *TypeOfType) String() string {
	if t.Parameter == nil {
		return "Type"
	}
	return fmt.Sprintf("Type[%s]", t.Parameter.String())
}

func (t *TypeOfType) IsInstance(v value.Value) bool {
	v = v.Deref()
	if v.Kind() != value.TypeValue {
		return false
	}
	if t.Parameter == nil {
		return true
	}
	inner, ok := v.AsType().(Type)
	if !ok {
		return false
	}
	return inner.Equal(t.Parameter) || inner.IsSpecialization(t.Parameter)
}

func (t *TypeOfType) IsSpecialization(other Type) bool {
	if o, ok := other.(*simpleType); ok && o.Kind() == KindAny {
		return true
	}
	o, ok := other.(*TypeOfType)
	if !ok || t.Equal(o) {
		return false
	}
	if o.Parameter == nil {
		return t.Parameter != nil
	}
	if t.Parameter == nil {
		return false
	}
	return t.Parameter.Equal(o.Parameter) || t.Parameter.IsSpecialization(o.Parameter)
}

func (t *TypeOfType) Equal(other value.TypeRef) bool {
	o, ok := other.(*TypeOfType)
	if !ok {
		return false
	}
	if t.Parameter == nil || o.Parameter == nil {
		return t.Parameter == nil && o.Parameter == nil
	}
	return t.Parameter.Equal(o.Parameter)
}
