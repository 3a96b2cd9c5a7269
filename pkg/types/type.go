package types

import "github.com/latticelang/lattice/pkg/value"

// Kind identifies which type alternative a Type implements.
type Kind int

const (
	KindAny Kind = iota
	KindUndef
	KindDefault
	KindBoolean
	KindInteger
	KindFloat
	KindString
	KindRegexp
	KindEnum
	KindPattern
	KindNumeric
	KindScalar
	KindData
	KindCatalogEntry
	KindCollection
	KindArray
	KindHash
	KindTuple
	KindStruct
	KindVariant
	KindNotUndef
	KindCallable
	KindClass
	KindResource
	KindRuntime
	KindType
)

// Type is a structural type in the Lattice DSL's type algebra. Every
// alternative of the tagged union implements it.
type Type interface {
	// Kind returns the alternative this Type implements.
	Kind() Kind

	// String renders the type's canonical stream form, e.g. "Integer[1,10]",
	// eliding unbounded range parameters and default element types.
	String() string

	// IsInstance reports whether v is a member of the type.
	IsInstance(v value.Value) bool

	// IsSpecialization reports whether the receiver is strictly more
	// specific than other (false when the two types are equal).
	IsSpecialization(other Type) bool

	// Equal reports structural equality with another value.TypeRef,
	// satisfying the value.TypeRef interface so a Type can be carried
	// inside a value.Value.
	Equal(other value.TypeRef) bool
}

// asType is a convenience for Equal methods that compare against any
// Type: it reports whether the other TypeRef is a Type at all and
// returns it as one.
func asType(other value.TypeRef) (Type, bool) {
	t, ok := other.(Type)
	return t, ok
}

