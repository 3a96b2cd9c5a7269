package types

import "github.com/latticelang/lattice/pkg/value"

// simpleType implements the handful of type alternatives that carry no
// parameters and whose instance-of/specialization rules are fixed.
type simpleType struct {
	kind Kind
	name string
	// instance reports membership for this alternative.
	instance func(v value.Value) bool
}

func (t *simpleType) Kind() Kind   { return t.kind }
func (t *simpleType) String() string { return t.name }

func (t *simpleType) IsInstance(v value.Value) bool {
	// Any matches everything regardless of the specific predicate.
	if t.kind == KindAny {
		return true
	}
	return t.instance(v)
}

func (t *simpleType) IsSpecialization(other Type) bool {
	if t.kind == KindAny {
		return false // Any specializes nothing, only Any.
	}
	switch other.Kind() {
	case KindAny:
		return true
	case t.kind:
		return false // equal, not strictly more specific
	}
	return specializesAgainstUmbrella(t.kind, other.Kind())
}

func (t *simpleType) Equal(other value.TypeRef) bool {
	o, ok := asType(other)
	return ok && o.Kind() == t.kind
}

// specializesAgainstUmbrella encodes the fixed membership of the
// "umbrella" types (Scalar, Numeric, Data, Collection, CatalogEntry)
// relative to the simple leaf kinds they contain, per §4.2's Data/Scalar
// definitions. It is intentionally conservative: it only asserts
// specialization where the source spec is explicit, leaving unrelated
// pairs (e.g. Boolean vs. Resource) to report false, which is always a
// safe (if imprecise) answer for a non-full lattice.
func specializesAgainstUmbrella(leaf, umbrella Kind) bool {
	switch umbrella {
	case KindScalar:
		switch leaf {
		case KindNumeric, KindInteger, KindFloat, KindString, KindBoolean, KindRegexp, KindEnum, KindPattern:
			return true
		}
	case KindNumeric:
		switch leaf {
		case KindInteger, KindFloat:
			return true
		}
	case KindData:
		switch leaf {
		case KindNumeric, KindInteger, KindFloat, KindString, KindBoolean, KindRegexp, KindEnum, KindPattern,
			KindUndef, KindArray, KindHash, KindScalar:
			return true
		}
	case KindCollection:
		switch leaf {
		case KindArray, KindHash, KindTuple, KindStruct:
			return true
		}
	case KindCatalogEntry:
		switch leaf {
		case KindResource, KindClass:
			return true
		}
	}
	return false
}

// Any is the universal type: instance of every value, specialization of
// nothing but itself.
func Any() Type {
	return &simpleType{kind: KindAny, name: "Any", instance: func(value.Value) bool { return true }}
}

// UndefT matches only the undef value.
func UndefT() Type {
	return &simpleType{kind: KindUndef, name: "Undef", instance: func(v value.Value) bool {
		return v.Deref().Kind() == value.Undef
	}}
}

// DefaultT matches only the `default` sentinel.
func DefaultT() Type {
	return &simpleType{kind: KindDefault, name: "Default", instance: func(v value.Value) bool {
		return v.Deref().Kind() == value.Default
	}}
}

// BooleanT matches only booleans.
func BooleanT() Type {
	return &simpleType{kind: KindBoolean, name: "Boolean", instance: func(v value.Value) bool {
		return v.Deref().Kind() == value.Boolean
	}}
}

// NumericT matches integers and floats.
func NumericT() Type {
	return &simpleType{kind: KindNumeric, name: "Numeric", instance: func(v value.Value) bool {
		k := v.Deref().Kind()
		return k == value.Integer || k == value.Float
	}}
}

// ScalarT matches Numeric, String, Boolean, or Regexp values (§4.2: Scalar
// = Variant[Numeric, String, Boolean, Regexp]).
func ScalarT() Type {
	return &simpleType{kind: KindScalar, name: "Scalar", instance: func(v value.Value) bool {
		k := v.Deref().Kind()
		return k == value.Integer || k == value.Float || k == value.String ||
			k == value.Boolean || k == value.Regexp
	}}
}

// DataT matches Scalar, Undef, Array[Data], or Hash[String, Data] values
// (§4.2).
func DataT() Type {
	t := &simpleType{kind: KindData, name: "Data"}
	t.instance = func(v value.Value) bool { return dataInstance(v) }
	return t
}

func dataInstance(v value.Value) bool {
	v = v.Deref()
	switch v.Kind() {
	case value.Undef, value.Integer, value.Float, value.String, value.Boolean, value.Regexp:
		return true
	case value.ArrayKind:
		for _, e := range v.AsArray().Elements() {
			if !dataInstance(e) {
				return false
			}
		}
		return true
	case value.HashKind:
		ok := true
		v.AsHash().Each(func(k, val value.Value) {
			if k.Deref().Kind() != value.String || !dataInstance(val) {
				ok = false
			}
		})
		return ok
	default:
		return false
	}
}

// CatalogEntryT matches Resource and Class catalog-entry type values.
func CatalogEntryT() Type {
	return &simpleType{kind: KindCatalogEntry, name: "CatalogEntry", instance: func(v value.Value) bool {
		if v.Deref().Kind() != value.TypeValue {
			return false
		}
		k := v.Deref().AsType()
		t, ok := asType(k)
		return ok && (t.Kind() == KindResource || t.Kind() == KindClass)
	}}
}

// CollectionT matches Array, Hash, Tuple, or Struct values.
func CollectionT() Type {
	return &simpleType{kind: KindCollection, name: "Collection", instance: func(v value.Value) bool {
		k := v.Deref().Kind()
		return k == value.ArrayKind || k == value.HashKind
	}}
}

