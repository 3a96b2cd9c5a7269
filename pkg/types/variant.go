package types

import (
	"strings"

	"github.com/latticelang/lattice/pkg/value"
)

// VariantType is Variant(alternatives): matches iff any alternative
// matches. Specialization is a per-alternative join, not a full lattice
// computation (§4.2, conservative by design).
type VariantType struct {
	Alternatives []Type
}

func NewVariantType(alts []Type) *VariantType {
	return &VariantType{Alternatives: alts}
}

func (t *VariantType) Kind() Kind { return KindVariant }

func (t *VariantType) String() string {
	parts := make([]string, len(t.Alternatives))
	for i, a := range t.Alternatives {
		parts[i] = a.String()
	}
	return "Variant[" + strings.Join(parts, ", ") + "]"
}

func (t *VariantType) IsInstance(v value.Value) bool {
	for _, a := range t.Alternatives {
		if a.IsInstance(v) {
			return true
		}
	}
	return false
}

// IsSpecialization reports true when every alternative of the receiver is
// a specialization of (or equal to) at least one alternative of other, or
// when other is a single type that every alternative specializes.
func (t *VariantType) IsSpecialization(other Type) bool {
	if o, ok := other.(*simpleType); ok && o.Kind() == KindAny {
		return true
	}
	if t.Equal(other) {
		return false
	}
	if ov, ok := other.(*VariantType); ok {
		for _, a := range t.Alternatives {
			if !matchesAnyAlternative(a, ov.Alternatives) {
				return false
			}
		}
		return true
	}
	for _, a := range t.Alternatives {
		if !(a.Equal(other) || a.IsSpecialization(other)) {
			return false
		}
	}
	return true
}

func matchesAnyAlternative(a Type, alts []Type) bool {
	for _, o := range alts {
		if a.Equal(o) || a.IsSpecialization(o) {
			return true
		}
	}
	return false
}

func (t *VariantType) Equal(other value.TypeRef) bool {
	o, ok := other.(*VariantType)
	if !ok || len(t.Alternatives) != len(o.Alternatives) {
		return false
	}
	for _, a := range t.Alternatives {
		if !matchesAnyAlternative(a, o.Alternatives) {
			return false
		}
	}
	return true
}

// Optional builds Variant[T, Undef], per §4.2's definition of Optional[T].
func Optional(inner Type) Type {
	return &VariantType{Alternatives: []Type{inner, UndefT()}}
}

// NotUndefType is NotUndef(inner): matches any value that is not undef and
// is an instance of inner.
type NotUndefType struct {
	Inner Type
}

func NewNotUndefType(inner Type) *NotUndefType {
	if inner == nil {
		inner = Any()
	}
	return &NotUndefType{Inner: inner}
}

func (t *NotUndefType) Kind() Kind { return KindNotUndef }

func (t *NotUndefType) String() string {
	if isAnyType(t.Inner) {
		return "NotUndef"
	}
	return "NotUndef[" + t.Inner.String() + "]"
}

func isAnyType(t Type) bool {
	s, ok := t.(*simpleType)
	return ok && s.Kind() == KindAny
}

func (t *NotUndefType) IsInstance(v value.Value) bool {
	if v.Deref().Kind() == value.Undef {
		return false
	}
	return t.Inner.IsInstance(v)
}

func (t *NotUndefType) IsSpecialization(other Type) bool {
	if o, ok := other.(*simpleType); ok && o.Kind() == KindAny {
		return true
	}
	if o, ok := other.(*NotUndefType); ok {
		if t.Equal(o) {
			return false
		}
		return t.Inner.Equal(o.Inner) || t.Inner.IsSpecialization(o.Inner)
	}
	return t.Inner.Equal(other) || t.Inner.IsSpecialization(other)
}

func (t *NotUndefType) Equal(other value.TypeRef) bool {
	o, ok := other.(*NotUndefType)
	return ok && t.Inner.Equal(o.Inner)
}
