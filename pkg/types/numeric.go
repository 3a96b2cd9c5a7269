package types

import (
	"fmt"

	"github.com/latticelang/lattice/pkg/value"
)

// IntegerType is Integer(from,to); a nil bound means unbounded in that
// direction, per §3 ("range parameters default to unbounded").
type IntegerType struct {
	From *int64
	To   *int64
}

// NewIntegerType builds Integer[from,to]; either bound may be nil.
func NewIntegerType(from, to *int64) *IntegerType {
	return &IntegerType{From: from, To: to}
}

func (t *IntegerType) Kind() Kind { return KindInteger }

func (t *IntegerType) String() string {
	if t.From == nil && t.To == nil {
		return "Integer"
	}
	return fmt.Sprintf("Integer[%s,%s]", boundStr(t.From), boundStr(t.To))
}

func boundStr(b *int64) string {
	if b == nil {
		return "default"
	}
	return fmt.Sprintf("%d", *b)
}

func (t *IntegerType) IsInstance(v value.Value) bool {
	v = v.Deref()
	if v.Kind() != value.Integer {
		return false
	}
	n := v.AsInt()
	if t.From != nil && n < *t.From {
		return false
	}
	if t.To != nil && n > *t.To {
		return false
	}
	return true
}

// IsSpecialization implements: Integer[a,b] ⊑ Integer[c,d] iff c≤a ∧ b≤d
// (§4.2), i.e. a tighter range is a specialization of a looser one.
func (t *IntegerType) IsSpecialization(other Type) bool {
	switch o := other.(type) {
	case *simpleType:
		if o.Kind() == KindAny {
			return true
		}
		return specializesAgainstUmbrella(KindInteger, o.Kind())
	case *IntegerType:
		if rangeEqual(t.From, t.To, o.From, o.To) {
			return false
		}
		if (t.From == nil && o.From != nil) || (t.To == nil && o.To != nil) {
			return false
		}
		return rangeLE(o.From, t.From) && rangeLE(t.To, o.To)
	default:
		return false
	}
}

func rangeLE(bound, candidate *int64) bool {
	// bound <= candidate, where nil means -inf for `bound` position and
	// +inf for `candidate` position as appropriate to the caller; here we
	// treat nil on either side as satisfying the inequality. Callers first
	// reject an unbounded receiver side against a bounded one, so a nil
	// reaching here is always an unbounded side of the container.
	if bound == nil {
		return true
	}
	if candidate == nil {
		return true
	}
	return *bound <= *candidate
}

func rangeEqual(f1, t1, f2, t2 *int64) bool {
	return ptrEq(f1, f2) && ptrEq(t1, t2)
}

func ptrEq(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (t *IntegerType) Equal(other value.TypeRef) bool {
	o, ok := other.(*IntegerType)
	return ok && rangeEqual(t.From, t.To, o.From, o.To)
}

// FloatType is Float(from,to), analogous to IntegerType.
type FloatType struct {
	From *float64
	To   *float64
}

func NewFloatType(from, to *float64) *FloatType {
	return &FloatType{From: from, To: to}
}

func (t *FloatType) Kind() Kind { return KindFloat }

func (t *FloatType) String() string {
	if t.From == nil && t.To == nil {
		return "Float"
	}
	return fmt.Sprintf("Float[%s,%s]", floatBoundStr(t.From), floatBoundStr(t.To))
}

func floatBoundStr(b *float64) string {
	if b == nil {
		return "default"
	}
	return fmt.Sprintf("%g", *b)
}

func (t *FloatType) IsInstance(v value.Value) bool {
	v = v.Deref()
	if v.Kind() != value.Float {
		return false
	}
	f := v.AsFloat()
	if t.From != nil && f < *t.From {
		return false
	}
	if t.To != nil && f > *t.To {
		return false
	}
	return true
}

func (t *FloatType) IsSpecialization(other Type) bool {
	switch o := other.(type) {
	case *simpleType:
		if o.Kind() == KindAny {
			return true
		}
		return specializesAgainstUmbrella(KindFloat, o.Kind())
	case *FloatType:
		if floatRangeEqual(t, o) {
			return false
		}
		if (t.From == nil && o.From != nil) || (t.To == nil && o.To != nil) {
			return false
		}
		return floatRangeLE(o.From, t.From) && floatRangeLE(t.To, o.To)
	default:
		return false
	}
}

func floatRangeLE(bound, candidate *float64) bool {
	if bound == nil || candidate == nil {
		return true
	}
	return *bound <= *candidate
}

func floatRangeEqual(a, b *FloatType) bool {
	return floatPtrEq(a.From, b.From) && floatPtrEq(a.To, b.To)
}

func floatPtrEq(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (t *FloatType) Equal(other value.TypeRef) bool {
	o, ok := other.(*FloatType)
	return ok && floatRangeEqual(t, o)
}
