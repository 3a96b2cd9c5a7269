package types

import (
	"fmt"
	"strings"

	"github.com/latticelang/lattice/pkg/value"
)

// ArrayType is Array(element_type, from, to). A nil Element defaults to
// Data, matching the spec's "Array[Data]" default and the elision rule in
// the stream form.
type ArrayType struct {
	Element Type
	From    int
	To      int // -1 means unbounded
}

func NewArrayType(element Type, from, to int) *ArrayType {
	if element == nil {
		element = DataT()
	}
	return &ArrayType{Element: element, From: from, To: to}
}

func (t *ArrayType) Kind() Kind { return KindArray }

func (t *ArrayType) String() string {
	elideElement := isDataType(t.Element)
	elideRange := t.From == 0 && t.To == -1
	if elideElement && elideRange {
		return "Array"
	}
	if elideRange {
		return fmt.Sprintf("Array[%s]", t.Element.String())
	}
	rng := rangeStr(t.From, t.To)
	if elideElement {
		return fmt.Sprintf("Array[%s]", rng)
	}
	return fmt.Sprintf("Array[%s, %s]", t.Element.String(), rng)
}

func rangeStr(from, to int) string {
	if to == -1 {
		return fmt.Sprintf("%d", from)
	}
	return fmt.Sprintf("%d, %d", from, to)
}

func isDataType(t Type) bool {
	_, ok := t.(*simpleType)
	return ok && t.Kind() == KindData
}

func (t *ArrayType) IsInstance(v value.Value) bool {
	v = v.Deref()
	if v.Kind() != value.ArrayKind {
		return false
	}
	arr := v.AsArray()
	n := arr.Len()
	if n < t.From {
		return false
	}
	if t.To >= 0 && n > t.To {
		return false
	}
	for _, e := range arr.Elements() {
		if !t.Element.IsInstance(e) {
			return false
		}
	}
	return true
}

func (t *ArrayType) IsSpecialization(other Type) bool {
	switch o := other.(type) {
	case *simpleType:
		if o.Kind() == KindAny {
			return true
		}
		return specializesAgainstUmbrella(KindArray, o.Kind())
	case *ArrayType:
		if t.Equal(o) {
			return false
		}
		rangeOK := o.From <= t.From && (o.To < 0 || (t.To >= 0 && t.To <= o.To))
		elemOK := t.Element.Equal(o.Element) || t.Element.IsSpecialization(o.Element)
		return rangeOK && elemOK
	default:
		return false
	}
}

func (t *ArrayType) Equal(other value.TypeRef) bool {
	o, ok := other.(*ArrayType)
	return ok && t.From == o.From && t.To == o.To && t.Element.Equal(o.Element)
}

// HashType is Hash(key_type, value_type, from, to).
type HashType struct {
	KeyType   Type
	ValueType Type
	From      int
	To        int
}

func NewHashType(key, val Type, from, to int) *HashType {
	if key == nil {
		key = ScalarT()
	}
	if val == nil {
		val = DataT()
	}
	return &HashType{KeyType: key, ValueType: val, From: from, To: to}
}

func (t *HashType) Kind() Kind { return KindHash }

func (t *HashType) String() string {
	elideRange := t.From == 0 && t.To == -1
	keyVal := fmt.Sprintf("%s, %s", t.KeyType.String(), t.ValueType.String())
	if elideRange {
		return fmt.Sprintf("Hash[%s]", keyVal)
	}
	return fmt.Sprintf("Hash[%s, %s]", keyVal, rangeStr(t.From, t.To))
}

func (t *HashType) IsInstance(v value.Value) bool {
	v = v.Deref()
	if v.Kind() != value.HashKind {
		return false
	}
	h := v.AsHash()
	n := h.Len()
	if n < t.From {
		return false
	}
	if t.To >= 0 && n > t.To {
		return false
	}
	ok := true
	h.Each(func(k, val value.Value) {
		if !t.KeyType.IsInstance(k) || !t.ValueType.IsInstance(val) {
			ok = false
		}
	})
	return ok
}

func (t *HashType) IsSpecialization(other Type) bool {
	switch o := other.(type) {
	case *simpleType:
		if o.Kind() == KindAny {
			return true
		}
		return specializesAgainstUmbrella(KindHash, o.Kind())
	case *HashType:
		if t.Equal(o) {
			return false
		}
		rangeOK := o.From <= t.From && (o.To < 0 || (t.To >= 0 && t.To <= o.To))
		keyOK := t.KeyType.Equal(o.KeyType) || t.KeyType.IsSpecialization(o.KeyType)
		valOK := t.ValueType.Equal(o.ValueType) || t.ValueType.IsSpecialization(o.ValueType)
		return rangeOK && keyOK && valOK
	default:
		return false
	}
}

func (t *HashType) Equal(other value.TypeRef) bool {
	o, ok := other.(*HashType)
	return ok && t.From == o.From && t.To == o.To &&
		t.KeyType.Equal(o.KeyType) && t.ValueType.Equal(o.ValueType)
}

// TupleType is Tuple(types, from, to): matches positionally, checking
// trailing elements beyond len(Types) against the last type up to To.
type TupleType struct {
	Types []Type
	From  int
	To    int // -1 means len(Types); a To > len(Types) repeats the last type
}

func NewTupleType(types []Type, from, to int) *TupleType {
	return &TupleType{Types: types, From: from, To: to}
}

func (t *TupleType) Kind() Kind { return KindTuple }

func (t *TupleType) String() string {
	parts := make([]string, len(t.Types))
	for i, e := range t.Types {
		parts[i] = e.String()
	}
	body := strings.Join(parts, ", ")
	if t.From == len(t.Types) && (t.To == -1 || t.To == len(t.Types)) {
		return fmt.Sprintf("Tuple[%s]", body)
	}
	return fmt.Sprintf("Tuple[%s, %s]", body, rangeStr(t.From, t.To))
}

func (t *TupleType) IsInstance(v value.Value) bool {
	v = v.Deref()
	if v.Kind() != value.ArrayKind {
		return false
	}
	arr := v.AsArray()
	n := arr.Len()
	if n < t.From {
		return false
	}
	to := t.To
	if to < 0 {
		to = len(t.Types)
	}
	if n > to {
		return false
	}
	for i := 0; i < n; i++ {
		elemType := t.typeAt(i)
		if elemType == nil {
			return false
		}
		e, _ := arr.At(i)
		if !elemType.IsInstance(e) {
			return false
		}
	}
	return true
}

// typeAt returns the type expected at position i, repeating the last
// declared type for indices beyond len(Types) (the "trailing elements"
// rule of §4.2).
func (t *TupleType) typeAt(i int) Type {
	if len(t.Types) == 0 {
		return nil
	}
	if i < len(t.Types) {
		return t.Types[i]
	}
	return t.Types[len(t.Types)-1]
}

func (t *TupleType) IsSpecialization(other Type) bool {
	switch o := other.(type) {
	case *simpleType:
		if o.Kind() == KindAny {
			return true
		}
		return specializesAgainstUmbrella(KindTuple, o.Kind())
	case *TupleType:
		if t.Equal(o) {
			return false
		}
		if len(t.Types) != len(o.Types) {
			return false
		}
		for i, et := range t.Types {
			if !(et.Equal(o.Types[i]) || et.IsSpecialization(o.Types[i])) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func (t *TupleType) Equal(other value.TypeRef) bool {
	o, ok := other.(*TupleType)
	if !ok || len(t.Types) != len(o.Types) || t.From != o.From || t.To != o.To {
		return false
	}
	for i, et := range t.Types {
		if !et.Equal(o.Types[i]) {
			return false
		}
	}
	return true
}

// StructField is one named, possibly optional field of a Struct type.
type StructField struct {
	Name     string
	Type     Type
	Optional bool
}

// StructType is Struct(fields): an ordered set of named fields, each with
// its own Type.
type StructType struct {
	Fields []StructField
}

func NewStructType(fields []StructField) *StructType {
	return &StructType{Fields: fields}
}

func (t *StructType) Kind() Kind { return KindStruct }

func (t *StructType) String() string {
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		parts[i] = fmt.Sprintf("'%s' => %s", f.Name, f.Type.String())
	}
	return "Struct[{" + strings.Join(parts, ", ") + "}]"
}

func (t *StructType) IsInstance(v value.Value) bool {
	v = v.Deref()
	if v.Kind() != value.HashKind {
		return false
	}
	h := v.AsHash()
	seen := make(map[string]bool, len(t.Fields))
	for _, f := range t.Fields {
		seen[f.Name] = true
		val, ok := h.Get(value.Str(f.Name))
		if !ok {
			if !f.Optional {
				return false
			}
			continue
		}
		if !f.Type.IsInstance(val) {
			return false
		}
	}
	extra := false
	h.Each(func(k, _ value.Value) {
		if k.Deref().Kind() == value.String && !seen[k.AsString()] {
			extra = true
		}
	})
	return !extra
}

func (t *StructType) IsSpecialization(other Type) bool {
	switch o := other.(type) {
	case *simpleType:
		if o.Kind() == KindAny {
			return true
		}
		return specializesAgainstUmbrella(KindStruct, o.Kind())
	case *StructType:
		if t.Equal(o) {
			return false
		}
		index := make(map[string]StructField, len(o.Fields))
		for _, f := range o.Fields {
			index[f.Name] = f
		}
		for _, f := range t.Fields {
			of, ok := index[f.Name]
			if !ok {
				return false
			}
			if !(f.Type.Equal(of.Type) || f.Type.IsSpecialization(of.Type)) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func (t *StructType) Equal(other value.TypeRef) bool {
	o, ok := other.(*StructType)
	if !ok || len(t.Fields) != len(o.Fields) {
		return false
	}
	for i, f := range t.Fields {
		of := o.Fields[i]
		if f.Name != of.Name || f.Optional != of.Optional || !f.Type.Equal(of.Type) {
			return false
		}
	}
	return true
}
