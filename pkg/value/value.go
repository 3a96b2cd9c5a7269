package value

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Kind identifies which alternative of the tagged union a Value holds.
type Kind int

const (
	// Undef is the absence of a value.
	Undef Kind = iota
	// Default is the case/selector fall-through sentinel, distinct from Undef.
	Default
	// Boolean holds a bool.
	Boolean
	// Integer holds a 64-bit signed integer.
	Integer
	// Float holds a 64-bit float.
	Float
	// String holds a UTF-8 string.
	String
	// Regexp holds a compiled regular expression.
	Regexp
	// ArrayKind holds an ordered, shared sequence of Values.
	ArrayKind
	// HashKind holds an insertion-ordered mapping of Value to Value.
	HashKind
	// TypeValue holds a type.Type (stored behind an opaque interface to
	// avoid an import cycle with pkg/types; see TypeRef).
	TypeValue
	// VariableValue wraps another Value with a name, kept only during
	// expression evaluation to carry provenance for diagnostics.
	VariableValue
)

func (k Kind) String() string {
	switch k {
	case Undef:
		return "Undef"
	case Default:
		return "Default"
	case Boolean:
		return "Boolean"
	case Integer:
		return "Integer"
	case Float:
		return "Float"
	case String:
		return "String"
	case Regexp:
		return "Regexp"
	case ArrayKind:
		return "Array"
	case HashKind:
		return "Hash"
	case TypeValue:
		return "Type"
	case VariableValue:
		return "Variable"
	default:
		return "Unknown"
	}
}

// TypeRef is the minimal surface a type.Type must satisfy to be carried
// inside a Value without pkg/value importing pkg/types. pkg/types.Type
// implements this interface.
type TypeRef interface {
	String() string
	IsInstance(v Value) bool
	Equal(other TypeRef) bool
}

// Value is a tagged, immutable-once-published runtime value.
type Value struct {
	kind   Kind
	b      bool
	i      int64
	f      float64
	s      string
	re     *Regex
	arr    *Array
	hash   *Hash
	typ    TypeRef
	varRef *Variable
}

// Regex pairs a source pattern with compiled engine state.
type Regex struct {
	Pattern string
	engine  *regexp.Regexp
}

// CompileRegex compiles pattern, returning an error for invalid syntax.
func CompileRegex(pattern string) (*Regex, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regular expression %q: %w", pattern, err)
	}
	return &Regex{Pattern: pattern, engine: re}, nil
}

// MatchString reports whether s matches the regex.
func (r *Regex) MatchString(s string) bool {
	return r.engine.MatchString(s)
}

// FindSubmatch returns the capture groups for the first match, or nil.
func (r *Regex) FindSubmatch(s string) []string {
	m := r.engine.FindStringSubmatch(s)
	return m
}

// Split splits s around every match of the regex, like strings.Split but
// pattern-driven.
func (r *Regex) Split(s string) []string {
	return r.engine.Split(s, -1)
}

// Variable wraps a shared-immutable value reference with a name, used only
// during expression evaluation to keep provenance for diagnostics.
type Variable struct {
	Name string
	Ref  *Value
}

// Array is an ordered, shared-immutable sequence of values.
type Array struct {
	elems []Value
}

// NewArray builds an Array from elems. The caller must not mutate elems
// after this call; ownership transfers to the Array.
func NewArray(elems []Value) *Array {
	return &Array{elems: elems}
}

// Len returns the number of elements.
func (a *Array) Len() int {
	if a == nil {
		return 0
	}
	return len(a.elems)
}

// Elements returns the underlying slice. Callers must treat it as read-only.
func (a *Array) Elements() []Value {
	if a == nil {
		return nil
	}
	return a.elems
}

// At returns the element at index idx, supporting negative indices counted
// from the end, and ok=false when out of range.
func (a *Array) At(idx int) (Value, bool) {
	if a == nil {
		return Value{}, false
	}
	n := len(a.elems)
	if idx < 0 {
		idx += n
	}
	if idx < 0 || idx >= n {
		return Value{}, false
	}
	return a.elems[idx], true
}

// Slice returns a sub-array starting at from with the given length,
// following the DSL's arr[from,len] form. Negative from counts from the
// end; a length extending past the end is clamped.
func (a *Array) Slice(from, length int) *Array {
	n := a.Len()
	if from < 0 {
		from += n
	}
	if from < 0 {
		from = 0
	}
	if from > n {
		return NewArray(nil)
	}
	end := from + length
	if length < 0 || end > n {
		end = n
	}
	if end < from {
		end = from
	}
	out := make([]Value, end-from)
	copy(out, a.elems[from:end])
	return NewArray(out)
}

// hashEntry is one insertion-ordered key/value pair in a Hash.
type hashEntry struct {
	key Value
	val Value
}

// Hash is an insertion-ordered mapping from Value to Value, keyed by
// structural equality.
type Hash struct {
	entries []hashEntry
	index   map[string]int
}

// NewHash creates an empty, mutable-until-published Hash.
func NewHash() *Hash {
	return &Hash{index: make(map[string]int)}
}

// Set inserts or overwrites the value for key, preserving original
// insertion order for an overwrite.
func (h *Hash) Set(key, val Value) {
	k := displayKey(key)
	if i, ok := h.index[k]; ok {
		h.entries[i].val = val
		return
	}
	h.index[k] = len(h.entries)
	h.entries = append(h.entries, hashEntry{key: key, val: val})
}

// Get looks up key, returning the value and whether it was present.
func (h *Hash) Get(key Value) (Value, bool) {
	if h == nil {
		return Value{}, false
	}
	i, ok := h.index[displayKey(key)]
	if !ok {
		return Value{}, false
	}
	return h.entries[i].val, true
}

// Len returns the number of entries.
func (h *Hash) Len() int {
	if h == nil {
		return 0
	}
	return len(h.entries)
}

// Keys returns the keys in insertion order.
func (h *Hash) Keys() []Value {
	if h == nil {
		return nil
	}
	keys := make([]Value, len(h.entries))
	for i, e := range h.entries {
		keys[i] = e.key
	}
	return keys
}

// Each calls fn for every entry in insertion order.
func (h *Hash) Each(fn func(key, val Value)) {
	if h == nil {
		return
	}
	for _, e := range h.entries {
		fn(e.key, e.val)
	}
}

// displayKey produces a stable string key for hash indexing. It relies on
// Display() being deterministic for every Value alternative (§4.1).
func displayKey(v Value) string {
	return v.kindTag() + ":" + v.Display()
}

func (v Value) kindTag() string {
	return v.kind.String()
}

// Constructors.

// Undefined returns the undef value.
func Undefined() Value { return Value{kind: Undef} }

// DefaultValue returns the `default` sentinel.
func DefaultValue() Value { return Value{kind: Default} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: Boolean, b: b} }

// Int wraps a 64-bit integer.
func Int(i int64) Value { return Value{kind: Integer, i: i} }

// Float64 wraps a 64-bit float.
func Float64(f float64) Value { return Value{kind: Float, f: f} }

// Str wraps a string.
func Str(s string) Value { return Value{kind: String, s: s} }

// Rx wraps a compiled regex.
func Rx(r *Regex) Value { return Value{kind: Regexp, re: r} }

// Arr wraps an *Array.
func Arr(a *Array) Value { return Value{kind: ArrayKind, arr: a} }

// HashVal wraps a *Hash.
func HashVal(h *Hash) Value { return Value{kind: HashKind, hash: h} }

// TypeVal wraps a TypeRef.
func TypeVal(t TypeRef) Value { return Value{kind: TypeValue, typ: t} }

// Var wraps a Variable.
func Var(v *Variable) Value { return Value{kind: VariableValue, varRef: v} }

// Accessors. Each returns its field as stored; called on the wrong Kind it
// returns that field's zero value rather than panicking, so callers check
// Kind() first, matching the tree-walker's type-switch discipline.

func (v Value) Kind() Kind { return v.kind }

func (v Value) AsBool() bool { return v.b }

func (v Value) AsInt() int64 { return v.i }

func (v Value) AsFloat() float64 { return v.f }

func (v Value) AsString() string { return v.s }

func (v Value) AsRegex() *Regex { return v.re }

func (v Value) AsArray() *Array { return v.arr }

func (v Value) AsHash() *Hash { return v.hash }

func (v Value) AsType() TypeRef { return v.typ }

func (v Value) AsVariable() *Variable { return v.varRef }

// Deref resolves a VariableValue to the value it refers to; any other kind
// returns itself unchanged.
func (v Value) Deref() Value {
	if v.kind == VariableValue && v.varRef != nil && v.varRef.Ref != nil {
		return *v.varRef.Ref
	}
	return v
}

// Truthy implements §4.1: undef and false are falsy, everything else
// (including 0 and empty collections) is truthy.
func (v Value) Truthy() bool {
	v = v.Deref()
	switch v.kind {
	case Undef:
		return false
	case Boolean:
		return v.b
	default:
		return true
	}
}

// ToArray implements §4.1's to_array(wrap_single): arrays pass through,
// everything else becomes a single-element array. wrapUndefEmpty controls
// how Undef is converted: true yields [], false yields [undef].
func (v Value) ToArray(wrapUndefEmpty bool) *Array {
	v = v.Deref()
	if v.kind == ArrayKind {
		return v.arr
	}
	if v.kind == Undef && wrapUndefEmpty {
		return NewArray(nil)
	}
	return NewArray([]Value{v})
}

// Equal implements structural equality: numeric equality between integer
// and float widens to float64; string equality is byte-exact.
func Equal(a, b Value) bool {
	a, b = a.Deref(), b.Deref()
	if isNumeric(a.kind) && isNumeric(b.kind) {
		return exactNumericEqual(a, b)
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Undef, Default:
		return true
	case Boolean:
		return a.b == b.b
	case String:
		return a.s == b.s
	case Regexp:
		return a.re != nil && b.re != nil && a.re.Pattern == b.re.Pattern
	case ArrayKind:
		return arrayEqual(a.arr, b.arr)
	case HashKind:
		return hashEqual(a.hash, b.hash)
	case TypeValue:
		return a.typ != nil && b.typ != nil && a.typ.Equal(b.typ)
	default:
		return false
	}
}

func isNumeric(k Kind) bool { return k == Integer || k == Float }

// exactNumericEqual compares integer/integer and float/float exactly, and
// integer/float after widening the integer to float64, per §4.1.
func exactNumericEqual(a, b Value) bool {
	switch {
	case a.kind == Integer && b.kind == Integer:
		return a.i == b.i
	case a.kind == Float && b.kind == Float:
		return a.f == b.f
	case a.kind == Integer && b.kind == Float:
		return float64(a.i) == b.f
	case a.kind == Float && b.kind == Integer:
		return a.f == float64(b.i)
	default:
		return false
	}
}

func arrayEqual(a, b *Array) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i, ev := range a.Elements() {
		if !Equal(ev, b.Elements()[i]) {
			return false
		}
	}
	return true
}

func hashEqual(a, b *Hash) bool {
	if a.Len() != b.Len() {
		return false
	}
	match := true
	a.Each(func(k, v Value) {
		if bv, ok := b.Get(k); !ok || !Equal(v, bv) {
			match = false
		}
	})
	return match
}

// Display renders a deterministic, stable string form of v, used for
// String instance-of checks against Enum/Pattern types and as the basis
// of hash-key comparison.
func (v Value) Display() string {
	v = v.Deref()
	switch v.kind {
	case Undef:
		return ""
	case Default:
		return "default"
	case Boolean:
		if v.b {
			return "true"
		}
		return "false"
	case Integer:
		return fmt.Sprintf("%d", v.i)
	case Float:
		return fmt.Sprintf("%g", v.f)
	case String:
		return v.s
	case Regexp:
		if v.re == nil {
			return "//"
		}
		return "/" + v.re.Pattern + "/"
	case ArrayKind:
		parts := make([]string, v.arr.Len())
		for i, e := range v.arr.Elements() {
			parts[i] = e.Display()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case HashKind:
		keys := v.hash.Keys()
		sorted := make([]string, len(keys))
		for i, k := range keys {
			val, _ := v.hash.Get(k)
			sorted[i] = k.Display() + " => " + val.Display()
		}
		sort.Strings(sorted)
		return "{" + strings.Join(sorted, ", ") + "}"
	case TypeValue:
		if v.typ == nil {
			return "Any"
		}
		return v.typ.String()
	case VariableValue:
		if v.varRef == nil {
			return ""
		}
		return v.varRef.Name
	default:
		return ""
	}
}

// Enumerate yields the value's grapheme/element sequence per §4.1 and
// §4.8: strings iterate as one-grapheme strings, integers as the range
// [0, n), arrays and hashes as themselves. It calls fn(index, key, val)
// where key is Undef for array/string/integer enumeration.
func (v Value) Enumerate(fn func(index int, key Value, val Value) bool) {
	v = v.Deref()
	switch v.kind {
	case String:
		for i, g := range Graphemes(v.s) {
			if !fn(i, Undefined(), Str(g)) {
				return
			}
		}
	case Integer:
		for i := int64(0); i < v.i; i++ {
			if !fn(int(i), Undefined(), Int(i)) {
				return
			}
		}
	case ArrayKind:
		for i, e := range v.arr.Elements() {
			if !fn(i, Undefined(), e) {
				return
			}
		}
	case HashKind:
		i := 0
		v.hash.Each(func(k, val Value) {
			fn(i, k, val)
			i++
		})
	}
}

// Graphemes splits s into a sequence of Unicode extended grapheme
// clusters, each re-encoded as UTF-8. This package takes a conservative
// approximation: it groups a base rune with any immediately following
// combining marks, which covers the overwhelming majority of
// configuration-language string content without pulling in a full
// Unicode text-segmentation table.
func Graphemes(s string) []string {
	runes := []rune(s)
	var out []string
	i := 0
	for i < len(runes) {
		j := i + 1
		for j < len(runes) && isCombining(runes[j]) {
			j++
		}
		out = append(out, string(runes[i:j]))
		i = j
	}
	return out
}

func isCombining(r rune) bool {
	return (r >= 0x0300 && r <= 0x036F) || // combining diacritical marks
		(r >= 0x1AB0 && r <= 0x1AFF) ||
		(r >= 0x1DC0 && r <= 0x1DFF) ||
		(r >= 0x20D0 && r <= 0x20FF) ||
		(r >= 0xFE20 && r <= 0xFE2F)
}
