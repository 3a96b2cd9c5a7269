package types

import (
	"fmt"
	"strings"

	"github.com/latticelang/lattice/pkg/value"
)

// StringType is String(min_len,max_len). Omitted length defaults to
// [0, unbounded), per §3. Length is measured in bytes unless otherwise
// specified (§9 open question, resolved in DESIGN.md).
type StringType struct {
	Min int
	Max int // -1 means unbounded
}

func NewStringType(min, max int) *StringType {
	return &StringType{Min: min, Max: max}
}

func (t *StringType) Kind() Kind { return KindString }

func (t *StringType) String() string {
	if t.Min == 0 && t.Max == -1 {
		return "String"
	}
	if t.Max == -1 {
		return fmt.Sprintf("String[%d]", t.Min)
	}
	return fmt.Sprintf("String[%d,%d]", t.Min, t.Max)
}

func (t *StringType) IsInstance(v value.Value) bool {
	v = v.Deref()
	if v.Kind() != value.String {
		return false
	}
	n := len(v.AsString())
	if n < t.Min {
		return false
	}
	if t.Max >= 0 && n > t.Max {
		return false
	}
	return true
}

func (t *StringType) IsSpecialization(other Type) bool {
	switch o := other.(type) {
	case *simpleType:
		if o.Kind() == KindAny {
			return true
		}
		return specializesAgainstUmbrella(KindString, o.Kind())
	case *StringType:
		if t.Min == o.Min && t.Max == o.Max {
			return false
		}
		loLE := o.Min <= t.Min
		hiLE := o.Max < 0 || (t.Max >= 0 && t.Max <= o.Max)
		return loLE && hiLE
	case *EnumType, *PatternType:
		return false
	default:
		return false
	}
}

func (t *StringType) Equal(other value.TypeRef) bool {
	o, ok := other.(*StringType)
	return ok && t.Min == o.Min && t.Max == o.Max
}

// RegexpType is Regexp(pattern?); an empty pattern matches any Regexp
// value.
type RegexpType struct {
	Pattern string
	HasPattern bool
}

func NewRegexpType(pattern string, has bool) *RegexpType {
	return &RegexpType{Pattern: pattern, HasPattern: has}
}

func (t *RegexpType) Kind() Kind { return KindRegexp }

func (t *RegexpType) String() string {
	if !t.HasPattern {
		return "Regexp"
	}
	return fmt.Sprintf("Regexp[/%s/]", t.Pattern)
}

func (t *RegexpType) IsInstance(v value.Value) bool {
	v = v.Deref()
	if v.Kind() != value.Regexp {
		return false
	}
	if !t.HasPattern {
		return true
	}
	re := v.AsRegex()
	return re != nil && re.Pattern == t.Pattern
}

func (t *RegexpType) IsSpecialization(other Type) bool {
	switch o := other.(type) {
	case *simpleType:
		if o.Kind() == KindAny {
			return true
		}
		return specializesAgainstUmbrella(KindRegexp, o.Kind())
	case *RegexpType:
		return t.HasPattern && !o.HasPattern
	default:
		return false
	}
}

func (t *RegexpType) Equal(other value.TypeRef) bool {
	o, ok := other.(*RegexpType)
	return ok && t.HasPattern == o.HasPattern && (!t.HasPattern || t.Pattern == o.Pattern)
}

// EnumType is Enum(members): a fixed set of string literals.
type EnumType struct {
	Members []string
}

func NewEnumType(members []string) *EnumType {
	return &EnumType{Members: members}
}

func (t *EnumType) Kind() Kind { return KindEnum }

func (t *EnumType) String() string {
	quoted := make([]string, len(t.Members))
	for i, m := range t.Members {
		quoted[i] = "'" + m + "'"
	}
	return "Enum[" + strings.Join(quoted, ", ") + "]"
}

func (t *EnumType) IsInstance(v value.Value) bool {
	v = v.Deref()
	if v.Kind() != value.String {
		return false
	}
	s := v.AsString()
	for _, m := range t.Members {
		if m == s {
			return true
		}
	}
	return false
}

func (t *EnumType) IsSpecialization(other Type) bool {
	switch o := other.(type) {
	case *simpleType:
		if o.Kind() == KindAny {
			return true
		}
		return specializesAgainstUmbrella(KindEnum, o.Kind())
	case *StringType:
		return true // any fixed member set is at least as specific as an unbounded String
	case *EnumType:
		if sameStringSet(t.Members, o.Members) {
			return false
		}
		return isSubsetOf(t.Members, o.Members)
	default:
		return false
	}
}

func sameStringSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	return isSubsetOf(a, b) && isSubsetOf(b, a)
}

func isSubsetOf(a, b []string) bool {
	set := make(map[string]bool, len(b))
	for _, m := range b {
		set[m] = true
	}
	for _, m := range a {
		if !set[m] {
			return false
		}
	}
	return true
}

func (t *EnumType) Equal(other value.TypeRef) bool {
	o, ok := other.(*EnumType)
	return ok && sameStringSet(t.Members, o.Members)
}

// PatternType is Pattern(regexes): a string matches if any regex matches.
type PatternType struct {
	Patterns []string
	compiled []*value.Regex
}

func NewPatternType(patterns []string) (*PatternType, error) {
	compiled := make([]*value.Regex, len(patterns))
	for i, p := range patterns {
		re, err := value.CompileRegex(p)
		if err != nil {
			return nil, err
		}
		compiled[i] = re
	}
	return &PatternType{Patterns: patterns, compiled: compiled}, nil
}

func (t *PatternType) Kind() Kind { return KindPattern }

func (t *PatternType) String() string {
	parts := make([]string, len(t.Patterns))
	for i, p := range t.Patterns {
		parts[i] = "/" + p + "/"
	}
	return "Pattern[" + strings.Join(parts, ", ") + "]"
}

func (t *PatternType) IsInstance(v value.Value) bool {
	v = v.Deref()
	if v.Kind() != value.String {
		return false
	}
	s := v.AsString()
	for _, re := range t.compiled {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

func (t *PatternType) IsSpecialization(other Type) bool {
	switch o := other.(type) {
	case *simpleType:
		if o.Kind() == KindAny {
			return true
		}
		return specializesAgainstUmbrella(KindPattern, o.Kind())
	case *StringType:
		return true
	default:
		return false
	}
}

func (t *PatternType) Equal(other value.TypeRef) bool {
	o, ok := other.(*PatternType)
	if !ok || len(t.Patterns) != len(o.Patterns) {
		return false
	}
	for i, p := range t.Patterns {
		if p != o.Patterns[i] {
			return false
		}
	}
	return true
}
