package operators

import "github.com/latticelang/lattice/pkg/value"

// Eq implements "==": structural equality (spec §4.1/§4.7); case-
// insensitive for String-vs-String per the language's historical
// case-folding rule for bareword/string comparison is NOT applied here —
// §4.7 specifies byte-exact string comparison, so this defers entirely
// to value.Equal.
func Eq(left, right value.Value) (value.Value, error) {
	return value.Bool(value.Equal(left, right)), nil
}

// Neq implements "!=".
func Neq(left, right value.Value) (value.Value, error) {
	return value.Bool(!value.Equal(left, right)), nil
}
