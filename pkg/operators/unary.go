package operators

import "github.com/latticelang/lattice/pkg/value"

// Splat implements unary "*", which flattens its operand into an array
// for use as a function's "splat" argument list (spec §4.5, §4.7):
// arrays pass through unchanged, everything else becomes a
// single-element array, matching Value.ToArray(true).
func Splat(operand value.Value) value.Value {
	return value.Arr(operand.ToArray(true))
}
