package operators

import "github.com/latticelang/lattice/pkg/value"

// Not implements unary "!".
func Not(operand value.Value) value.Value {
	return value.Bool(!operand.Truthy())
}

// And implements "and" given both operands already evaluated. The
// evaluator is responsible for short-circuiting so the right operand is
// never evaluated when the left is falsy (spec §4.7); this function
// exists for contexts that already hold both values (e.g. a builtin
// function composing a boolean from two computed arguments).
func And(left, right value.Value) value.Value {
	return value.Bool(left.Truthy() && right.Truthy())
}

// Or implements "or", mirroring And's short-circuit caveat.
func Or(left, right value.Value) value.Value {
	return value.Bool(left.Truthy() || right.Truthy())
}
