package operators

import "github.com/latticelang/lattice/pkg/value"

// Shift implements "<<" and ">>" on Integer operands. A negative shift
// count flips the direction (spec §4.7: "<< by a negative count shifts
// right by its absolute value, and vice versa"), matching the original
// implementation's behavior rather than producing an error or an
// implementation-defined result.
func Shift(op string, left, right value.Value) (value.Value, error) {
	left, right = left.Deref(), right.Deref()
	if left.Kind() == value.ArrayKind && op == "<<" {
		return value.Arr(concatArrays(left.AsArray(), value.NewArray([]value.Value{right}))), nil
	}
	if left.Kind() != value.Integer || right.Kind() != value.Integer {
		return value.Value{}, typeErr(op, left, right)
	}
	n := left.AsInt()
	count := right.AsInt()
	leftShift := op == "<<"
	if count < 0 {
		leftShift = !leftShift
		count = -count
	}
	if count >= 64 {
		return value.Int(0), nil
	}
	if leftShift {
		return value.Int(n << uint(count)), nil
	}
	return value.Int(n >> uint(count)), nil
}
