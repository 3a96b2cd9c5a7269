package operators

import (
	"fmt"

	"github.com/latticelang/lattice/pkg/diagnostics"
	"github.com/latticelang/lattice/pkg/value"
)

// Add implements "+": numeric addition, string concatenation is NOT
// supported by "+" (that's the "." operator's job, spec §4.7), array
// concatenation, and hash merge.
func Add(left, right value.Value) (value.Value, error) {
	left, right = left.Deref(), right.Deref()
	switch {
	case left.Kind() == value.ArrayKind:
		return value.Arr(concatArrays(left.AsArray(), right.ToArray(true))), nil
	case left.Kind() == value.HashKind && right.Kind() == value.HashKind:
		return value.HashVal(mergeHashes(left.AsHash(), right.AsHash())), nil
	default:
		return numericOp(left, right, "+", func(a, b int64) int64 { return a + b }, func(a, b float64) float64 { return a + b })
	}
}

// Concat implements "." (string/array concatenation); kept distinct from
// Add per spec §4.7's separate operator entries.
func Concat(left, right value.Value) (value.Value, error) {
	left, right = left.Deref(), right.Deref()
	if left.Kind() == value.ArrayKind {
		return value.Arr(concatArrays(left.AsArray(), right.ToArray(true))), nil
	}
	return value.Str(left.Display() + right.Display()), nil
}

// Sub implements "-": numeric subtraction and array difference (removing
// right's elements from left, spec §4.7).
func Sub(left, right value.Value) (value.Value, error) {
	left, right = left.Deref(), right.Deref()
	if left.Kind() == value.ArrayKind {
		return value.Arr(arrayDifference(left.AsArray(), right.ToArray(true))), nil
	}
	return numericOp(left, right, "-", func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b })
}

// Mul implements "*": numeric multiplication only; a non-numeric operand
// on either side (including an array or hash) is a type error.
func Mul(left, right value.Value) (value.Value, error) {
	left, right = left.Deref(), right.Deref()
	return numericOp(left, right, "*", func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b })
}

// Div implements "/": numeric division. Integer/integer division with a
// zero divisor is an evaluation error; float division by zero follows
// IEEE 754 (producing +Inf/-Inf/NaN), matching the teacher's policy of
// surfacing domain errors but not re-deriving IEEE semantics.
func Div(left, right value.Value) (value.Value, error) {
	left, right = left.Deref(), right.Deref()
	if left.Kind() == value.Integer && right.Kind() == value.Integer {
		if right.AsInt() == 0 {
			return value.Value{}, diagnostics.New(diagnostics.KindEvaluation, "division by zero")
		}
		return value.Int(left.AsInt() / right.AsInt()), nil
	}
	return numericOp(left, right, "/", nil, func(a, b float64) float64 { return a / b })
}

// Mod implements "%": integer remainder only (spec §4.7: "% operates on
// Integer operands exclusively").
func Mod(left, right value.Value) (value.Value, error) {
	left, right = left.Deref(), right.Deref()
	if left.Kind() != value.Integer || right.Kind() != value.Integer {
		return value.Value{}, typeErr("%", left, right)
	}
	if right.AsInt() == 0 {
		return value.Value{}, diagnostics.New(diagnostics.KindEvaluation, "modulo by zero")
	}
	return value.Int(left.AsInt() % right.AsInt()), nil
}

// Negate implements unary "-".
func Negate(operand value.Value) (value.Value, error) {
	operand = operand.Deref()
	switch operand.Kind() {
	case value.Integer:
		return value.Int(-operand.AsInt()), nil
	case value.Float:
		return value.Float64(-operand.AsFloat()), nil
	default:
		return value.Value{}, diagnostics.New(diagnostics.KindType,
			fmt.Sprintf("cannot negate a %s value", operand.Kind()))
	}
}

func numericOp(left, right value.Value, op string, intOp func(a, b int64) int64, floatOp func(a, b float64) float64) (value.Value, error) {
	if !isNumeric(left) || !isNumeric(right) {
		return value.Value{}, typeErr(op, left, right)
	}
	if left.Kind() == value.Integer && right.Kind() == value.Integer && intOp != nil {
		return value.Int(intOp(left.AsInt(), right.AsInt())), nil
	}
	return value.Float64(floatOp(asFloat(left), asFloat(right))), nil
}

func isNumeric(v value.Value) bool {
	return v.Kind() == value.Integer || v.Kind() == value.Float
}

func asFloat(v value.Value) float64 {
	if v.Kind() == value.Integer {
		return float64(v.AsInt())
	}
	return v.AsFloat()
}

func typeErr(op string, left, right value.Value) error {
	return diagnostics.New(diagnostics.KindType,
		fmt.Sprintf("operator %q does not apply to %s and %s", op, left.Kind(), right.Kind()))
}

func concatArrays(a *value.Array, b *value.Array) *value.Array {
	out := make([]value.Value, 0, a.Len()+b.Len())
	out = append(out, a.Elements()...)
	out = append(out, b.Elements()...)
	return value.NewArray(out)
}

func arrayDifference(a, b *value.Array) *value.Array {
	var out []value.Value
	for _, e := range a.Elements() {
		excluded := false
		for _, x := range b.Elements() {
			if value.Equal(e, x) {
				excluded = true
				break
			}
		}
		if !excluded {
			out = append(out, e)
		}
	}
	return value.NewArray(out)
}

func mergeHashes(a, b *value.Hash) *value.Hash {
	out := value.NewHash()
	a.Each(func(k, v value.Value) { out.Set(k, v) })
	b.Each(func(k, v value.Value) { out.Set(k, v) })
	return out
}
