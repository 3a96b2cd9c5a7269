package operators

import (
	"fmt"

	"github.com/latticelang/lattice/pkg/diagnostics"
	"github.com/latticelang/lattice/pkg/value"
)

// Compare implements "<", "<=", ">", ">=" between two numeric values or
// two strings (lexicographic, case-sensitive), per spec §4.7. Any other
// operand pairing is a type error.
func Compare(op string, left, right value.Value) (value.Value, error) {
	left, right = left.Deref(), right.Deref()
	var cmp int
	switch {
	case isNumeric(left) && isNumeric(right):
		cmp = compareFloat(asFloat(left), asFloat(right))
	case left.Kind() == value.String && right.Kind() == value.String:
		cmp = compareString(left.AsString(), right.AsString())
	default:
		return value.Value{}, typeErr(op, left, right)
	}
	switch op {
	case "<":
		return value.Bool(cmp < 0), nil
	case "<=":
		return value.Bool(cmp <= 0), nil
	case ">":
		return value.Bool(cmp > 0), nil
	case ">=":
		return value.Bool(cmp >= 0), nil
	default:
		return value.Value{}, diagnostics.New(diagnostics.KindInternal, fmt.Sprintf("unknown relational operator %q", op))
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
