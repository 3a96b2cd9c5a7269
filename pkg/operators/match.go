package operators

import (
	"fmt"

	"github.com/latticelang/lattice/pkg/diagnostics"
	"github.com/latticelang/lattice/pkg/scope"
	"github.com/latticelang/lattice/pkg/value"
)

// Match implements "=~" and "!~": the left operand (must be String) is
// tested against the right operand, which is either a Regexp value or a
// String compiled as a regex; any other right operand is a type error.
// On a successful match,
// captures are pushed onto ms as a new match-scope frame (spec §4.3,
// §4.7); the caller is responsible for popping it via the returned
// *scope.Guard when the enclosing statement's match scope ends.
func Match(op string, left, right value.Value, ms *scope.MatchStack) (value.Value, *scope.Guard, error) {
	left, right = left.Deref(), right.Deref()
	if left.Kind() != value.String {
		return value.Value{}, nil, diagnostics.New(diagnostics.KindType,
			fmt.Sprintf("operator %q requires a String left operand, got %s", op, left.Kind()))
	}

	re, err := regexOperand(right)
	if err != nil {
		return value.Value{}, nil, err
	}

	captures := re.FindSubmatch(left.AsString())
	matched := captures != nil

	result := matched
	if op == "!~" {
		result = !matched
	}

	var guard *scope.Guard
	if matched {
		vals := make([]value.Value, len(captures))
		for i, c := range captures {
			vals[i] = value.Str(c)
		}
		guard = ms.PushGuard(vals)
	}
	return value.Bool(result), guard, nil
}

func regexOperand(v value.Value) (*value.Regex, error) {
	switch v.Kind() {
	case value.Regexp:
		return v.AsRegex(), nil
	case value.String:
		return value.CompileRegex(v.AsString())
	default:
		return nil, diagnostics.New(diagnostics.KindType,
			fmt.Sprintf("match operator requires a Regexp or String right operand, got %s", v.Kind()))
	}
}
