package eval

import (
	"fmt"

	"github.com/latticelang/lattice/pkg/ast"
	"github.com/latticelang/lattice/pkg/diagnostics"
	"github.com/latticelang/lattice/pkg/operators"
	"github.com/latticelang/lattice/pkg/value"
)

// evalUnary handles "!", "-", and "*" (spec §4.7's unary operators);
// "@"/"@@" are resource-declaration modifiers handled directly by
// evalResource, never reaching a bare UnaryExpr evaluation.
func (e *Evaluator) evalUnary(n *ast.UnaryExpr) (value.Value, error) {
	operand, err := e.Eval(n.Operand)
	if err != nil {
		return value.Value{}, err
	}
	switch n.Op {
	case "!":
		return operators.Not(operand), nil
	case "-":
		return operators.Negate(operand)
	case "*":
		return operators.Splat(operand), nil
	default:
		return value.Value{}, diagnostics.At(diagnostics.KindInternal, n.Pos(),
			fmt.Sprintf("unknown unary operator %q", n.Op))
	}
}
