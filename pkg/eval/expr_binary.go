package eval

import (
	"fmt"

	"github.com/latticelang/lattice/pkg/ast"
	"github.com/latticelang/lattice/pkg/catalog"
	"github.com/latticelang/lattice/pkg/diagnostics"
	"github.com/latticelang/lattice/pkg/operators"
	"github.com/latticelang/lattice/pkg/value"
)

// evalBinary dispatches a BinaryExpr by its operator token to the
// matching pkg/operators handler, or to this package's own assignment/
// logical-short-circuit/edge-relationship handling where the operator
// needs evaluator state (scope, match stack, deferred queues) that
// pkg/operators deliberately has no access to (spec §4.7's precedence
// table: edges(1), assignment(2), or(3), and(4), relational(5),
// equality(6), shift(7), additive(8), multiplicative(9), match(10),
// in(11)).
func (e *Evaluator) evalBinary(n *ast.BinaryExpr) (value.Value, error) {
	switch n.Op {
	case "=":
		return e.evalAssign(n)
	case "or":
		left, err := e.Eval(n.Left)
		if err != nil {
			return value.Value{}, err
		}
		if left.Truthy() {
			return value.Bool(true), nil
		}
		right, err := e.Eval(n.Right)
		if err != nil {
			return value.Value{}, err
		}
		return operators.Or(left, right), nil
	case "and":
		left, err := e.Eval(n.Left)
		if err != nil {
			return value.Value{}, err
		}
		if !left.Truthy() {
			return value.Bool(false), nil
		}
		right, err := e.Eval(n.Right)
		if err != nil {
			return value.Value{}, err
		}
		return operators.And(left, right), nil
	case "->", "~>", "<-", "<~":
		return e.evalEdge(n)
	}

	left, err := e.Eval(n.Left)
	if err != nil {
		return value.Value{}, err
	}
	right, err := e.Eval(n.Right)
	if err != nil {
		return value.Value{}, err
	}

	switch n.Op {
	case "<", "<=", ">", ">=":
		return operators.Compare(n.Op, left, right)
	case "==":
		return operators.Eq(left, right)
	case "!=":
		return operators.Neq(left, right)
	case "<<", ">>":
		return operators.Shift(n.Op, left, right)
	case "+":
		return operators.Add(left, right)
	case ".":
		return operators.Concat(left, right)
	case "-":
		return operators.Sub(left, right)
	case "*":
		return operators.Mul(left, right)
	case "/":
		return operators.Div(left, right)
	case "%":
		return operators.Mod(left, right)
	case "=~", "!~":
		result, guard, err := operators.Match(n.Op, left, right, e.Ctx.MatchStack())
		if guard != nil {
			// Captures stay visible until the enclosing block exits
			// (§5(i)); a bare match expression has no block of its own,
			// so it rides the nearest enclosing scope guard's lifetime.
			e.Ctx.pushMatchGuard(guard)
		}
		return result, err
	case "in":
		return operators.In(left, right)
	default:
		return value.Value{}, diagnostics.At(diagnostics.KindInternal, n.Pos(),
			fmt.Sprintf("unknown binary operator %q", n.Op))
	}
}

func (e *Evaluator) evalAssign(n *ast.BinaryExpr) (value.Value, error) {
	v, ok := n.Left.(*ast.VariableExpr)
	if !ok {
		return value.Value{}, diagnostics.At(diagnostics.KindEvaluation, n.Pos(),
			"left side of an assignment must be a variable")
	}
	val, evalErr := e.Eval(n.Right)
	if evalErr != nil {
		return value.Value{}, evalErr
	}
	if setErr := e.Ctx.CurrentScope().Set(v.Name, val); setErr != nil {
		return value.Value{}, diagnostics.At(diagnostics.KindRedefinition, n.Pos(), setErr.Error()).
			WithSymbol(v.Name)
	}
	return val, nil
}

func (e *Evaluator) evalEdge(n *ast.BinaryExpr) (value.Value, error) {
	left, err := e.Eval(n.Left)
	if err != nil {
		return value.Value{}, err
	}
	right, err := e.Eval(n.Right)
	if err != nil {
		return value.Value{}, err
	}

	leftKeys := e.resourceKeysOf(left)
	rightKeys := e.resourceKeysOf(right)
	edges, err := operators.ResolveEdge(n.Op, leftKeys, rightKeys)
	if err != nil {
		return value.Value{}, err
	}
	for _, edge := range edges {
		e.Ctx.EnqueueRelationship(&RelationshipItem{
			Kind:    edge.Kind,
			Sources: []catalog.Key{edge.Source},
			Targets: []catalog.Key{edge.Target},
			Pos:     n.Pos(),
		})
	}
	return right, nil
}
