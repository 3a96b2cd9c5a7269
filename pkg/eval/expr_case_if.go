package eval

import (
	"github.com/latticelang/lattice/pkg/ast"
	"github.com/latticelang/lattice/pkg/diagnostics"
	"github.com/latticelang/lattice/pkg/operators"
	"github.com/latticelang/lattice/pkg/value"
)

// evalCase implements "case $x { ... }" (spec §4.7): a fresh match
// scope, the selector evaluated once, propositions tried in order with
// the equal-or-regex-match rule, a splatted array option flattened
// before matching, and a remembered default tried only if every other
// proposition fails.
func (e *Evaluator) evalCase(n *ast.CaseExpr) (value.Value, error) {
	guard := e.Ctx.MatchStack().PushGuard(nil)
	defer guard.Close()

	subject, err := e.Eval(n.Subject)
	if err != nil {
		return value.Value{}, err
	}

	var defaultBody []ast.Expression
	haveDefault := false
	for _, opt := range n.Options {
		if len(opt.Values) == 0 {
			defaultBody = opt.Body
			haveDefault = true
			continue
		}
		matched, err := e.caseOptionMatches(subject, opt.Values)
		if err != nil {
			return value.Value{}, err
		}
		if matched {
			return e.evalBlockInLocalScope(opt.Body)
		}
	}
	if haveDefault {
		return e.evalBlockInLocalScope(defaultBody)
	}
	return value.Undefined(), nil
}

func (e *Evaluator) caseOptionMatches(subject value.Value, values []ast.Expression) (bool, error) {
	for _, valueExpr := range values {
		candidates, err := e.evalCaseOptionValue(valueExpr)
		if err != nil {
			return false, err
		}
		for _, c := range candidates {
			ok, err := e.matchesOne(subject, c)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
	}
	return false, nil
}

// evalCaseOptionValue evaluates one option value, flattening a splat
// into its elements (spec §4.7: "a splatted array option is flattened
// before matching").
func (e *Evaluator) evalCaseOptionValue(expr ast.Expression) ([]value.Value, error) {
	if u, ok := expr.(*ast.UnaryExpr); ok && u.Op == "*" {
		v, err := e.Eval(u.Operand)
		if err != nil {
			return nil, err
		}
		return v.ToArray(false).Elements(), nil
	}
	v, err := e.Eval(expr)
	if err != nil {
		return nil, err
	}
	return []value.Value{v}, nil
}

// matchesOne applies the case/selector matching rule: a regex candidate
// matches via =~ (pushing captures visible to the chosen body), anything
// else via structural equality.
func (e *Evaluator) matchesOne(subject, candidate value.Value) (bool, error) {
	if candidate.Deref().Kind() == value.Regexp {
		result, guard, err := operators.Match("=~", subject, candidate, e.Ctx.MatchStack())
		if err != nil {
			return false, err
		}
		if guard != nil {
			e.Ctx.pushMatchGuard(guard)
		}
		return result.Truthy(), nil
	}
	eq, err := operators.Eq(subject, candidate)
	if err != nil {
		return false, err
	}
	return eq.Truthy(), nil
}

// evalIf implements if/elsif/else (spec §4.7); "unless" is represented
// as an IfExpr whose Cond the external parser has already negated.
func (e *Evaluator) evalIf(n *ast.IfExpr) (value.Value, error) {
	guard := e.Ctx.MatchStack().PushGuard(nil)
	defer guard.Close()

	cond, err := e.Eval(n.Cond)
	if err != nil {
		return value.Value{}, err
	}
	if cond.Truthy() {
		return e.evalBlockInLocalScope(n.Then)
	}
	for _, elsif := range n.Elsif {
		elsifCond, err := e.Eval(elsif.Cond)
		if err != nil {
			return value.Value{}, err
		}
		if elsifCond.Truthy() {
			return e.evalBlockInLocalScope(elsif.Then)
		}
	}
	if n.Else != nil {
		return e.evalBlockInLocalScope(n.Else)
	}
	return value.Undefined(), nil
}

// evalSelector implements the postfix "$x ? { ... }" form (spec §4.7):
// same matching rule as case, but failing to match with no default is
// *no-matching-selector*, not undef.
func (e *Evaluator) evalSelector(n *ast.SelectorExpr) (value.Value, error) {
	guard := e.Ctx.MatchStack().PushGuard(nil)
	defer guard.Close()

	subject, err := e.Eval(n.Subject)
	if err != nil {
		return value.Value{}, err
	}

	var defaultResult ast.Expression
	haveDefault := false
	for _, c := range n.Cases {
		if len(c.Values) == 0 {
			if len(c.Body) == 1 {
				defaultResult = c.Body[0]
			}
			haveDefault = true
			continue
		}
		matched, err := e.caseOptionMatches(subject, c.Values)
		if err != nil {
			return value.Value{}, err
		}
		if matched {
			return e.evalBlockInLocalScope(c.Body)
		}
	}
	if haveDefault {
		if defaultResult != nil {
			return e.Eval(defaultResult)
		}
		return e.evalBlockInLocalScope(nil)
	}
	return value.Value{}, diagnostics.At(diagnostics.KindEvaluation, n.Pos(),
		"no matching selector option and no default")
}

// evalBlockInLocalScope evaluates body in a fresh ephemeral scope child
// of the current one, popped on exit (spec §5(ii)).
func (e *Evaluator) evalBlockInLocalScope(body []ast.Expression) (value.Value, error) {
	_, guard := e.Ctx.PushEphemeralScope()
	defer guard.Close()
	return e.EvalBlock(body)
}
