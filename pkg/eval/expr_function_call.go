package eval

import (
	"github.com/latticelang/lattice/pkg/ast"
	"github.com/latticelang/lattice/pkg/diagnostics"
	"github.com/latticelang/lattice/pkg/functions"
	"github.com/latticelang/lattice/pkg/value"
)

// evalFunctionCall implements "name(args) |params| { body }" (spec
// §4.7): arguments are evaluated eagerly, left to right; a trailing
// lambda block becomes a functions.LambdaCaller closure so
// pkg/functions never needs to touch an ast.Expression itself.
func (e *Evaluator) evalFunctionCall(n *ast.FunctionCallExpr) (value.Value, error) {
	args := make([]value.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := e.Eval(a)
		if err != nil {
			return value.Value{}, err
		}
		args[i] = v
	}

	callCtx := &functions.FunctionCallContext{
		Scope:      e.Ctx.CurrentScope(),
		MatchStack: e.Ctx.MatchStack(),
		Sink:       e.Ctx.Sink,
		Pos:        n.Pos(),
		RenderEpp:  e.renderEpp,
	}
	if n.Lambda != nil {
		callCtx.HasLambda = true
		callCtx.LambdaArity = len(n.Lambda.Params)
		callCtx.Lambda = func(blockArgs []value.Value) (value.Value, error) {
			return e.callLambda(n.Lambda, blockArgs)
		}
	}

	return e.Functions.Call(callCtx, n.Name, args)
}

// callLambda binds blockArgs to the lambda's declared parameters
// (arity already negotiated by the calling builtin) in a fresh scope
// and evaluates its body there.
func (e *Evaluator) callLambda(lambda *ast.LambdaExpr, blockArgs []value.Value) (value.Value, error) {
	_, guard := e.Ctx.PushEphemeralScope()
	defer guard.Close()

	s := e.Ctx.CurrentScope()
	for i, p := range lambda.Params {
		var v value.Value
		switch {
		case i < len(blockArgs):
			v = blockArgs[i]
		case p.Default != nil:
			dv, err := e.Eval(p.Default)
			if err != nil {
				return value.Value{}, err
			}
			v = dv
		default:
			v = value.Undefined()
		}
		if err := s.Set(p.Name, v); err != nil {
			return value.Value{}, diagnostics.At(diagnostics.KindRedefinition, lambda.Pos(), err.Error()).
				WithSymbol(p.Name)
		}
	}
	return e.EvalBlock(lambda.Body)
}
