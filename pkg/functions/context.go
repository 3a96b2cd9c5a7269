package functions

import (
	"fmt"

	"github.com/latticelang/lattice/pkg/ast"
	"github.com/latticelang/lattice/pkg/diagnostics"
	"github.com/latticelang/lattice/pkg/scope"
	"github.com/latticelang/lattice/pkg/value"
)

// LambdaCaller invokes the trailing "|$a, $b| { ... }" block attached to
// a function call, if any. pkg/eval supplies this by closing over the
// lambda's AST and the scope it should execute in; this package never
// evaluates an ast.Expression itself (spec §1: tree-walking belongs to
// pkg/eval, not here).
type LambdaCaller func(args []value.Value) (value.Value, error)

// FunctionCallContext carries everything a builtin needs beyond its
// positional arguments: the calling scope (for functions like
// "defined()" that inspect it), the match stack (for functions that
// manipulate capture groups), the call's source position (for
// diagnostics), and the optional trailing lambda.
type FunctionCallContext struct {
	Scope      *scope.Scope
	MatchStack *scope.MatchStack
	Sink       diagnostics.Sink
	Pos        ast.Position
	// Lambda is nil when the call had no trailing block.
	Lambda LambdaCaller
	// HasLambda distinguishes "no block" from "block with zero params",
	// since Lambda itself is always non-nil-checkable via this flag.
	HasLambda bool
	// LambdaArity is the trailing lambda's declared parameter count,
	// used by the iteration builtins to choose between a
	// single-argument call (just the element) and a two-argument call
	// (index/key plus element), per spec's 1-arg-vs-2-arg lambda rule.
	LambdaArity int
	// RenderEpp renders a raw EPP template string against the given
	// parameter bindings, returning the rendered text. pkg/eval supplies
	// this (it owns the EPP stream stack and the only parser the core
	// has access to); this package cannot parse EPP markup itself.
	RenderEpp func(template string, params map[string]value.Value) (string, error)
}

// TypeError builds a diagnostics.Error positioned at ctx.Pos.
func (c *FunctionCallContext) TypeError(format string, args ...any) error {
	return diagnostics.At(diagnostics.KindType, c.Pos, fmt.Sprintf(format, args...))
}

// EvalError builds a generic evaluation diagnostics.Error positioned at
// ctx.Pos.
func (c *FunctionCallContext) EvalError(format string, args ...any) error {
	return diagnostics.At(diagnostics.KindEvaluation, c.Pos, fmt.Sprintf(format, args...))
}
