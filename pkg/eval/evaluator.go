package eval

import (
	"fmt"

	"github.com/latticelang/lattice/pkg/ast"
	"github.com/latticelang/lattice/pkg/catalog"
	"github.com/latticelang/lattice/pkg/collector"
	"github.com/latticelang/lattice/pkg/diagnostics"
	"github.com/latticelang/lattice/pkg/functions"
	"github.com/latticelang/lattice/pkg/registry"
	"github.com/latticelang/lattice/pkg/scope"
	"github.com/latticelang/lattice/pkg/types"
	"github.com/latticelang/lattice/pkg/value"
)

// Evaluator is the tree-walking expression evaluator (spec §4.7): it
// reduces one ast.Expression to a value.Value at a time, consulting a
// Context for scope/catalog/deferred-queue state, a Registry for
// class/defined-type/node lookups, and a functions.Dispatcher for
// function calls.
type Evaluator struct {
	Ctx       *Context
	Registry  *registry.Registry
	Functions *functions.Dispatcher
	Collector *collector.Engine

	compiled map[*CollectorItem]*collector.Compiled
}

// NewEvaluator wires a Context to the collaborators it needs to walk a
// tree to completion.
func NewEvaluator(ctx *Context, reg *registry.Registry, fns *functions.Dispatcher) *Evaluator {
	return &Evaluator{
		Ctx:       ctx,
		Registry:  reg,
		Functions: fns,
		Collector: collector.NewEngine(),
		compiled:  make(map[*CollectorItem]*collector.Compiled),
	}
}

// EvalBlock evaluates a sequence of expressions in source order (spec
// §5: "within a class or defined-type body, expressions execute in
// source order"), returning the last expression's value, or undef for
// an empty block.
func (e *Evaluator) EvalBlock(exprs []ast.Expression) (value.Value, error) {
	var result value.Value = value.Undefined()
	for _, expr := range exprs {
		v, err := e.Eval(expr)
		if err != nil {
			return value.Value{}, err
		}
		result = v
	}
	return result, nil
}

// Eval reduces one expression to a value, dispatching by concrete AST
// node type. The AST is assumed already structured by operator
// precedence (spec §4.7's precedence-climbing happens once, in the
// external parser that built the tree); this walk simply recurses
// top-down over whatever shape the tree already has.
func (e *Evaluator) Eval(expr ast.Expression) (value.Value, error) {
	switch n := expr.(type) {
	case *ast.Literal:
		return e.evalLiteral(n)
	case *ast.NameExpr:
		return value.Str(n.Name), nil
	case *ast.QualifiedNameExpr:
		return e.evalQualifiedName(n)
	case *ast.VariableExpr:
		return e.evalVariable(n)
	case *ast.ArrayExpr:
		return e.evalArray(n)
	case *ast.HashExpr:
		return e.evalHash(n)
	case *ast.BinaryExpr:
		return e.evalBinary(n)
	case *ast.UnaryExpr:
		return e.evalUnary(n)
	case *ast.CaseExpr:
		return e.evalCase(n)
	case *ast.IfExpr:
		return e.evalIf(n)
	case *ast.SelectorExpr:
		return e.evalSelector(n)
	case *ast.ResourceExpr:
		return e.evalResource(n)
	case *ast.ResourceOverrideExpr:
		return e.evalOverride(n)
	case *ast.CollectorExpr:
		return e.evalCollectorExpr(n)
	case *ast.FunctionCallExpr:
		return e.evalFunctionCall(n)
	case *ast.AccessExpr:
		return e.evalAccess(n)
	case *ast.TypeExpr:
		t, err := e.ResolveType(n)
		if err != nil {
			return value.Value{}, err
		}
		return value.TypeVal(t), nil
	case *ast.EppRenderExpr:
		return e.evalEppRender(n)
	default:
		return value.Value{}, diagnostics.At(diagnostics.KindInternal, expr.Pos(),
			fmt.Sprintf("unhandled expression type %T", expr))
	}
}

func (e *Evaluator) evalLiteral(n *ast.Literal) (value.Value, error) {
	return n.Value, nil
}

func (e *Evaluator) evalVariable(n *ast.VariableExpr) (value.Value, error) {
	if len(n.Name) >= 1 && n.Name[0] >= '0' && n.Name[0] <= '9' {
		idx := 0
		for _, c := range n.Name {
			if c < '0' || c > '9' {
				idx = -1
				break
			}
			idx = idx*10 + int(c-'0')
		}
		if idx >= 0 {
			return e.Ctx.MatchStack().Get(idx), nil
		}
	}
	namespace, local := scope.SplitQualified(n.Name)
	if namespace == "" {
		return e.Ctx.CurrentScope().Get(local), nil
	}
	s, resolvedLocal, err := e.Ctx.ScopeIndex().ResolveQualified(n.Name)
	if err != nil {
		if e.Ctx.Sink != nil {
			e.Ctx.Sink.Notice(diagnostics.Notice{
				Level:    diagnostics.LevelWarning,
				Message:  fmt.Sprintf("variable %q crosses an unknown namespace", n.Name),
				Position: n.Pos().String(),
				HasPos:   true,
			})
		}
		return value.Undefined(), nil
	}
	return s.Get(resolvedLocal), nil
}

func (e *Evaluator) evalQualifiedName(n *ast.QualifiedNameExpr) (value.Value, error) {
	return value.Str(n.Name), nil
}

func (e *Evaluator) evalArray(n *ast.ArrayExpr) (value.Value, error) {
	elems := make([]value.Value, 0, len(n.Elements))
	for _, el := range n.Elements {
		v, err := e.Eval(el)
		if err != nil {
			return value.Value{}, err
		}
		if u, ok := el.(*ast.UnaryExpr); ok && u.Op == "*" {
			splatted := v
			elems = append(elems, splatted.ToArray(false).Elements()...)
			continue
		}
		elems = append(elems, v)
	}
	return value.Arr(value.NewArray(elems)), nil
}

func (e *Evaluator) evalHash(n *ast.HashExpr) (value.Value, error) {
	h := value.NewHash()
	for _, entry := range n.Entries {
		k, err := e.Eval(entry.Key)
		if err != nil {
			return value.Value{}, err
		}
		v, err := e.Eval(entry.Value)
		if err != nil {
			return value.Value{}, err
		}
		h.Set(k, v)
	}
	return value.HashVal(h), nil
}

// resourceKeysOf resolves an evaluated resource reference value (a
// Resource type with a title, a Class type, or an array of these) to
// its (type,title) keys, used by both override targets and
// relationship endpoints.
func (e *Evaluator) resourceKeysOf(v value.Value) []catalog.Key {
	v = v.Deref()
	if v.Kind() == value.ArrayKind {
		var out []catalog.Key
		for _, el := range v.AsArray().Elements() {
			out = append(out, e.resourceKeysOf(el)...)
		}
		return out
	}
	if v.Kind() != value.TypeValue {
		return nil
	}
	switch t := v.AsType().(type) {
	case *types.ResourceType:
		if t.HasTitle {
			return []catalog.Key{catalog.CanonicalKey(t.TypeName, t.Title)}
		}
	case *types.ClassType:
		return []catalog.Key{catalog.CanonicalKey("Class", t.Name)}
	}
	return nil
}
