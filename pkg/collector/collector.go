// Package collector evaluates virtual/exported resource collector
// predicates (spec §4.4, §5(e)): "Type <| expr |>" and
// "Type <<| expr |>>". The predicate expression is compiled to a Rego
// query and evaluated per-candidate-resource through Open Policy
// Agent's embedded engine, adapted from the teacher's pkg/policy.Engine
// (itself built on the same rego/storage/inmem stack).
package collector

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
	"github.com/open-policy-agent/opa/storage/inmem"

	"github.com/latticelang/lattice/pkg/ast"
	"github.com/latticelang/lattice/pkg/catalog"
	"github.com/latticelang/lattice/pkg/diagnostics"
	"github.com/latticelang/lattice/pkg/value"
)

// Engine compiles and evaluates collector predicates.
type Engine struct {
	pkgCounter int
}

// NewEngine creates a collector predicate engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Compiled is a collector predicate ready to test against candidate
// resources, caching its Rego module text so repeated tests against many
// resources (spec §5(e): a collector is re-evaluated against every
// resource of its type during finalization) don't re-render it.
type Compiled struct {
	pkgName string
	rego    string
}

// Compile renders pred (nil means "match everything") into a Rego
// module. The predicate AST is restricted to equality/inequality
// comparisons against bare attribute names, combined with "and"/"or"
// (spec §4.4's collector predicate grammar); anything else is a type
// error, since this core implements the predicate engine, not a general
// expression evaluator inside Rego.
func (e *Engine) Compile(pred ast.Expression) (*Compiled, error) {
	e.pkgCounter++
	pkgName := fmt.Sprintf("lattice.collector%d", e.pkgCounter)

	var body string
	if pred == nil {
		body = "true"
	} else {
		rendered, err := renderPredicate(pred)
		if err != nil {
			return nil, err
		}
		body = rendered
	}

	module := fmt.Sprintf("package %s\n\ndefault allow = false\nallow {\n\t%s\n}\n", pkgName, body)
	return &Compiled{pkgName: pkgName, rego: module}, nil
}

// Matches reports whether r satisfies c's predicate.
func (c *Compiled) Matches(ctx context.Context, r *catalog.Resource) (bool, error) {
	input := map[string]any{
		"type":  r.Key.Type,
		"title": r.Key.Title,
		"attrs": attrsToJSON(r.Attributes),
	}

	store := inmem.NewFromObject(map[string]any{})
	q := rego.New(
		rego.Query(fmt.Sprintf("data.%s.allow", c.pkgName)),
		rego.Module("collector.rego", c.rego),
		rego.Input(input),
		rego.Store(store),
	)

	results, err := q.Eval(ctx)
	if err != nil {
		return false, diagnostics.New(diagnostics.KindEvaluation, fmt.Sprintf("collector predicate evaluation failed: %v", err))
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return false, nil
	}
	allow, _ := results[0].Expressions[0].Value.(bool)
	return allow, nil
}

func attrsToJSON(attrs map[string]value.Value) map[string]any {
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[k] = toJSON(v)
	}
	return out
}

func toJSON(v value.Value) any {
	v = v.Deref()
	switch v.Kind() {
	case value.Undef:
		return nil
	case value.Boolean:
		return v.AsBool()
	case value.Integer:
		return v.AsInt()
	case value.Float:
		return v.AsFloat()
	case value.String:
		return v.AsString()
	case value.ArrayKind:
		elems := v.AsArray().Elements()
		out := make([]any, len(elems))
		for i, e := range elems {
			out[i] = toJSON(e)
		}
		return out
	default:
		return v.Display()
	}
}

// renderPredicate recursively renders a boolean predicate expression as
// a Rego expression string over "input.attrs".
func renderPredicate(expr ast.Expression) (string, error) {
	switch e := expr.(type) {
	case *ast.BinaryExpr:
		switch e.Op {
		case "==", "!=":
			left, err := renderOperand(e.Left)
			if err != nil {
				return "", err
			}
			right, err := renderOperand(e.Right)
			if err != nil {
				return "", err
			}
			op := "=="
			if e.Op == "!=" {
				op = "!="
			}
			return fmt.Sprintf("%s %s %s", left, op, right), nil
		case "and":
			left, err := renderPredicate(e.Left)
			if err != nil {
				return "", err
			}
			right, err := renderPredicate(e.Right)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%s\n\t%s", left, right), nil
		case "or":
			return "", diagnostics.New(diagnostics.KindType,
				"collector predicates do not support \"or\" across separate Rego rule bodies in this core; express alternation within one attribute comparison instead")
		default:
			return "", diagnostics.New(diagnostics.KindType, fmt.Sprintf("unsupported collector predicate operator %q", e.Op))
		}
	default:
		return "", diagnostics.New(diagnostics.KindType, "unsupported collector predicate expression shape")
	}
}

func renderOperand(expr ast.Expression) (string, error) {
	switch e := expr.(type) {
	case *ast.NameExpr:
		return fmt.Sprintf("input.attrs[%q]", e.Name), nil
	case *ast.Literal:
		return renderLiteral(e.Value)
	default:
		return "", diagnostics.New(diagnostics.KindType, "collector predicate operands must be a bare attribute name or literal")
	}
}

func renderLiteral(v value.Value) (string, error) {
	switch v.Kind() {
	case value.String:
		return fmt.Sprintf("%q", v.AsString()), nil
	case value.Integer:
		return fmt.Sprintf("%d", v.AsInt()), nil
	case value.Float:
		return fmt.Sprintf("%g", v.AsFloat()), nil
	case value.Boolean:
		return fmt.Sprintf("%t", v.AsBool()), nil
	default:
		return "", diagnostics.New(diagnostics.KindType, fmt.Sprintf("collector predicates cannot compare against a %s literal", v.Kind()))
	}
}
